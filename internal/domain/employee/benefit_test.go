package employee_test

import (
	"testing"

	"github.com/geocoder89/employeehub/internal/domain/employee"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestResolveCost(t *testing.T) {
	plan := employee.Benefit{ID: 1, Name: "Health", Description: "Medical Insurance", BaseCost: 100}

	tests := []struct {
		name       string
		enrollment employee.EmployeeBenefit
		want       float64
	}{
		{
			name:       "override takes precedence",
			enrollment: employee.EmployeeBenefit{ID: 1, EmployeeID: 1, BenefitID: 1, CostToEmployee: floatPtr(50)},
			want:       50,
		},
		{
			name:       "base cost when no override",
			enrollment: employee.EmployeeBenefit{ID: 2, EmployeeID: 1, BenefitID: 1},
			want:       100,
		},
		{
			name:       "zero override is still an override",
			enrollment: employee.EmployeeBenefit{ID: 3, EmployeeID: 1, BenefitID: 1, CostToEmployee: floatPtr(0)},
			want:       0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := employee.ResolveCost(tc.enrollment, plan)

			if got != tc.want {
				t.Errorf("ResolveCost = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEnrolledBenefitToView(t *testing.T) {
	b := employee.EnrolledBenefit{
		Enrollment: employee.EmployeeBenefit{ID: 7, EmployeeID: 3, BenefitID: 2, CostToEmployee: floatPtr(25)},
		Plan:       employee.Benefit{ID: 2, Name: "Dental", Description: "Dental Insurance", BaseCost: 50},
	}

	view := b.ToView()

	if view.ID != 7 || view.Name != "Dental" || view.Cost != 25 {
		t.Errorf("unexpected view: %+v", view)
	}
}
