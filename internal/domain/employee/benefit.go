package employee

// Benefit is a plan definition. Reference data, never mutated through this
// service.
type Benefit struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	BaseCost    float64 `json:"baseCost"`
}

// EmployeeBenefit links one employee to one benefit plan. CostToEmployee is
// a per-enrollment override of the plan's base cost.
type EmployeeBenefit struct {
	ID             int64    `json:"id"`
	EmployeeID     int64    `json:"employeeId"`
	BenefitID      int64    `json:"benefitId"`
	CostToEmployee *float64 `json:"costToEmployee"`
}

// ResolveCost returns the effective cost of an enrollment: the override when
// present, the plan base cost otherwise.
func ResolveCost(enrollment EmployeeBenefit, plan Benefit) float64 {
	if enrollment.CostToEmployee != nil {
		return *enrollment.CostToEmployee
	}
	return plan.BaseCost
}

// BenefitView is the response shape for GET /employees/:id/benefits.
type BenefitView struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
}

// EnrolledBenefit pairs an enrollment with its plan as read from storage.
type EnrolledBenefit struct {
	Enrollment EmployeeBenefit
	Plan       Benefit
}

func (b EnrolledBenefit) ToView() BenefitView {
	return BenefitView{
		ID:          b.Enrollment.ID,
		Name:        b.Plan.Name,
		Description: b.Plan.Description,
		Cost:        ResolveCost(b.Enrollment, b.Plan),
	}
}
