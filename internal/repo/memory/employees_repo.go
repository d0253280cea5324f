package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/geocoder89/employeehub/internal/domain/employee"
)

// EmployeesRepo is the in-memory variant of the employee store: a map keyed
// by id with an atomic id-allocation counter. Used by tests and local runs
// without a database.
type EmployeesRepo struct {
	mu          sync.RWMutex
	nextID      int64
	items       map[int64]employee.Employee
	enrollments map[int64][]employee.EnrolledBenefit
}

func NewEmployeesRepo() *EmployeesRepo {
	return &EmployeesRepo{
		items:       make(map[int64]employee.Employee),
		enrollments: make(map[int64][]employee.EnrolledBenefit),
	}
}

func (r *EmployeesRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	e.ID = r.nextID
	r.items[e.ID] = e

	return e, nil
}

func (r *EmployeesRepo) List(ctx context.Context, filter employee.ListEmployeesFilter) ([]employee.Employee, int, error) {
	filter.Normalize()

	first := strings.ToLower(filter.FirstNameContains)
	last := strings.ToLower(filter.LastNameContains)

	r.mu.RLock()

	matched := make([]employee.Employee, 0, len(r.items))

	for _, e := range r.items {
		if first != "" && !strings.Contains(strings.ToLower(e.FirstName), first) {
			continue
		}
		if last != "" && !strings.Contains(strings.ToLower(e.LastName), last) {
			continue
		}
		matched = append(matched, e)
	}

	r.mu.RUnlock()

	// stable ordering for pagination
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)

	start := filter.Offset()
	if start > total {
		start = total
	}

	end := start + filter.PageSize
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

func (r *EmployeesRepo) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	r.mu.RLock()
	e, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return employee.Employee{}, employee.ErrNotFound
	}

	return e, nil
}

func (r *EmployeesRepo) Update(ctx context.Context, id int64, req employee.UpdateEmployeeRequest, modifiedBy string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[id]

	if !ok {
		return employee.Employee{}, employee.ErrNotFound
	}

	e.Address1 = req.Address1
	e.Address2 = req.Address2
	e.City = req.City
	e.State = req.State
	e.ZipCode = req.ZipCode
	e.PhoneNumber = req.PhoneNumber
	e.Email = req.Email
	e.LastModifiedAt = time.Now().UTC()
	e.LastModifiedBy = modifiedBy

	r.items[id] = e

	return e, nil
}

func (r *EmployeesRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[id]

	if !ok {
		return employee.ErrNotFound
	}

	delete(r.items, id)
	delete(r.enrollments, id)

	return nil
}

func (r *EmployeesRepo) ListBenefits(ctx context.Context, employeeID int64) ([]employee.EnrolledBenefit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]employee.EnrolledBenefit, 0, len(r.enrollments[employeeID]))
	out = append(out, r.enrollments[employeeID]...)

	return out, nil
}

// Enroll seeds an enrollment; the production enrollment flow lives outside
// this service, so only tests and fixtures call this.
func (r *EmployeesRepo) Enroll(employeeID int64, plan employee.Benefit, costOverride *float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := int64(1)
	for _, list := range r.enrollments {
		id += int64(len(list))
	}

	r.enrollments[employeeID] = append(r.enrollments[employeeID], employee.EnrolledBenefit{
		Enrollment: employee.EmployeeBenefit{
			ID:             id,
			EmployeeID:     employeeID,
			BenefitID:      plan.ID,
			CostToEmployee: costOverride,
		},
		Plan: plan,
	})
}
