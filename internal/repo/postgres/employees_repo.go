package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geocoder89/employeehub/internal/domain/employee"
	"github.com/geocoder89/employeehub/internal/observability"
	"github.com/jackc/pgx/v5"
)

type EmployeesRepo struct {
	db   DB
	prom *observability.Prom
}

// constructor function; prom may be nil (tests)

func NewEmployeesRepo(db DB, prom *observability.Prom) *EmployeesRepo {
	return &EmployeesRepo{
		db:   db,
		prom: prom,
	}
}

func (r *EmployeesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

const employeeColumns = `id,
		first_name,
		last_name,
		ssn,
		address1,
		address2,
		city,
		state,
		zip_code,
		phone_number,
		email,
		last_modified_at,
		last_modified_by`

func scanEmployee(row pgx.Row, extra ...any) (employee.Employee, error) {
	var e employee.Employee

	dest := []any{
		&e.ID,
		&e.FirstName,
		&e.LastName,
		&e.SSN,
		&e.Address1,
		&e.Address2,
		&e.City,
		&e.State,
		&e.ZipCode,
		&e.PhoneNumber,
		&e.Email,
		&e.LastModifiedAt,
		&e.LastModifiedBy,
	}
	dest = append(dest, extra...)

	err := row.Scan(dest...)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrNotFound
		}
		return employee.Employee{}, err
	}

	return e, nil
}

func (r *EmployeesRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	err := r.observe("employees.create", func() error {
		return r.db.QueryRow(ctx,
			`INSERT INTO employees(first_name, last_name, ssn, address1, address2, city, state, zip_code, phone_number, email, last_modified_at, last_modified_by)
			VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
			RETURNING id`,
			e.FirstName, e.LastName, e.SSN, e.Address1, e.Address2, e.City, e.State, e.ZipCode, e.PhoneNumber, e.Email, e.LastModifiedAt, e.LastModifiedBy,
		).Scan(&e.ID)
	})

	if err != nil {
		return employee.Employee{}, err
	}

	return e, nil
}

func (r *EmployeesRepo) List(ctx context.Context, filter employee.ListEmployeesFilter) ([]employee.Employee, int, error) {
	filter.Normalize()

	baseQuery := `SELECT ` + employeeColumns + `,
		COUNT(*) OVER() AS total
	FROM employees
	`

	var conds []string
	var args []interface{}

	argsPosition := 1

	// substring filters are case-insensitive by contract.
	if filter.FirstNameContains != "" {
		conds = append(conds, fmt.Sprintf("first_name ILIKE '%%' || $%d || '%%'", argsPosition))
		args = append(args, filter.FirstNameContains)
		argsPosition++
	}

	if filter.LastNameContains != "" {
		conds = append(conds, fmt.Sprintf("last_name ILIKE '%%' || $%d || '%%'", argsPosition))
		args = append(args, filter.LastNameContains)
		argsPosition++
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// stable ordering for pagination
	query += fmt.Sprintf(" ORDER BY id ASC LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)

	args = append(args, filter.PageSize, filter.Offset())

	output := make([]employee.Employee, 0, filter.PageSize)
	total := 0

	err := r.observe("employees.list", func() error {
		rows, err := r.db.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var t int

			e, err := scanEmployee(rows, &t)

			if err != nil {
				return err
			}

			total = t
			output = append(output, e)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, 0, err
	}

	return output, total, nil
}

func (r *EmployeesRepo) GetByID(ctx context.Context, id int64) (e employee.Employee, err error) {
	err = r.observe("employees.get_by_id", func() error {
		row := r.db.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)

		e, err = scanEmployee(row)
		return err
	})

	return e, err
}

// Update touches only the mutable address/contact fields and stamps the
// modification columns in the same statement, so a concurrent delete
// surfaces as ErrNotFound rather than a partial write.
func (r *EmployeesRepo) Update(ctx context.Context, id int64, req employee.UpdateEmployeeRequest, modifiedBy string) (e employee.Employee, err error) {
	err = r.observe("employees.update", func() error {
		row := r.db.QueryRow(ctx,
			`UPDATE employees
				SET address1 = $2,
						address2 = $3,
						city = $4,
						state = $5,
						zip_code = $6,
						phone_number = $7,
						email = $8,
						last_modified_at = $9,
						last_modified_by = $10
			WHERE id = $1
			RETURNING `+employeeColumns,
			id,
			req.Address1,
			req.Address2,
			req.City,
			req.State,
			req.ZipCode,
			req.PhoneNumber,
			req.Email,
			time.Now().UTC(),
			modifiedBy,
		)

		e, err = scanEmployee(row)
		return err
	})

	return e, err
}

func (r *EmployeesRepo) Delete(ctx context.Context, id int64) error {
	return r.observe("employees.delete", func() error {
		tag, err := r.db.Exec(ctx, `
			DELETE FROM employees WHERE id = $1
		`, id)

		if err != nil {

			return err
		}

		// if no rows were deleted as a result return a not found error
		if tag.RowsAffected() == 0 {
			return employee.ErrNotFound
		}

		return nil
	})
}

// ListBenefits returns the employee's enrollments joined with their plans.
// Callers check employee existence separately; no enrollments is an empty
// slice, not an error.
func (r *EmployeesRepo) ListBenefits(ctx context.Context, employeeID int64) ([]employee.EnrolledBenefit, error) {
	output := make([]employee.EnrolledBenefit, 0)

	err := r.observe("employees.list_benefits", func() error {
		rows, err := r.db.Query(ctx,
			`SELECT eb.id,
				eb.employee_id,
				eb.benefit_id,
				eb.cost_to_employee,
				b.id,
				b.name,
				b.description,
				b.base_cost
			FROM employee_benefits eb
			JOIN benefits b ON b.id = eb.benefit_id
			WHERE eb.employee_id = $1
			ORDER BY eb.id ASC`,
			employeeID,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var eb employee.EnrolledBenefit

			err = rows.Scan(
				&eb.Enrollment.ID,
				&eb.Enrollment.EmployeeID,
				&eb.Enrollment.BenefitID,
				&eb.Enrollment.CostToEmployee,
				&eb.Plan.ID,
				&eb.Plan.Name,
				&eb.Plan.Description,
				&eb.Plan.BaseCost,
			)

			if err != nil {
				return err
			}

			output = append(output, eb)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}
