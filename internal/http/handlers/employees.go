package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/employeehub/internal/config"
	"github.com/geocoder89/employeehub/internal/domain/employee"
	"github.com/geocoder89/employeehub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// EmployeeStore is the storage-agnostic contract for employee CRUD plus
// benefit lookups. Both the postgres and the memory repo satisfy it.
type EmployeeStore interface {
	Create(ctx context.Context, e employee.Employee) (employee.Employee, error)
	List(ctx context.Context, filter employee.ListEmployeesFilter) ([]employee.Employee, int, error)
	GetByID(ctx context.Context, id int64) (employee.Employee, error)
	Update(ctx context.Context, id int64, req employee.UpdateEmployeeRequest, modifiedBy string) (employee.Employee, error)
	Delete(ctx context.Context, id int64) error
	ListBenefits(ctx context.Context, employeeID int64) ([]employee.EnrolledBenefit, error)
}

type EmployeesHandler struct {
	repo EmployeeStore
}

func NewEmployeesHandler(repo EmployeeStore) *EmployeesHandler {
	return &EmployeesHandler{repo: repo}
}

func employeeIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil {
		// a non-numeric id can never name an employee
		RespondNotFound(ctx, "Employee not found")
		return 0, false
	}

	return id, true
}

func (h *EmployeesHandler) ListEmployees(ctx *gin.Context) {
	filter := employee.ListEmployeesFilter{
		FirstNameContains: ctx.Query("firstNameContains"),
		LastNameContains:  ctx.Query("lastNameContains"),
	}

	if page, err := strconv.Atoi(ctx.Query("page")); err == nil {
		filter.Page = page
	}

	if size, err := strconv.Atoi(ctx.Query("recordsPerPage")); err == nil {
		filter.PageSize = size
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	employees, total, err := h.repo.List(cctx, filter)

	if err != nil {
		RespondInternal(ctx, "Could not list employees")
		return
	}

	items := make([]employee.View, 0, len(employees))

	for _, e := range employees {
		items = append(items, e.ToView())
	}

	// the body is the bare page of views; the unpaged total travels in a
	// header so the response shape stays a plain array.
	ctx.Header("X-Total-Count", strconv.Itoa(total))
	ctx.JSON(http.StatusOK, items)
}

func (h *EmployeesHandler) GetEmployeeById(ctx *gin.Context) {
	id, ok := employeeIDParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	e, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			RespondNotFound(ctx, "Employee not found")
			return
		}
		RespondInternal(ctx, "Could not fetch employee")
		return
	}

	ctx.JSON(http.StatusOK, e.ToView())
}

func (h *EmployeesHandler) CreateEmployee(ctx *gin.Context) {
	var req employee.CreateEmployeeRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if errs := req.Validate(); !errs.Empty() {
		RespondValidationFailed(ctx, errs)
		return
	}

	principal, _ := middlewares.UsernameFromContext(ctx)

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	e, err := h.repo.Create(cctx, employee.NewFromCreateRequest(req, principal))

	if err != nil {
		RespondInternal(ctx, "Could not create employee")
		return
	}

	ctx.Header("Location", fmt.Sprintf("/api/v1/employees/%d", e.ID))
	ctx.JSON(http.StatusCreated, e.ToView())
}

func (h *EmployeesHandler) UpdateEmployee(ctx *gin.Context) {
	id, ok := employeeIDParam(ctx)

	if !ok {
		return
	}

	var req employee.UpdateEmployeeRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	// locate before validating: an unknown id is a 404 no matter what the
	// body looks like.
	_, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			RespondNotFound(ctx, "Employee not found")
			return
		}
		RespondInternal(ctx, "Could not update employee")
		return
	}

	if errs := req.Validate(); !errs.Empty() {
		RespondValidationFailed(ctx, errs)
		return
	}

	principal, _ := middlewares.UsernameFromContext(ctx)

	e, err := h.repo.Update(cctx, id, req, principal)

	if err != nil {
		// the row may vanish between locate and update; still a plain 404
		if errors.Is(err, employee.ErrNotFound) {
			RespondNotFound(ctx, "Employee not found")
			return
		}
		RespondInternal(ctx, "Could not update employee")
		return
	}

	ctx.JSON(http.StatusOK, e.ToView())
}

func (h *EmployeesHandler) DeleteEmployee(ctx *gin.Context) {
	id, ok := employeeIDParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			RespondNotFound(ctx, "Employee not found")
			return
		}
		RespondInternal(ctx, "Could not delete employee")
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *EmployeesHandler) GetBenefitsForEmployee(ctx *gin.Context) {
	id, ok := employeeIDParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	_, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			RespondNotFound(ctx, "Employee not found")
			return
		}
		RespondInternal(ctx, "Could not fetch employee benefits")
		return
	}

	enrolled, err := h.repo.ListBenefits(cctx, id)

	if err != nil {
		RespondInternal(ctx, "Could not fetch employee benefits")
		return
	}

	views := make([]employee.BenefitView, 0, len(enrolled))

	for _, b := range enrolled {
		views = append(views, b.ToView())
	}

	ctx.JSON(http.StatusOK, views)
}
