package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/employeehub/internal/domain/employee"
	"github.com/geocoder89/employeehub/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake repository implementation of the handlers.EmployeeStore interface

type fakeEmployeesRepo struct {
	createFn       func(ctx context.Context, e employee.Employee) (employee.Employee, error)
	listFn         func(ctx context.Context, filter employee.ListEmployeesFilter) ([]employee.Employee, int, error)
	getFn          func(ctx context.Context, id int64) (employee.Employee, error)
	updateFn       func(ctx context.Context, id int64, req employee.UpdateEmployeeRequest, modifiedBy string) (employee.Employee, error)
	deleteFn       func(ctx context.Context, id int64) error
	listBenefitsFn func(ctx context.Context, employeeID int64) ([]employee.EnrolledBenefit, error)
}

func (f *fakeEmployeesRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return employee.Employee{}, nil
}

func (f *fakeEmployeesRepo) List(ctx context.Context, filter employee.ListEmployeesFilter) ([]employee.Employee, int, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (f *fakeEmployeesRepo) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return employee.Employee{}, nil
}

func (f *fakeEmployeesRepo) Update(ctx context.Context, id int64, req employee.UpdateEmployeeRequest, modifiedBy string) (employee.Employee, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req, modifiedBy)
	}
	return employee.Employee{}, nil
}

func (f *fakeEmployeesRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeEmployeesRepo) ListBenefits(ctx context.Context, employeeID int64) ([]employee.EnrolledBenefit, error) {
	if f.listBenefitsFn != nil {
		return f.listBenefitsFn(ctx, employeeID)
	}
	return nil, nil
}

// small helper function which returns the gin engine to mount one handler per test

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

// validationErrors digs the field->messages map out of the error envelope.

func validationErrors(t *testing.T, w *httptest.ResponseRecorder) map[string][]string {
	t.Helper()

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Errors map[string][]string `json:"errors"`
			} `json:"details"`
		} `json:"error"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal error body: %v, body=%s", err, w.Body.String())
	}

	if body.Error.Code != "validation_failed" {
		t.Fatalf("expected validation_failed, got %q body=%s", body.Error.Code, w.Body.String())
	}

	return body.Error.Details.Errors
}

// Create Employee tests

func TestCreateEmployeeHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		repoSetUp      func(*fakeEmployeesRepo)
		wantStatusCode int
		check          func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "success",
			body: `{"firstName": "Tom", "lastName": "Doe", "ssn": "111-11-1111"}`,
			repoSetUp: func(f *fakeEmployeesRepo) {
				f.createFn = func(ctx context.Context, e employee.Employee) (employee.Employee, error) {
					e.ID = 7
					return e, nil
				}
			},
			wantStatusCode: http.StatusCreated,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				if loc := w.Header().Get("Location"); loc != "/api/v1/employees/7" {
					t.Errorf("Location = %q", loc)
				}

				var view employee.View
				if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
					t.Fatalf("bad body: %v", err)
				}
				if view.ID != 7 || view.FirstName != "Tom" {
					t.Errorf("unexpected view: %+v", view)
				}
				// the SSN must never appear in a response shape
				if bytes.Contains(w.Body.Bytes(), []byte("111-11-1111")) {
					t.Errorf("response leaked the SSN: %s", w.Body.String())
				}
			},
		},
		{
			name:           "missing names fail validation with both fields",
			body:           `{}`,
			wantStatusCode: http.StatusBadRequest,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				errs := validationErrors(t, w)

				if got := errs["FirstName"]; len(got) == 0 || got[0] != "'First Name' must not be empty." {
					t.Errorf("FirstName errors = %v", got)
				}
				if got := errs["LastName"]; len(got) == 0 || got[0] != "'Last Name' must not be empty." {
					t.Errorf("LastName errors = %v", got)
				}
			},
		},
		{
			name:           "malformed json",
			body:           `{"firstName":`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeEmployeesRepo{}

			if tc.repoSetUp != nil {
				tc.repoSetUp(repo)
			}

			h := handlers.NewEmployeesHandler(repo)
			r := setupRouter(http.MethodPost, "/api/v1/employees", h.CreateEmployee)

			w := doJSON(t, r, http.MethodPost, "/api/v1/employees", tc.body)

			if w.Code != tc.wantStatusCode {
				t.Fatalf("status = %d, want %d, body=%s", w.Code, tc.wantStatusCode, w.Body.String())
			}

			if tc.check != nil {
				tc.check(t, w)
			}
		})
	}
}

// Update Employee tests

func TestUpdateEmployeeHandler(t *testing.T) {
	validBody := `{"address1": "123 Main St", "city": "Toronto", "state": "ON", "zipCode": "M5H 2N2"}`

	tests := []struct {
		name           string
		path           string
		body           string
		repoSetUp      func(*fakeEmployeesRepo)
		wantStatusCode int
		check          func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "success",
			path: "/api/v1/employees/1",
			body: validBody,
			repoSetUp: func(f *fakeEmployeesRepo) {
				f.getFn = func(ctx context.Context, id int64) (employee.Employee, error) {
					return employee.Employee{ID: id, FirstName: "John", LastName: "Doe"}, nil
				}
				f.updateFn = func(ctx context.Context, id int64, req employee.UpdateEmployeeRequest, modifiedBy string) (employee.Employee, error) {
					return employee.Employee{ID: id, FirstName: "John", LastName: "Doe", Address1: req.Address1}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "unknown id is not found regardless of body",
			path: "/api/v1/employees/0",
			body: `{}`,
			repoSetUp: func(f *fakeEmployeesRepo) {
				f.getFn = func(ctx context.Context, id int64) (employee.Employee, error) {
					return employee.Employee{}, employee.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "missing address1 fails validation",
			path: "/api/v1/employees/1",
			body: `{"city": "Toronto"}`,
			repoSetUp: func(f *fakeEmployeesRepo) {
				f.getFn = func(ctx context.Context, id int64) (employee.Employee, error) {
					return employee.Employee{ID: id}, nil
				}
			},
			wantStatusCode: http.StatusBadRequest,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				errs := validationErrors(t, w)

				if _, ok := errs["Address1"]; !ok {
					t.Errorf("expected Address1 in error map, got %v", errs)
				}
			},
		},
		{
			name: "address group required once address1 is set",
			path: "/api/v1/employees/1",
			body: `{"address1": "123 Main St"}`,
			repoSetUp: func(f *fakeEmployeesRepo) {
				f.getFn = func(ctx context.Context, id int64) (employee.Employee, error) {
					return employee.Employee{ID: id}, nil
				}
			},
			wantStatusCode: http.StatusBadRequest,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				errs := validationErrors(t, w)

				for _, field := range []string{"City", "State", "ZipCode"} {
					if _, ok := errs[field]; !ok {
						t.Errorf("expected %s in error map, got %v", field, errs)
					}
				}
			},
		},
		{
			name:           "non numeric id is not found",
			path:           "/api/v1/employees/abc",
			body:           validBody,
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeEmployeesRepo{}

			if tc.repoSetUp != nil {
				tc.repoSetUp(repo)
			}

			h := handlers.NewEmployeesHandler(repo)
			r := setupRouter(http.MethodPut, "/api/v1/employees/:id", h.UpdateEmployee)

			w := doJSON(t, r, http.MethodPut, tc.path, tc.body)

			if w.Code != tc.wantStatusCode {
				t.Fatalf("status = %d, want %d, body=%s", w.Code, tc.wantStatusCode, w.Body.String())
			}

			if tc.check != nil {
				tc.check(t, w)
			}
		})
	}
}

// Delete Employee tests

func TestDeleteEmployeeHandler(t *testing.T) {
	deleted := map[int64]bool{}

	repo := &fakeEmployeesRepo{
		deleteFn: func(ctx context.Context, id int64) error {
			if deleted[id] {
				return employee.ErrNotFound
			}
			deleted[id] = true
			return nil
		},
	}

	h := handlers.NewEmployeesHandler(repo)
	r := setupRouter(http.MethodDelete, "/api/v1/employees/:id", h.DeleteEmployee)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/employees/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("first delete status = %d, want 204", w.Code)
	}

	// deleting the same id twice yields 204 then 404
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/employees/1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", w.Code)
	}
}

// List Employees tests

func TestListEmployeesHandler(t *testing.T) {
	var gotFilter employee.ListEmployeesFilter

	repo := &fakeEmployeesRepo{
		listFn: func(ctx context.Context, filter employee.ListEmployeesFilter) ([]employee.Employee, int, error) {
			gotFilter = filter
			return []employee.Employee{{ID: 1, FirstName: "John", LastName: "Doe"}}, 1, nil
		},
	}

	h := handlers.NewEmployeesHandler(repo)
	r := setupRouter(http.MethodGet, "/api/v1/employees", h.ListEmployees)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees?firstNameContains=John&page=2&recordsPerPage=25", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
	}

	if gotFilter.FirstNameContains != "John" || gotFilter.Page != 2 || gotFilter.PageSize != 25 {
		t.Errorf("filter not propagated: %+v", gotFilter)
	}

	// the body is a bare array of views, never an envelope
	var items []employee.View

	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("bad body: %v", err)
	}

	if len(items) != 1 {
		t.Errorf("unexpected body: %+v", items)
	}

	if got := w.Header().Get("X-Total-Count"); got != "1" {
		t.Errorf("X-Total-Count = %q, want 1", got)
	}
}

// Benefits tests

func TestGetBenefitsForEmployeeHandler(t *testing.T) {
	override := 50.0

	repo := &fakeEmployeesRepo{
		getFn: func(ctx context.Context, id int64) (employee.Employee, error) {
			if id != 1 {
				return employee.Employee{}, employee.ErrNotFound
			}
			return employee.Employee{ID: 1}, nil
		},
		listBenefitsFn: func(ctx context.Context, employeeID int64) ([]employee.EnrolledBenefit, error) {
			return []employee.EnrolledBenefit{
				{
					Enrollment: employee.EmployeeBenefit{ID: 1, EmployeeID: 1, BenefitID: 1, CostToEmployee: &override},
					Plan:       employee.Benefit{ID: 1, Name: "Health", Description: "Medical Insurance", BaseCost: 100},
				},
				{
					Enrollment: employee.EmployeeBenefit{ID: 2, EmployeeID: 1, BenefitID: 1},
					Plan:       employee.Benefit{ID: 1, Name: "Health", Description: "Medical Insurance", BaseCost: 100},
				},
			}, nil
		},
	}

	h := handlers.NewEmployeesHandler(repo)
	r := setupRouter(http.MethodGet, "/api/v1/employees/:id/benefits", h.GetBenefitsForEmployee)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees/1/benefits", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
	}

	var views []employee.BenefitView

	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatalf("bad body: %v", err)
	}

	if len(views) != 2 {
		t.Fatalf("expected 2 benefits, got %d", len(views))
	}

	if views[0].Cost != 50 || views[1].Cost != 100 {
		t.Errorf("costs = %v, %v; want 50, 100", views[0].Cost, views[1].Cost)
	}

	// unknown employee is a 404
	req = httptest.NewRequest(http.MethodGet, "/api/v1/employees/2/benefits", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown employee status = %d, want 404", w.Code)
	}
}

// Get Employee tests

func TestGetEmployeeByIdHandler(t *testing.T) {
	repo := &fakeEmployeesRepo{
		getFn: func(ctx context.Context, id int64) (employee.Employee, error) {
			if id != 1 {
				return employee.Employee{}, employee.ErrNotFound
			}
			ssn := "111-11-1111"
			return employee.Employee{ID: 1, FirstName: "John", LastName: "Doe", SSN: &ssn}, nil
		},
	}

	h := handlers.NewEmployeesHandler(repo)
	r := setupRouter(http.MethodGet, "/api/v1/employees/:id", h.GetEmployeeById)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", w.Code, w.Body.String())
	}

	if bytes.Contains(w.Body.Bytes(), []byte("111-11-1111")) {
		t.Errorf("response leaked the SSN: %s", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/employees/99", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
