package employee

import (
	"errors"
	"time"
)

type Employee struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	// never expose the SSN in JSON
	SSN            *string   `json:"-"`
	Address1       *string   `json:"address1,omitempty"`
	Address2       *string   `json:"address2,omitempty"`
	City           *string   `json:"city,omitempty"`
	State          *string   `json:"state,omitempty"`
	ZipCode        *string   `json:"zipCode,omitempty"`
	PhoneNumber    *string   `json:"phoneNumber,omitempty"`
	Email          *string   `json:"email,omitempty"`
	LastModifiedAt time.Time `json:"lastModifiedAt"`
	LastModifiedBy string    `json:"lastModifiedBy"`
}

var ErrNotFound = errors.New("employee not found")

// with pointers if optional, it will be nil
type ListEmployeesFilter struct {
	FirstNameContains string
	LastNameContains  string
	Page              int
	PageSize          int
}

const (
	DefaultPageSize = 100
	MaxPageSize     = 500
)

// Normalize clamps page/pageSize to the contract defaults so every repo
// implementation paginates the same way.
func (f *ListEmployeesFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

func (f ListEmployeesFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

type CreateEmployeeRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	SSN         *string `json:"ssn"`
	Address1    *string `json:"address1"`
	Address2    *string `json:"address2"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	ZipCode     *string `json:"zipCode"`
	PhoneNumber *string `json:"phoneNumber"`
	Email       *string `json:"email"`
}

// Name and SSN are immutable after creation, so the update payload only
// carries address/contact fields.
type UpdateEmployeeRequest struct {
	Address1    *string `json:"address1"`
	Address2    *string `json:"address2"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	ZipCode     *string `json:"zipCode"`
	PhoneNumber *string `json:"phoneNumber"`
	Email       *string `json:"email"`
}

// NewFromCreateRequest builds the entity, stamping the modification fields.
// The ID is assigned by storage.
func NewFromCreateRequest(req CreateEmployeeRequest, modifiedBy string) Employee {
	return Employee{
		FirstName:      deref(req.FirstName),
		LastName:       deref(req.LastName),
		SSN:            req.SSN,
		Address1:       req.Address1,
		Address2:       req.Address2,
		City:           req.City,
		State:          req.State,
		ZipCode:        req.ZipCode,
		PhoneNumber:    req.PhoneNumber,
		Email:          req.Email,
		LastModifiedAt: time.Now().UTC(),
		LastModifiedBy: modifiedBy,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// View is the response shape for every employee read. It deliberately has no
// SSN field.
type View struct {
	ID          int64   `json:"id"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Address1    *string `json:"address1"`
	Address2    *string `json:"address2"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	ZipCode     *string `json:"zipCode"`
	PhoneNumber *string `json:"phoneNumber"`
	Email       *string `json:"email"`
}

func (e Employee) ToView() View {
	return View{
		ID:          e.ID,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		Address1:    e.Address1,
		Address2:    e.Address2,
		City:        e.City,
		State:       e.State,
		ZipCode:     e.ZipCode,
		PhoneNumber: e.PhoneNumber,
		Email:       e.Email,
	}
}
