package employee

import "github.com/geocoder89/employeehub/internal/validation"

// Validate runs the create rule set. FirstName and LastName are the only
// hard-required fields on creation.
func (r CreateEmployeeRequest) Validate() validation.Errors {
	return validation.Run([]validation.Rule{
		validation.NotEmpty("FirstName", "First Name", r.FirstName),
		validation.NotEmpty("LastName", "Last Name", r.LastName),
	})
}

// Validate runs the update rule set. Address1 is required, and once an
// address line is supplied the rest of the address group (city, state, zip)
// becomes required with it.
func (r UpdateEmployeeRequest) Validate() validation.Errors {
	hasAddress := func() bool { return r.Address1 != nil }

	return validation.Run([]validation.Rule{
		validation.NotEmpty("Address1", "Address1", r.Address1),
		validation.NotEmptyWhen(hasAddress, "City", "City", r.City),
		validation.NotEmptyWhen(hasAddress, "State", "State", r.State),
		validation.NotEmptyWhen(hasAddress, "ZipCode", "Zip Code", r.ZipCode),
	})
}
