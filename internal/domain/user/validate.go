package user

import "github.com/geocoder89/employeehub/internal/validation"

// Validate runs the registration rule set. usernameTaken consults persisted
// users (case-insensitive); it only runs when a username was supplied. The
// storage-level unique index remains the authoritative guard against
// concurrent registrations.
func (r RegisterRequest) Validate(usernameTaken func(string) bool) validation.Errors {
	rules := []validation.Rule{
		validation.NotEmpty("Username", "Username", r.Username),
		validation.NotEmpty("Password", "Password", r.Password),
		{
			Field:   "Username",
			Message: "Username already exists.",
			When:    func() bool { return r.Username != nil && *r.Username != "" },
			Valid:   func() bool { return !usernameTaken(*r.Username) },
		},
	}

	return validation.Run(rules)
}

func (r LoginRequest) Validate() validation.Errors {
	return validation.Run([]validation.Rule{
		validation.NotEmpty("Username", "Username", r.Username),
		validation.NotEmpty("Password", "Password", r.Password),
	})
}
