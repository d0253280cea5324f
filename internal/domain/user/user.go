package user

import "errors"

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // never expose hash in JSON
}

var ErrNotFound = errors.New("user not found")

// ErrUsernameTaken is returned by stores when the case-insensitive unique
// constraint on username is violated.
var ErrUsernameTaken = errors.New("username already exists")

type RegisterRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type LoginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// TokenRequest feeds the insecure test-token endpoint: the caller asks for a
// role and gets exactly that role, no questions asked.
type TokenRequest struct {
	Role     string `json:"role" binding:"required"`
	Username string `json:"username" binding:"required"`
}
