package user

import "errors"

var (
	// ErrMissingCredentials is returned when username or password is empty
	ErrMissingCredentials = errors.New("username and password required")

	// ErrInvalidRole is returned for roles outside patient/doctor/admin
	ErrInvalidRole = errors.New("invalid role")

	// ErrRoleForbidden is returned when a non-admin asks for a doctor or admin account
	ErrRoleForbidden = errors.New("only an admin can assign this role")

	// ErrUsernameTaken is returned when the username is already registered
	ErrUsernameTaken = errors.New("username already exists")

	// ErrUserNotFound is returned when no account matches a lookup
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when login fails for any reason
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a bearer token cannot be verified
	ErrInvalidToken = errors.New("invalid token")
)
