package service

import "errors"

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when registering an existing username.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUnauthenticated is returned when no valid session identity exists.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrAccessDenied is returned when a valid identity is not the owner.
	ErrAccessDenied = errors.New("access denied")
	// ErrNotFound is returned when the requested resource id is absent.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports a malformed or missing request field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidInput(msg string) error {
	return &ValidationError{Message: msg}
}
