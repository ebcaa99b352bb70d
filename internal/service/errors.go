package service

import "errors"

// Shared sentinel errors returned by the service layer. Handlers map these to
// HTTP status codes.
var (
	ErrQuotationNotFound = errors.New("quotation not found")
	ErrDriverEmailTaken  = errors.New("a driver with this email already exists")
	ErrInvalidDriverRole = errors.New("role must be driver, admin or dispatcher")
	ErrInvalidName       = errors.New("name must be at least 2 characters")
	ErrInvalidEmail      = errors.New("a valid email address is required")
	ErrInvalidPhone      = errors.New("phone must contain at least 8 digits")
)
