package apperrors

import "errors"

// Catalog errors
var (
	// ErrStoreUnavailable marks a failed read against the record store. Recoverable.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrUnresolvedReference is logged when an instance points at a missing template.
	// It never reaches callers of the aggregator.
	ErrUnresolvedReference = errors.New("unresolved template reference")
	// ErrInvalidRecord is raised at the store boundary for rows missing required fields.
	ErrInvalidRecord = errors.New("invalid record")
	ErrClassNotFound = errors.New("class not found")
	ErrInvalidFilter = errors.New("invalid filter")
)

// Booking errors
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrAlreadyBooked   = errors.New("class already booked")
	ErrWriteFailed     = errors.New("booking could not be saved")
)

// Authentication errors
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// NewInvalidFilterError wraps ErrInvalidFilter with a user-facing message
func NewInvalidFilterError(message string) error {
	return &CustomError{
		Err:     ErrInvalidFilter,
		Message: message,
	}
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
