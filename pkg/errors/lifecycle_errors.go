package custom_error

import "fmt"

// ValidationError marks a malformed or incomplete request payload. The caller
// gets it back untouched and is expected to correct the input.
type ValidationError struct {
	message string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.message
}

type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ConflictError marks an operation rejected because of the current state of
// another resource, e.g. deleting an asset that is still checked out.
type ConflictError struct {
	message string
}

func NewConflictError(format string, args ...any) *ConflictError {
	return &ConflictError{message: fmt.Sprintf(format, args...)}
}

func (e *ConflictError) Error() string {
	return e.message
}

// AlreadyCheckedOutError is returned when a checkout targets an asset that
// already has an open transaction. Exactly one of two racing checkouts
// receives it, the storage layer guarantees the other committed.
type AlreadyCheckedOutError struct {
	AssetID int
}

func (e *AlreadyCheckedOutError) Error() string {
	return fmt.Sprintf("asset %d is already checked out", e.AssetID)
}

// NotCheckedOutError is returned when a checkin targets an asset with no open
// transaction.
type NotCheckedOutError struct {
	AssetID int
}

func (e *NotCheckedOutError) Error() string {
	return fmt.Sprintf("asset %d is not checked out", e.AssetID)
}

// WeatherUnavailableError marks an upstream weather provider failure. It is
// retryable: the checkin that hit it performed no writes.
type WeatherUnavailableError struct {
	Location string
	Err      error
}

func (e *WeatherUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("weather unavailable for %q: %v", e.Location, e.Err)
	}
	return fmt.Sprintf("weather unavailable for %q", e.Location)
}

func (e *WeatherUnavailableError) Unwrap() error {
	return e.Err
}
