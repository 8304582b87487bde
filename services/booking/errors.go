package booking

import (
	"errors"
	"fmt"
)

// BookingError is a form-level error the API reports back as a 4xx.
type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newBookingError(code, msg string) error {
	return &BookingError{Code: code, Message: msg}
}

var (
	ErrSessionNotFound = errors.New("booking session not found or expired")
	ErrSessionClosed   = errors.New("booking session closed")
	ErrForbidden       = errors.New("booking session belongs to another user")
	ErrUnknownTimeSlot = newBookingError("unknownTimeSlot", "time slot is not among the available slots")
	ErrUnknownField    = newBookingError("unknownField", "field cannot be updated")
)

// invalidValue reports a value that does not fit the field.
func invalidValue(field string, value any) error {
	return newBookingError("invalidValue", fmt.Sprintf("invalid value %v for %s", value, field))
}

// IsBookingError reports whether err is a client-caused form error.
func IsBookingError(err error) bool {
	var be *BookingError
	return errors.As(err, &be)
}
