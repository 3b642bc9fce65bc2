package Bookings

import "errors"

var (
	ErrServiceNotFound = errors.New("invalid service selected")
	ErrInvalidDateTime = errors.New("invalid date or time format")
	ErrMissingFields   = errors.New("missing required fields")
	ErrNotFound        = errors.New("booking not found")
	ErrForbidden       = errors.New("booking belongs to another user")
	ErrInvalidStatus   = errors.New("only pending bookings can be modified")
	ErrUnknownStatus   = errors.New("unknown booking status")
	ErrNotCompleted    = errors.New("receipt is only available for completed bookings")
)
