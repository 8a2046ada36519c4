package doctor

import "errors"

var (
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrServiceNotFound = errors.New("service not found")
	ErrInvalidDuration = errors.New("service duration must be positive")
	ErrServiceMismatch = errors.New("service does not belong to this doctor")
)
