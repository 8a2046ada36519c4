package appointment

import "errors"

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotTaken           = errors.New("this time slot is already booked")
	ErrInvalidStatus       = errors.New("invalid appointment status")
	ErrScheduledInPast     = errors.New("cannot book an appointment in the past")
)
