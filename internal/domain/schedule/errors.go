package schedule

import "errors"

var (
	ErrWorkingHoursNotFound = errors.New("no working hours for this weekday")
	ErrInvalidWeekday       = errors.New("invalid weekday")
	ErrInvalidWindow        = errors.New("start time must be before end time")
	ErrInvalidTimeOfDay     = errors.New("invalid time of day")
	ErrDuplicateWeekday     = errors.New("duplicate weekday in working hours")
	ErrOffDayExists         = errors.New("off day already registered for this date")
	ErrOffDayNotFound       = errors.New("off day not found")
	ErrClinicClosed         = errors.New("clinic is closed on this date")
)
