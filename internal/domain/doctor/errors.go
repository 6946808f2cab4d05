package doctor

import "errors"

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrDoctorAlreadyExists = errors.New("doctor with this ID already exists")
	ErrDuplicateDoctor     = errors.New("a doctor with this name and specialty is already registered")
	ErrMissingFields       = errors.New("doctor ID, name and specialty are required")
	ErrNoAvailableDays     = errors.New("at least one available day is required")
	ErrInvalidWeekday      = errors.New("available days must be valid weekday names")
	ErrInvalidWindow       = errors.New("availability window start must be before its end")
)
