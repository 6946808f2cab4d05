package appointment

import "errors"

var (
	ErrAppointmentNotFound      = errors.New("appointment not found")
	ErrAppointmentAlreadyExists = errors.New("appointment with this ID already exists")
	ErrSlotTaken                = errors.New("doctor already has a scheduled appointment at this date and time")
	ErrScheduledInPast          = errors.New("appointment date and time must be in the future")
	ErrInvalidStatusTransition  = errors.New("only scheduled appointments can be cancelled")
	ErrDoctorUnavailable        = errors.New("doctor is not available")
)
