package appointment

import (
	"time"

	"github.com/citaplan/citaplan/internal/domain/calendar"
)

// Status transitions: scheduled → cancelled, nothing else. Cancelling an
// already-cancelled appointment is rejected; records are never deleted.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
)

// Appointment is a booked slot: one doctor, one patient, one (date, time)
// pair. While Status is StatusScheduled no other scheduled appointment for
// the same doctor may share the same slot.
type Appointment struct {
	ID        string             `json:"id"`
	PatientID string             `json:"patientId"`
	DoctorID  string             `json:"doctorId"`
	Date      calendar.Date      `json:"date"`
	Time      calendar.TimeOfDay `json:"time"`
	Status    Status             `json:"status"`
}

// At returns the appointment's instant in the local zone.
func (a *Appointment) At() time.Time {
	return a.Date.At(a.Time)
}

func (a *Appointment) IsScheduled() bool {
	return a.Status == StatusScheduled
}

// Cancel performs the only legal status transition.
func (a *Appointment) Cancel() error {
	if a.Status != StatusScheduled {
		return ErrInvalidStatusTransition
	}
	a.Status = StatusCancelled
	return nil
}

// HasConflict reports whether a scheduled appointment for the doctor already
// occupies the exact slot. Dates compare on the normalized day value and
// times on the exact minute; cancelled appointments never conflict, which is
// what allows a freed slot to be rebooked.
func HasConflict(appts []Appointment, doctorID string, date calendar.Date, t calendar.TimeOfDay) bool {
	for i := range appts {
		a := &appts[i]
		if a.IsScheduled() && a.DoctorID == doctorID && a.Date.Equal(date) && a.Time.Equal(t) {
			return true
		}
	}
	return false
}

// CreateAppointmentCommand carries the raw booking request. Date and Time
// stay strings here: parsing them (and reporting malformed values) is part
// of the scheduling engine's validation sequence.
type CreateAppointmentCommand struct {
	ID        string
	PatientID string
	DoctorID  string
	Date      string
	Time      string
}
