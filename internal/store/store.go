package store

import (
	"context"
	"errors"

	"github.com/citaplan/citaplan/internal/domain/appointment"
	"github.com/citaplan/citaplan/internal/domain/doctor"
	"github.com/citaplan/citaplan/internal/domain/patient"
)

// ErrIO marks any persistence failure (read, write, decode). Store
// implementations wrap it so callers can classify failures with errors.Is.
var ErrIO = errors.New("record store I/O failure")

// Store gives whole-collection access to the three record collections.
// There are no partial updates: a save replaces the entire collection, and
// callers own the read-modify-write cycle (and its serialization).
type Store interface {
	LoadPatients(ctx context.Context) ([]patient.Patient, error)
	SavePatients(ctx context.Context, patients []patient.Patient) error

	LoadDoctors(ctx context.Context) ([]doctor.Doctor, error)
	SaveDoctors(ctx context.Context, doctors []doctor.Doctor) error

	LoadAppointments(ctx context.Context) ([]appointment.Appointment, error)
	SaveAppointments(ctx context.Context, appts []appointment.Appointment) error
}
