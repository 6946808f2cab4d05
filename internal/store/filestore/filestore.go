// Package filestore persists each collection as a JSON document under a
// data directory, mirroring the layout the system originally shipped with.
// Durability guarantees (atomic rename, fsync) are deliberately out of
// scope; the store's contract is whole-file read and whole-file write.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/citaplan/citaplan/internal/domain/appointment"
	"github.com/citaplan/citaplan/internal/domain/doctor"
	"github.com/citaplan/citaplan/internal/domain/patient"
	"github.com/citaplan/citaplan/internal/store"
)

const (
	patientsFile     = "patients.json"
	doctorsFile      = "doctors.json"
	appointmentsFile = "appointments.json"
)

type FileStore struct {
	dir string
}

// New creates the data directory if it does not exist yet.
func New(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating data dir: %v", store.ErrIO, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) LoadPatients(ctx context.Context) ([]patient.Patient, error) {
	var patients []patient.Patient
	if err := s.read(ctx, patientsFile, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

func (s *FileStore) SavePatients(ctx context.Context, patients []patient.Patient) error {
	return s.write(ctx, patientsFile, patients)
}

func (s *FileStore) LoadDoctors(ctx context.Context) ([]doctor.Doctor, error) {
	var doctors []doctor.Doctor
	if err := s.read(ctx, doctorsFile, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (s *FileStore) SaveDoctors(ctx context.Context, doctors []doctor.Doctor) error {
	return s.write(ctx, doctorsFile, doctors)
}

func (s *FileStore) LoadAppointments(ctx context.Context) ([]appointment.Appointment, error) {
	var appts []appointment.Appointment
	if err := s.read(ctx, appointmentsFile, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

func (s *FileStore) SaveAppointments(ctx context.Context, appts []appointment.Appointment) error {
	return s.write(ctx, appointmentsFile, appts)
}

// read decodes the named collection file. A file that does not exist yet
// reads as an empty collection so a fresh data directory works untouched.
func (s *FileStore) read(ctx context.Context, name string, out any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrIO, err)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: reading %s: %v", store.ErrIO, name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", store.ErrIO, name, err)
	}
	return nil
}

func (s *FileStore) write(ctx context.Context, name string, in any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrIO, err)
	}
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", store.ErrIO, name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", store.ErrIO, name, err)
	}
	return nil
}
