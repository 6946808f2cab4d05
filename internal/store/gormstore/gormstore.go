// Package gormstore keeps the collections in PostgreSQL while preserving
// the whole-collection load/save contract: a load selects every row, a save
// replaces the table contents inside one transaction.
package gormstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/citaplan/citaplan/internal/domain/appointment"
	"github.com/citaplan/citaplan/internal/domain/doctor"
	"github.com/citaplan/citaplan/internal/domain/patient"
	"github.com/citaplan/citaplan/internal/store"
)

type GormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Models returns everything the store persists, for migration.
func Models() []any {
	return []any{&patientRow{}, &doctorRow{}, &appointmentRow{}}
}

func (s *GormStore) LoadPatients(ctx context.Context) ([]patient.Patient, error) {
	var rows []patientRow
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: loading patients: %v", store.ErrIO, err)
	}
	patients := make([]patient.Patient, 0, len(rows))
	for _, r := range rows {
		p, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}
	return patients, nil
}

func (s *GormStore) SavePatients(ctx context.Context, patients []patient.Patient) error {
	rows := make([]patientRow, 0, len(patients))
	for i, p := range patients {
		rows = append(rows, newPatientRow(p, i))
	}
	return s.replace(ctx, "patients", &patientRow{}, rows, len(rows))
}

func (s *GormStore) LoadDoctors(ctx context.Context) ([]doctor.Doctor, error) {
	var rows []doctorRow
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: loading doctors: %v", store.ErrIO, err)
	}
	doctors := make([]doctor.Doctor, 0, len(rows))
	for _, r := range rows {
		d, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		doctors = append(doctors, d)
	}
	return doctors, nil
}

func (s *GormStore) SaveDoctors(ctx context.Context, doctors []doctor.Doctor) error {
	rows := make([]doctorRow, 0, len(doctors))
	for i, d := range doctors {
		rows = append(rows, newDoctorRow(d, i))
	}
	return s.replace(ctx, "doctors", &doctorRow{}, rows, len(rows))
}

func (s *GormStore) LoadAppointments(ctx context.Context) ([]appointment.Appointment, error) {
	var rows []appointmentRow
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: loading appointments: %v", store.ErrIO, err)
	}
	appts := make([]appointment.Appointment, 0, len(rows))
	for _, r := range rows {
		a, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	return appts, nil
}

func (s *GormStore) SaveAppointments(ctx context.Context, appts []appointment.Appointment) error {
	rows := make([]appointmentRow, 0, len(appts))
	for i, a := range appts {
		rows = append(rows, newAppointmentRow(a, i))
	}
	return s.replace(ctx, "appointments", &appointmentRow{}, rows, len(rows))
}

// replace swaps the full table contents in one transaction, which is what
// makes a save atomic from the caller's point of view.
func (s *GormStore) replace(ctx context.Context, collection string, model any, rows any, count int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 500).Error
	})
	if err != nil {
		return fmt.Errorf("%w: saving %s: %v", store.ErrIO, collection, err)
	}
	return nil
}
