package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/citaplan/citaplan/internal/domain/appointment"
	"github.com/citaplan/citaplan/internal/domain/calendar"
	"github.com/citaplan/citaplan/internal/domain/patient"
	"github.com/citaplan/citaplan/internal/store"
	"github.com/citaplan/citaplan/pkg/metrics"
)

type PatientService struct {
	store   store.Store
	metrics *metrics.Collector
	log     *zap.Logger

	mu  sync.Mutex
	now func() time.Time
}

func NewPatientService(st store.Store, collector *metrics.Collector, log *zap.Logger) *PatientService {
	return &PatientService{
		store:   st,
		metrics: collector,
		log:     log,
		now:     time.Now,
	}
}

// Register creates a patient record. ID and email must be unique across the
// collection; the registration date is stamped with the current day and is
// immutable from then on.
func (s *PatientService) Register(ctx context.Context, cmd patient.CreatePatientCommand) (*patient.Patient, error) {
	now := s.now()
	p := patient.Patient{
		ID:               strings.TrimSpace(cmd.ID),
		Name:             strings.TrimSpace(cmd.Name),
		Age:              cmd.Age,
		Phone:            strings.TrimSpace(cmd.Phone),
		Email:            strings.ToLower(strings.TrimSpace(cmd.Email)),
		RegistrationDate: calendar.NewDate(now.Year(), now.Month(), now.Day()),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	patients, err := s.store.LoadPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading patients: %w", err)
	}

	for i := range patients {
		if patients[i].ID == p.ID {
			return nil, patient.ErrPatientAlreadyExists
		}
		if strings.EqualFold(patients[i].Email, p.Email) {
			return nil, patient.ErrEmailAlreadyUsed
		}
	}

	patients = append(patients, p)
	if err := s.store.SavePatients(ctx, patients); err != nil {
		s.log.Error("failed to persist patient", zap.Error(err))
		return nil, fmt.Errorf("saving patients: %w", err)
	}

	s.metrics.PatientsRegisteredTotal.Inc()
	s.log.Info("patient registered", zap.String("patient_id", p.ID))

	return &p, nil
}

func (s *PatientService) List(ctx context.Context) ([]patient.Patient, error) {
	return s.store.LoadPatients(ctx)
}

func (s *PatientService) Get(ctx context.Context, id string) (*patient.Patient, error) {
	patients, err := s.store.LoadPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading patients: %w", err)
	}
	for i := range patients {
		if patients[i].ID == id {
			p := patients[i]
			return &p, nil
		}
	}
	return nil, patient.ErrPatientNotFound
}

// Update applies partial changes. ID and registration date never change;
// a changed email must stay unique.
func (s *PatientService) Update(ctx context.Context, id string, cmd patient.UpdatePatientCommand) (*patient.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patients, err := s.store.LoadPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading patients: %w", err)
	}

	idx := -1
	for i := range patients {
		if patients[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, patient.ErrPatientNotFound
	}

	updated := patients[idx]
	if cmd.Name != nil {
		updated.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.Age != nil {
		updated.Age = *cmd.Age
	}
	if cmd.Phone != nil {
		updated.Phone = strings.TrimSpace(*cmd.Phone)
	}
	if cmd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*cmd.Email))
		for i := range patients {
			if i != idx && strings.EqualFold(patients[i].Email, email) {
				return nil, patient.ErrEmailAlreadyUsed
			}
		}
		updated.Email = email
	}
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	patients[idx] = updated
	if err := s.store.SavePatients(ctx, patients); err != nil {
		s.log.Error("failed to persist patient update", zap.Error(err))
		return nil, fmt.Errorf("saving patients: %w", err)
	}

	return &updated, nil
}

// History returns every appointment ever booked for the patient, cancelled
// ones included.
func (s *PatientService) History(ctx context.Context, id string) ([]appointment.Appointment, error) {
	patients, err := s.store.LoadPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading patients: %w", err)
	}
	if !patientExists(patients, id) {
		return nil, patient.ErrPatientNotFound
	}

	appts, err := s.store.LoadAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading appointments: %w", err)
	}

	history := make([]appointment.Appointment, 0)
	for _, a := range appts {
		if a.PatientID == id {
			history = append(history, a)
		}
	}
	return history, nil
}
