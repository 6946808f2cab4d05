package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/citaplan/citaplan/internal/domain/appointment"
	"github.com/citaplan/citaplan/internal/domain/calendar"
	"github.com/citaplan/citaplan/internal/domain/doctor"
	"github.com/citaplan/citaplan/internal/domain/patient"
	"github.com/citaplan/citaplan/pkg/metrics"
)

// The collector registers against the default prometheus registry, so the
// test binary builds it exactly once.
var (
	collectorOnce sync.Once
	testCollector *metrics.Collector
)

func testMetrics() *metrics.Collector {
	collectorOnce.Do(func() {
		testCollector = metrics.NewCollector("citaplan_test")
	})
	return testCollector
}

// memStore is an in-memory record store with optional error injection.
type memStore struct {
	mu       sync.Mutex
	patients []patient.Patient
	doctors  []doctor.Doctor
	appts    []appointment.Appointment

	loadErr error
	saveErr error
}

func (s *memStore) LoadPatients(context.Context) ([]patient.Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]patient.Patient(nil), s.patients...), nil
}

func (s *memStore) SavePatients(_ context.Context, patients []patient.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.patients = append([]patient.Patient(nil), patients...)
	return nil
}

func (s *memStore) LoadDoctors(context.Context) ([]doctor.Doctor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]doctor.Doctor(nil), s.doctors...), nil
}

func (s *memStore) SaveDoctors(_ context.Context, doctors []doctor.Doctor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.doctors = append([]doctor.Doctor(nil), doctors...)
	return nil
}

func (s *memStore) LoadAppointments(context.Context) ([]appointment.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]appointment.Appointment(nil), s.appts...), nil
}

func (s *memStore) SaveAppointments(_ context.Context, appts []appointment.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.appts = append([]appointment.Appointment(nil), appts...)
	return nil
}

// Fixture clock: Friday 2026-01-02 08:00 local. The following Monday is
// 2026-01-05.
var testNow = time.Date(2026, time.January, 2, 8, 0, 0, 0, time.Local)

const (
	testMonday  = "2026-01-05"
	testTuesday = "2026-01-06"
)

func fixtureDoctor(id, name, specialty string) doctor.Doctor {
	return doctor.Doctor{
		ID:            id,
		Name:          name,
		Specialty:     specialty,
		AvailableDays: []calendar.Weekday{calendar.Monday},
		WindowStart:   calendar.TimeOfDay{Hour: 9},
		WindowEnd:     calendar.TimeOfDay{Hour: 12},
	}
}

func fixturePatient(id, email string) patient.Patient {
	return patient.Patient{
		ID:               id,
		Name:             "Ana Morales",
		Age:              34,
		Phone:            "555-0101",
		Email:            email,
		RegistrationDate: calendar.NewDate(2025, time.December, 1),
	}
}

func newBookingService(st *memStore) *AppointmentService {
	svc := NewAppointmentService(st, testMetrics(), zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func newBookingFixture() (*AppointmentService, *memStore) {
	st := &memStore{
		patients: []patient.Patient{
			fixturePatient("pat-1", "ana@example.com"),
			fixturePatient("pat-2", "luis@example.com"),
		},
		doctors: []doctor.Doctor{
			fixtureDoctor("doc-1", "Dr. Vega", "Cardiology"),
			fixtureDoctor("doc-2", "Dr. Sol", "Dermatology"),
		},
	}
	return newBookingService(st), st
}
