package store

import (
	"context"
	"time"

	"github.com/citaplan/citaplan/internal/domain/appointment"
	"github.com/citaplan/citaplan/internal/domain/doctor"
	"github.com/citaplan/citaplan/internal/domain/patient"
	"github.com/citaplan/citaplan/pkg/metrics"
)

// WithMetrics wraps a Store so every load/save reports its latency to the
// collector, labelled by operation and collection.
func WithMetrics(inner Store, collector *metrics.Collector) Store {
	return &instrumentedStore{inner: inner, metrics: collector}
}

type instrumentedStore struct {
	inner   Store
	metrics *metrics.Collector
}

func (s *instrumentedStore) observe(operation, collection string, start time.Time) {
	s.metrics.StoreOpDuration.WithLabelValues(operation, collection).Observe(time.Since(start).Seconds())
}

func (s *instrumentedStore) LoadPatients(ctx context.Context) ([]patient.Patient, error) {
	defer s.observe("load", "patients", time.Now())
	return s.inner.LoadPatients(ctx)
}

func (s *instrumentedStore) SavePatients(ctx context.Context, patients []patient.Patient) error {
	defer s.observe("save", "patients", time.Now())
	return s.inner.SavePatients(ctx, patients)
}

func (s *instrumentedStore) LoadDoctors(ctx context.Context) ([]doctor.Doctor, error) {
	defer s.observe("load", "doctors", time.Now())
	return s.inner.LoadDoctors(ctx)
}

func (s *instrumentedStore) SaveDoctors(ctx context.Context, doctors []doctor.Doctor) error {
	defer s.observe("save", "doctors", time.Now())
	return s.inner.SaveDoctors(ctx, doctors)
}

func (s *instrumentedStore) LoadAppointments(ctx context.Context) ([]appointment.Appointment, error) {
	defer s.observe("load", "appointments", time.Now())
	return s.inner.LoadAppointments(ctx)
}

func (s *instrumentedStore) SaveAppointments(ctx context.Context, appts []appointment.Appointment) error {
	defer s.observe("save", "appointments", time.Now())
	return s.inner.SaveAppointments(ctx, appts)
}
