package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/citaplan/citaplan/internal/domain/calendar"
	"github.com/citaplan/citaplan/internal/domain/doctor"
	"github.com/citaplan/citaplan/internal/store"
	"github.com/citaplan/citaplan/pkg/metrics"
)

type DoctorService struct {
	store   store.Store
	metrics *metrics.Collector
	log     *zap.Logger

	mu sync.Mutex
}

func NewDoctorService(st store.Store, collector *metrics.Collector, log *zap.Logger) *DoctorService {
	return &DoctorService{
		store:   st,
		metrics: collector,
		log:     log,
	}
}

// Register creates a doctor record. Weekday labels are normalized to their
// canonical form; the ID must be unique and so must the name+specialty
// pair, which catches the same practitioner being registered twice under
// different ids.
func (s *DoctorService) Register(ctx context.Context, cmd doctor.CreateDoctorCommand) (*doctor.Doctor, error) {
	if strings.TrimSpace(cmd.WindowStart) == "" || strings.TrimSpace(cmd.WindowEnd) == "" {
		return nil, doctor.ErrMissingFields
	}

	days := make([]calendar.Weekday, 0, len(cmd.AvailableDays))
	for _, raw := range cmd.AvailableDays {
		day, err := calendar.ParseWeekday(raw)
		if err != nil {
			return nil, doctor.ErrInvalidWeekday
		}
		days = append(days, day)
	}

	windowStart, err := calendar.ParseTimeOfDay(cmd.WindowStart)
	if err != nil {
		return nil, err
	}
	windowEnd, err := calendar.ParseTimeOfDay(cmd.WindowEnd)
	if err != nil {
		return nil, err
	}

	d := doctor.Doctor{
		ID:            strings.TrimSpace(cmd.ID),
		Name:          strings.TrimSpace(cmd.Name),
		Specialty:     strings.TrimSpace(cmd.Specialty),
		AvailableDays: days,
		WindowStart:   windowStart,
		WindowEnd:     windowEnd,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doctors, err := s.store.LoadDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading doctors: %w", err)
	}

	for i := range doctors {
		if doctors[i].ID == d.ID {
			return nil, doctor.ErrDoctorAlreadyExists
		}
		if strings.EqualFold(doctors[i].Name, d.Name) && strings.EqualFold(doctors[i].Specialty, d.Specialty) {
			return nil, doctor.ErrDuplicateDoctor
		}
	}

	doctors = append(doctors, d)
	if err := s.store.SaveDoctors(ctx, doctors); err != nil {
		s.log.Error("failed to persist doctor", zap.Error(err))
		return nil, fmt.Errorf("saving doctors: %w", err)
	}

	s.metrics.DoctorsRegisteredTotal.Inc()
	s.log.Info("doctor registered",
		zap.String("doctor_id", d.ID),
		zap.String("specialty", d.Specialty),
	)

	return &d, nil
}

func (s *DoctorService) List(ctx context.Context) ([]doctor.Doctor, error) {
	return s.store.LoadDoctors(ctx)
}

func (s *DoctorService) Get(ctx context.Context, id string) (*doctor.Doctor, error) {
	doctors, err := s.store.LoadDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading doctors: %w", err)
	}
	if d := findDoctor(doctors, id); d != nil {
		found := *d
		return &found, nil
	}
	return nil, doctor.ErrDoctorNotFound
}

// BySpecialty filters doctors case-insensitively. An unknown specialty is
// not an error: it simply matches nothing.
func (s *DoctorService) BySpecialty(ctx context.Context, specialty string) ([]doctor.Doctor, error) {
	doctors, err := s.store.LoadDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading doctors: %w", err)
	}

	matched := make([]doctor.Doctor, 0)
	for _, d := range doctors {
		if strings.EqualFold(d.Specialty, strings.TrimSpace(specialty)) {
			matched = append(matched, d)
		}
	}
	return matched, nil
}
