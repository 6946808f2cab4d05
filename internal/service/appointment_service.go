package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/citaplan/citaplan/internal/domain/appointment"
	"github.com/citaplan/citaplan/internal/domain/calendar"
	"github.com/citaplan/citaplan/internal/domain/doctor"
	"github.com/citaplan/citaplan/internal/domain/patient"
	"github.com/citaplan/citaplan/internal/store"
	"github.com/citaplan/citaplan/pkg/metrics"
)

// DefaultUpcomingHorizon is how far ahead Upcoming looks when the caller
// does not say otherwise.
const DefaultUpcomingHorizon = 24 * time.Hour

// AppointmentService is the scheduling engine. Booking and cancellation are
// read-modify-write cycles over the whole appointment collection, so both
// run under mu: two concurrent requests can never pass the conflict check
// against the same stale snapshot.
type AppointmentService struct {
	store   store.Store
	metrics *metrics.Collector
	log     *zap.Logger
	tracer  trace.Tracer

	mu  sync.Mutex
	now func() time.Time
}

func NewAppointmentService(st store.Store, collector *metrics.Collector, log *zap.Logger) *AppointmentService {
	return &AppointmentService{
		store:   st,
		metrics: collector,
		log:     log,
		tracer:  otel.Tracer("citaplan/scheduling"),
		now:     time.Now,
	}
}

// Schedule validates a booking request and, if every check passes, appends
// the appointment with status scheduled and persists the collection.
//
// Checks run in a fixed order and short-circuit at the first failure, so
// callers get deterministic error reporting: required fields, parseable
// date/time, patient exists, doctor exists, slot in the future, doctor
// available, slot free. Appointment ID uniqueness is enforced last so it
// never shadows the preceding rejections.
func (s *AppointmentService) Schedule(ctx context.Context, cmd appointment.CreateAppointmentCommand) (*appointment.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "appointment.schedule")
	defer span.End()

	var missing []string
	if strings.TrimSpace(cmd.ID) == "" {
		missing = append(missing, "id")
	}
	if strings.TrimSpace(cmd.PatientID) == "" {
		missing = append(missing, "patientId")
	}
	if strings.TrimSpace(cmd.DoctorID) == "" {
		missing = append(missing, "doctorId")
	}
	if strings.TrimSpace(cmd.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(cmd.Time) == "" {
		missing = append(missing, "time")
	}
	if len(missing) > 0 {
		return nil, s.reject("missing_fields", &ValidationError{Fields: missing})
	}

	date, err := calendar.ParseDate(cmd.Date)
	if err != nil {
		return nil, s.reject("malformed_time", err)
	}
	timeOfDay, err := calendar.ParseTimeOfDay(cmd.Time)
	if err != nil {
		return nil, s.reject("malformed_time", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	patients, err := s.store.LoadPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading patients: %w", err)
	}
	doctors, err := s.store.LoadDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading doctors: %w", err)
	}
	appts, err := s.store.LoadAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading appointments: %w", err)
	}

	if !patientExists(patients, cmd.PatientID) {
		return nil, s.reject("patient_not_found", patient.ErrPatientNotFound)
	}

	doc := findDoctor(doctors, cmd.DoctorID)
	if doc == nil {
		return nil, s.reject("doctor_not_found", doctor.ErrDoctorNotFound)
	}

	if !date.At(timeOfDay).After(s.now()) {
		return nil, s.reject("past_datetime", appointment.ErrScheduledInPast)
	}

	if weekday := date.Weekday(); !doc.WorksOn(weekday) {
		return nil, s.reject("doctor_unavailable", fmt.Errorf(
			"%w on %s", appointment.ErrDoctorUnavailable, weekday))
	}
	if !doc.WindowContains(timeOfDay) {
		return nil, s.reject("doctor_unavailable", fmt.Errorf(
			"%w: %s is outside the %s-%s window",
			appointment.ErrDoctorUnavailable, timeOfDay, doc.WindowStart, doc.WindowEnd))
	}

	if appointment.HasConflict(appts, cmd.DoctorID, date, timeOfDay) {
		return nil, s.reject("slot_taken", appointment.ErrSlotTaken)
	}

	for i := range appts {
		if appts[i].ID == cmd.ID {
			return nil, s.reject("duplicate_id", appointment.ErrAppointmentAlreadyExists)
		}
	}

	created := appointment.Appointment{
		ID:        cmd.ID,
		PatientID: cmd.PatientID,
		DoctorID:  cmd.DoctorID,
		Date:      date,
		Time:      timeOfDay,
		Status:    appointment.StatusScheduled,
	}
	appts = append(appts, created)

	if err := s.store.SaveAppointments(ctx, appts); err != nil {
		s.log.Error("failed to persist appointment", zap.Error(err))
		return nil, fmt.Errorf("saving appointments: %w", err)
	}

	s.metrics.AppointmentsTotal.WithLabelValues(string(appointment.StatusScheduled)).Inc()
	s.log.Info("appointment scheduled",
		zap.String("appointment_id", created.ID),
		zap.String("doctor_id", created.DoctorID),
		zap.String("patient_id", created.PatientID),
		zap.String("date", created.Date.String()),
		zap.String("time", created.Time.String()),
	)

	return &created, nil
}

// Cancel moves a scheduled appointment to cancelled. Cancellation is final:
// there is no undo, and a second cancel is rejected.
func (s *AppointmentService) Cancel(ctx context.Context, id string) (*appointment.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "appointment.cancel")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	appts, err := s.store.LoadAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading appointments: %w", err)
	}

	idx := -1
	for i := range appts {
		if appts[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, appointment.ErrAppointmentNotFound
	}

	if err := appts[idx].Cancel(); err != nil {
		return nil, err
	}

	if err := s.store.SaveAppointments(ctx, appts); err != nil {
		s.log.Error("failed to persist cancellation", zap.Error(err))
		return nil, fmt.Errorf("saving appointments: %w", err)
	}

	s.metrics.AppointmentsTotal.WithLabelValues(string(appointment.StatusCancelled)).Inc()
	s.log.Info("appointment cancelled", zap.String("appointment_id", id))

	cancelled := appts[idx]
	return &cancelled, nil
}

func (s *AppointmentService) List(ctx context.Context) ([]appointment.Appointment, error) {
	return s.store.LoadAppointments(ctx)
}

func (s *AppointmentService) Get(ctx context.Context, id string) (*appointment.Appointment, error) {
	appts, err := s.store.LoadAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading appointments: %w", err)
	}
	for i := range appts {
		if appts[i].ID == id {
			a := appts[i]
			return &a, nil
		}
	}
	return nil, appointment.ErrAppointmentNotFound
}

// FindAvailableDoctors returns every doctor who is available at the given
// date and time and has no scheduled appointment occupying that exact slot.
func (s *AppointmentService) FindAvailableDoctors(ctx context.Context, dateStr, timeStr string) ([]doctor.Doctor, error) {
	ctx, span := s.tracer.Start(ctx, "appointment.find_available_doctors")
	defer span.End()

	var missing []string
	if strings.TrimSpace(dateStr) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(timeStr) == "" {
		missing = append(missing, "time")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	date, err := calendar.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}
	timeOfDay, err := calendar.ParseTimeOfDay(timeStr)
	if err != nil {
		return nil, err
	}

	doctors, err := s.store.LoadDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading doctors: %w", err)
	}
	appts, err := s.store.LoadAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading appointments: %w", err)
	}

	available := make([]doctor.Doctor, 0)
	for _, d := range doctors {
		if d.IsAvailableAt(date, timeOfDay) && !appointment.HasConflict(appts, d.ID, date, timeOfDay) {
			available = append(available, d)
		}
	}
	return available, nil
}

// Upcoming returns the scheduled appointments whose instant lies in
// [now, now+horizon). A non-positive horizon falls back to the 24h default.
// The result order is the stored collection order; callers must not rely
// on it.
func (s *AppointmentService) Upcoming(ctx context.Context, horizon time.Duration) ([]appointment.Appointment, error) {
	if horizon <= 0 {
		horizon = DefaultUpcomingHorizon
	}

	appts, err := s.store.LoadAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading appointments: %w", err)
	}

	now := s.now()
	end := now.Add(horizon)

	upcoming := make([]appointment.Appointment, 0)
	for _, a := range appts {
		if !a.IsScheduled() {
			continue
		}
		at := a.At()
		if !at.Before(now) && at.Before(end) {
			upcoming = append(upcoming, a)
		}
	}
	return upcoming, nil
}

// DoctorUtilization is the scheduled-appointment count for one doctor.
type DoctorUtilization struct {
	Doctor       doctor.Doctor `json:"doctor"`
	Appointments int           `json:"appointments"`
}

// Utilization counts scheduled appointments per doctor. Every doctor gets
// an entry, including those with zero appointments.
func (s *AppointmentService) Utilization(ctx context.Context) ([]DoctorUtilization, error) {
	doctors, err := s.store.LoadDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading doctors: %w", err)
	}
	appts, err := s.store.LoadAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading appointments: %w", err)
	}

	counts := make(map[string]int, len(doctors))
	for _, d := range doctors {
		counts[d.ID] = 0
	}
	for _, a := range appts {
		if !a.IsScheduled() {
			continue
		}
		if _, ok := counts[a.DoctorID]; ok {
			counts[a.DoctorID]++
		}
	}

	stats := make([]DoctorUtilization, 0, len(doctors))
	for _, d := range doctors {
		stats = append(stats, DoctorUtilization{Doctor: d, Appointments: counts[d.ID]})
	}
	return stats, nil
}

// SpecialtyCount is the result of TopSpecialty. A zero Appointments count
// with an empty Specialty is the "no scheduled appointments" sentinel.
type SpecialtyCount struct {
	Specialty    string `json:"specialty"`
	Appointments int    `json:"appointments"`
}

// TopSpecialty returns the specialty with the most scheduled appointments.
// Tie-break: appointments are scanned in stored collection order, and the
// first specialty to reach the maximum count keeps the lead — a later
// specialty only wins with a strictly greater count. This ordering is
// observable and intentional.
func (s *AppointmentService) TopSpecialty(ctx context.Context) (SpecialtyCount, error) {
	doctors, err := s.store.LoadDoctors(ctx)
	if err != nil {
		return SpecialtyCount{}, fmt.Errorf("loading doctors: %w", err)
	}
	appts, err := s.store.LoadAppointments(ctx)
	if err != nil {
		return SpecialtyCount{}, fmt.Errorf("loading appointments: %w", err)
	}

	specialtyByDoctor := make(map[string]string, len(doctors))
	for _, d := range doctors {
		specialtyByDoctor[d.ID] = d.Specialty
	}

	counts := make(map[string]int)
	top := SpecialtyCount{}
	for _, a := range appts {
		if !a.IsScheduled() {
			continue
		}
		specialty, ok := specialtyByDoctor[a.DoctorID]
		if !ok {
			continue
		}
		counts[specialty]++
		if counts[specialty] > top.Appointments {
			top = SpecialtyCount{Specialty: specialty, Appointments: counts[specialty]}
		}
	}
	return top, nil
}

// reject counts a booking rejection by reason before handing the error back.
func (s *AppointmentService) reject(reason string, err error) error {
	s.metrics.BookingRejectionsTotal.WithLabelValues(reason).Inc()
	return err
}

func patientExists(patients []patient.Patient, id string) bool {
	for i := range patients {
		if patients[i].ID == id {
			return true
		}
	}
	return false
}

func findDoctor(doctors []doctor.Doctor, id string) *doctor.Doctor {
	for i := range doctors {
		if doctors[i].ID == id {
			return &doctors[i]
		}
	}
	return nil
}
