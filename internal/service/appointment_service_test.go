package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/citaplan/citaplan/internal/domain/appointment"
	"github.com/citaplan/citaplan/internal/domain/calendar"
	"github.com/citaplan/citaplan/internal/domain/doctor"
	"github.com/citaplan/citaplan/internal/domain/patient"
	"github.com/citaplan/citaplan/internal/store"
)

func bookingCmd(id, doctorID, date, timeOfDay string) appointment.CreateAppointmentCommand {
	return appointment.CreateAppointmentCommand{
		ID:        id,
		PatientID: "pat-1",
		DoctorID:  doctorID,
		Date:      date,
		Time:      timeOfDay,
	}
}

func TestScheduleHappyPath(t *testing.T) {
	svc, st := newBookingFixture()

	a, err := svc.Schedule(context.Background(), bookingCmd("apt-1", "doc-1", testMonday, "11:30"))
	require.NoError(t, err)
	require.Equal(t, appointment.StatusScheduled, a.Status)
	require.Equal(t, "doc-1", a.DoctorID)
	require.Len(t, st.appts, 1, "appointment persisted")
}

func TestScheduleMissingFields(t *testing.T) {
	svc, _ := newBookingFixture()

	_, err := svc.Schedule(context.Background(), appointment.CreateAppointmentCommand{
		ID:       "apt-1",
		DoctorID: "doc-1",
		Date:     testMonday,
	})

	var validErr *ValidationError
	require.ErrorAs(t, err, &validErr)
	require.ElementsMatch(t, []string{"patientId", "time"}, validErr.Fields)
}

func TestScheduleMalformedDateTime(t *testing.T) {
	svc, _ := newBookingFixture()

	_, err := svc.Schedule(context.Background(), bookingCmd("apt-1", "doc-1", "05/01/2026", "11:30"))
	require.ErrorIs(t, err, calendar.ErrMalformedTime)

	_, err = svc.Schedule(context.Background(), bookingCmd("apt-1", "doc-1", testMonday, "half past nine"))
	require.ErrorIs(t, err, calendar.ErrMalformedTime)
}

func TestScheduleChecksShortCircuitInOrder(t *testing.T) {
	svc, _ := newBookingFixture()
	ctx := context.Background()

	t.Run("unknown patient", func(t *testing.T) {
		cmd := bookingCmd("apt-1", "ghost-doc", testMonday, "11:30")
		cmd.PatientID = "ghost"
		_, err := svc.Schedule(ctx, cmd)
		require.ErrorIs(t, err, patient.ErrPatientNotFound, "patient check precedes doctor check")
	})

	t.Run("unknown doctor", func(t *testing.T) {
		_, err := svc.Schedule(ctx, bookingCmd("apt-1", "ghost-doc", "2020-01-06", "11:30"))
		require.ErrorIs(t, err, doctor.ErrDoctorNotFound, "doctor check precedes past-time check")
	})

	t.Run("past datetime", func(t *testing.T) {
		// 2020-01-06 is a Monday inside the window, but long gone.
		_, err := svc.Schedule(ctx, bookingCmd("apt-1", "doc-1", "2020-01-06", "11:30"))
		require.ErrorIs(t, err, appointment.ErrScheduledInPast)
	})

	t.Run("now itself is not bookable", func(t *testing.T) {
		svc2, _ := newBookingFixture()
		svc2.now = func() time.Time {
			return time.Date(2026, time.January, 5, 11, 30, 0, 0, time.Local)
		}
		_, err := svc2.Schedule(ctx, bookingCmd("apt-1", "doc-1", testMonday, "11:30"))
		require.ErrorIs(t, err, appointment.ErrScheduledInPast, "slot must be strictly in the future")
	})
}

func TestScheduleDoctorUnavailable(t *testing.T) {
	svc, _ := newBookingFixture()
	ctx := context.Background()

	t.Run("wrong weekday", func(t *testing.T) {
		_, err := svc.Schedule(ctx, bookingCmd("apt-1", "doc-1", testTuesday, "11:30"))
		require.ErrorIs(t, err, appointment.ErrDoctorUnavailable)
		require.Contains(t, err.Error(), "Tuesday", "message names the offending weekday")
	})

	t.Run("window end is not bookable", func(t *testing.T) {
		_, err := svc.Schedule(ctx, bookingCmd("apt-1", "doc-1", testMonday, "12:00"))
		require.ErrorIs(t, err, appointment.ErrDoctorUnavailable)
		require.Contains(t, err.Error(), "window", "message points at the time window")
	})

	t.Run("before window", func(t *testing.T) {
		_, err := svc.Schedule(ctx, bookingCmd("apt-1", "doc-1", testMonday, "08:59"))
		require.ErrorIs(t, err, appointment.ErrDoctorUnavailable)
	})
}

func TestScheduleRejectsTakenSlot(t *testing.T) {
	svc, _ := newBookingFixture()
	ctx := context.Background()

	_, err := svc.Schedule(ctx, bookingCmd("apt-1", "doc-1", testMonday, "11:30"))
	require.NoError(t, err)

	_, err = svc.Schedule(ctx, bookingCmd("apt-2", "doc-1", testMonday, "11:30"))
	require.ErrorIs(t, err, appointment.ErrSlotTaken)

	// A different doctor at the same slot is fine.
	_, err = svc.Schedule(ctx, bookingCmd("apt-3", "doc-2", testMonday, "11:30"))
	require.NoError(t, err)
}

func TestScheduleRejectsDuplicateID(t *testing.T) {
	svc, _ := newBookingFixture()
	ctx := context.Background()

	_, err := svc.Schedule(ctx, bookingCmd("apt-1", "doc-1", testMonday, "10:00"))
	require.NoError(t, err)

	_, err = svc.Schedule(ctx, bookingCmd("apt-1", "doc-1", testMonday, "11:00"))
	require.ErrorIs(t, err, appointment.ErrAppointmentAlreadyExists)
}

func TestCancelAndRebookFreedSlot(t *testing.T) {
	svc, _ := newBookingFixture()
	ctx := context.Background()

	booked, err := svc.Schedule(ctx, bookingCmd("apt-1", "doc-1", testMonday, "11:30"))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, booked.ID)
	require.NoError(t, err)
	require.Equal(t, appointment.StatusCancelled, cancelled.Status)

	// Double-cancel is an illegal transition.
	_, err = svc.Cancel(ctx, booked.ID)
	require.ErrorIs(t, err, appointment.ErrInvalidStatusTransition)

	// The freed slot is bookable again.
	rebooked, err := svc.Schedule(ctx, bookingCmd("apt-2", "doc-1", testMonday, "11:30"))
	require.NoError(t, err)
	require.Equal(t, appointment.StatusScheduled, rebooked.Status)
}

func TestCancelUnknownAppointment(t *testing.T) {
	svc, _ := newBookingFixture()

	_, err := svc.Cancel(context.Background(), "ghost")
	require.ErrorIs(t, err, appointment.ErrAppointmentNotFound)
}

func TestScheduleStoreFailureIsFatal(t *testing.T) {
	svc, st := newBookingFixture()
	st.loadErr = store.ErrIO

	_, err := svc.Schedule(context.Background(), bookingCmd("apt-1", "doc-1", testMonday, "11:30"))
	require.ErrorIs(t, err, store.ErrIO)
}

func TestFindAvailableDoctors(t *testing.T) {
	svc, _ := newBookingFixture()
	ctx := context.Background()

	t.Run("missing inputs", func(t *testing.T) {
		_, err := svc.FindAvailableDoctors(ctx, "", "10:00")
		var validErr *ValidationError
		require.ErrorAs(t, err, &validErr)
		require.Equal(t, []string{"date"}, validErr.Fields)
	})

	t.Run("excludes booked, includes freed", func(t *testing.T) {
		booked, err := svc.Schedule(ctx, bookingCmd("apt-1", "doc-1", testMonday, "10:00"))
		require.NoError(t, err)

		available, err := svc.FindAvailableDoctors(ctx, testMonday, "10:00")
		require.NoError(t, err)
		require.Equal(t, []string{"doc-2"}, doctorIDs(available), "booked doctor excluded")

		_, err = svc.Cancel(ctx, booked.ID)
		require.NoError(t, err)

		available, err = svc.FindAvailableDoctors(ctx, testMonday, "10:00")
		require.NoError(t, err)
		require.Equal(t, []string{"doc-1", "doc-2"}, doctorIDs(available), "cancelled booking frees the doctor")
	})

	t.Run("nobody works tuesdays", func(t *testing.T) {
		available, err := svc.FindAvailableDoctors(ctx, testTuesday, "10:00")
		require.NoError(t, err)
		require.Empty(t, available)
	})
}

func TestUpcomingWindow(t *testing.T) {
	svc, st := newBookingFixture()
	ctx := context.Background()

	inWindow := appointment.Appointment{
		ID: "apt-in", PatientID: "pat-1", DoctorID: "doc-1",
		Date: calendar.NewDate(2026, time.January, 2), Time: calendar.TimeOfDay{Hour: 20},
		Status: appointment.StatusScheduled,
	}
	atNow := appointment.Appointment{
		ID: "apt-now", PatientID: "pat-1", DoctorID: "doc-1",
		Date: calendar.NewDate(2026, time.January, 2), Time: calendar.TimeOfDay{Hour: 8},
		Status: appointment.StatusScheduled,
	}
	cancelledInWindow := appointment.Appointment{
		ID: "apt-cancelled", PatientID: "pat-1", DoctorID: "doc-1",
		Date: calendar.NewDate(2026, time.January, 2), Time: calendar.TimeOfDay{Hour: 21},
		Status: appointment.StatusCancelled,
	}
	atHorizon := appointment.Appointment{
		ID: "apt-horizon", PatientID: "pat-1", DoctorID: "doc-1",
		Date: calendar.NewDate(2026, time.January, 3), Time: calendar.TimeOfDay{Hour: 8},
		Status: appointment.StatusScheduled,
	}
	farFuture := appointment.Appointment{
		ID: "apt-far", PatientID: "pat-1", DoctorID: "doc-1",
		Date: calendar.NewDate(2026, time.February, 2), Time: calendar.TimeOfDay{Hour: 10},
		Status: appointment.StatusScheduled,
	}
	st.appts = []appointment.Appointment{inWindow, atNow, cancelledInWindow, atHorizon, farFuture}

	t.Run("default 24h horizon is half-open", func(t *testing.T) {
		upcoming, err := svc.Upcoming(ctx, 0)
		require.NoError(t, err)
		// now itself is included, now+24h is not.
		require.Equal(t, []string{"apt-in", "apt-now"}, appointmentIDs(upcoming))
	})

	t.Run("wider horizon", func(t *testing.T) {
		upcoming, err := svc.Upcoming(ctx, 40*24*time.Hour)
		require.NoError(t, err)
		require.Equal(t, []string{"apt-in", "apt-now", "apt-horizon", "apt-far"}, appointmentIDs(upcoming))
	})
}

func TestUtilizationCountsEveryDoctor(t *testing.T) {
	svc, _ := newBookingFixture()
	ctx := context.Background()

	_, err := svc.Schedule(ctx, bookingCmd("apt-1", "doc-1", testMonday, "09:00"))
	require.NoError(t, err)
	_, err = svc.Schedule(ctx, bookingCmd("apt-2", "doc-1", testMonday, "10:00"))
	require.NoError(t, err)
	cancelled, err := svc.Schedule(ctx, bookingCmd("apt-3", "doc-1", testMonday, "11:00"))
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, cancelled.ID)
	require.NoError(t, err)

	stats, err := svc.Utilization(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2, "every doctor appears, zero counts included")

	byID := map[string]int{}
	total := 0
	for _, s := range stats {
		byID[s.Doctor.ID] = s.Appointments
		total += s.Appointments
	}
	require.Equal(t, 2, byID["doc-1"], "cancelled appointment not counted")
	require.Equal(t, 0, byID["doc-2"])
	require.Equal(t, 2, total, "counts sum to the scheduled appointments")
}

func TestTopSpecialty(t *testing.T) {
	svc, st := newBookingFixture()
	ctx := context.Background()

	t.Run("empty set yields the none sentinel", func(t *testing.T) {
		top, err := svc.TopSpecialty(ctx)
		require.NoError(t, err)
		require.Equal(t, SpecialtyCount{}, top)
	})

	t.Run("strict maximum wins", func(t *testing.T) {
		_, err := svc.Schedule(ctx, bookingCmd("apt-1", "doc-1", testMonday, "09:00"))
		require.NoError(t, err)
		_, err = svc.Schedule(ctx, bookingCmd("apt-2", "doc-1", testMonday, "10:00"))
		require.NoError(t, err)
		_, err = svc.Schedule(ctx, bookingCmd("apt-3", "doc-2", testMonday, "09:00"))
		require.NoError(t, err)

		top, err := svc.TopSpecialty(ctx)
		require.NoError(t, err)
		require.Equal(t, SpecialtyCount{Specialty: "Cardiology", Appointments: 2}, top)
	})

	t.Run("tie keeps the first specialty to reach the max", func(t *testing.T) {
		_, err := svc.Schedule(ctx, bookingCmd("apt-4", "doc-2", testMonday, "10:00"))
		require.NoError(t, err)

		// Cardiology and Dermatology are now tied at two; Cardiology got
		// there first in stored order.
		top, err := svc.TopSpecialty(ctx)
		require.NoError(t, err)
		require.Equal(t, "Cardiology", top.Specialty)
		require.Equal(t, 2, top.Appointments)
	})

	t.Run("appointments of unknown doctors are skipped", func(t *testing.T) {
		st.appts = append(st.appts, appointment.Appointment{
			ID: "apt-orphan", PatientID: "pat-1", DoctorID: "ghost",
			Date: calendar.NewDate(2026, time.January, 5), Time: calendar.TimeOfDay{Hour: 11},
			Status: appointment.StatusScheduled,
		})
		top, err := svc.TopSpecialty(ctx)
		require.NoError(t, err)
		require.Equal(t, "Cardiology", top.Specialty)
	})
}

func TestConcurrentBookingOfSameSlot(t *testing.T) {
	svc, st := newBookingFixture()
	ctx := context.Background()

	const workers = 8
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		id := string(rune('a' + i))
		go func() {
			_, err := svc.Schedule(ctx, bookingCmd("apt-"+id, "doc-1", testMonday, "11:30"))
			errs <- err
		}()
	}

	succeeded := 0
	for i := 0; i < workers; i++ {
		if err := <-errs; err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, appointment.ErrSlotTaken)
		}
	}
	require.Equal(t, 1, succeeded, "exactly one booking may win the slot")
	require.Len(t, st.appts, 1)
}

func doctorIDs(doctors []doctor.Doctor) []string {
	ids := make([]string, 0, len(doctors))
	for _, d := range doctors {
		ids = append(ids, d.ID)
	}
	return ids
}

func appointmentIDs(appts []appointment.Appointment) []string {
	ids := make([]string, 0, len(appts))
	for _, a := range appts {
		ids = append(ids, a.ID)
	}
	return ids
}
