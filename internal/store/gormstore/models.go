package gormstore

import (
	"fmt"

	"github.com/citaplan/citaplan/internal/domain/appointment"
	"github.com/citaplan/citaplan/internal/domain/calendar"
	"github.com/citaplan/citaplan/internal/domain/doctor"
	"github.com/citaplan/citaplan/internal/domain/patient"
	"github.com/citaplan/citaplan/internal/store"
)

// Rows keep dates and times in their wire formats ("2006-01-02", "15:04")
// so the table contents stay interchangeable with the file store documents.
// Position preserves collection order across a save/load round trip.

type patientRow struct {
	ID               string `gorm:"primaryKey;type:varchar(64)"`
	Position         int    `gorm:"column:position;not null"`
	Name             string `gorm:"type:varchar(255);not null"`
	Age              int    `gorm:"not null"`
	Phone            string `gorm:"type:varchar(50)"`
	Email            string `gorm:"type:varchar(255);uniqueIndex"`
	RegistrationDate string `gorm:"column:registration_date;type:varchar(10)"`
}

func (patientRow) TableName() string { return "records.patients" }

func newPatientRow(p patient.Patient, position int) patientRow {
	return patientRow{
		ID:               p.ID,
		Position:         position,
		Name:             p.Name,
		Age:              p.Age,
		Phone:            p.Phone,
		Email:            p.Email,
		RegistrationDate: p.RegistrationDate.String(),
	}
}

func (r patientRow) toDomain() (patient.Patient, error) {
	regDate, err := calendar.ParseDate(r.RegistrationDate)
	if err != nil {
		return patient.Patient{}, fmt.Errorf("%w: patient %s: %v", store.ErrIO, r.ID, err)
	}
	return patient.Patient{
		ID:               r.ID,
		Name:             r.Name,
		Age:              r.Age,
		Phone:            r.Phone,
		Email:            r.Email,
		RegistrationDate: regDate,
	}, nil
}

type doctorRow struct {
	ID            string   `gorm:"primaryKey;type:varchar(64)"`
	Position      int      `gorm:"column:position;not null"`
	Name          string   `gorm:"type:varchar(255);not null"`
	Specialty     string   `gorm:"type:varchar(100);not null;index"`
	AvailableDays []string `gorm:"column:available_days;serializer:json"`
	WindowStart   string   `gorm:"column:window_start;type:varchar(5);not null"`
	WindowEnd     string   `gorm:"column:window_end;type:varchar(5);not null"`
}

func (doctorRow) TableName() string { return "records.doctors" }

func newDoctorRow(d doctor.Doctor, position int) doctorRow {
	days := make([]string, 0, len(d.AvailableDays))
	for _, day := range d.AvailableDays {
		days = append(days, string(day))
	}
	return doctorRow{
		ID:            d.ID,
		Position:      position,
		Name:          d.Name,
		Specialty:     d.Specialty,
		AvailableDays: days,
		WindowStart:   d.WindowStart.String(),
		WindowEnd:     d.WindowEnd.String(),
	}
}

func (r doctorRow) toDomain() (doctor.Doctor, error) {
	start, err := calendar.ParseTimeOfDay(r.WindowStart)
	if err != nil {
		return doctor.Doctor{}, fmt.Errorf("%w: doctor %s: %v", store.ErrIO, r.ID, err)
	}
	end, err := calendar.ParseTimeOfDay(r.WindowEnd)
	if err != nil {
		return doctor.Doctor{}, fmt.Errorf("%w: doctor %s: %v", store.ErrIO, r.ID, err)
	}
	days := make([]calendar.Weekday, 0, len(r.AvailableDays))
	for _, day := range r.AvailableDays {
		days = append(days, calendar.Weekday(day))
	}
	return doctor.Doctor{
		ID:            r.ID,
		Name:          r.Name,
		Specialty:     r.Specialty,
		AvailableDays: days,
		WindowStart:   start,
		WindowEnd:     end,
	}, nil
}

type appointmentRow struct {
	ID        string `gorm:"primaryKey;type:varchar(64)"`
	Position  int    `gorm:"column:position;not null"`
	PatientID string `gorm:"column:patient_id;type:varchar(64);not null;index"`
	DoctorID  string `gorm:"column:doctor_id;type:varchar(64);not null;index"`
	Date      string `gorm:"type:varchar(10);not null"`
	Time      string `gorm:"type:varchar(5);not null"`
	Status    string `gorm:"type:varchar(20);not null;index"`
}

func (appointmentRow) TableName() string { return "records.appointments" }

func newAppointmentRow(a appointment.Appointment, position int) appointmentRow {
	return appointmentRow{
		ID:        a.ID,
		Position:  position,
		PatientID: a.PatientID,
		DoctorID:  a.DoctorID,
		Date:      a.Date.String(),
		Time:      a.Time.String(),
		Status:    string(a.Status),
	}
}

func (r appointmentRow) toDomain() (appointment.Appointment, error) {
	date, err := calendar.ParseDate(r.Date)
	if err != nil {
		return appointment.Appointment{}, fmt.Errorf("%w: appointment %s: %v", store.ErrIO, r.ID, err)
	}
	t, err := calendar.ParseTimeOfDay(r.Time)
	if err != nil {
		return appointment.Appointment{}, fmt.Errorf("%w: appointment %s: %v", store.ErrIO, r.ID, err)
	}
	return appointment.Appointment{
		ID:        r.ID,
		PatientID: r.PatientID,
		DoctorID:  r.DoctorID,
		Date:      date,
		Time:      t,
		Status:    appointment.Status(r.Status),
	}, nil
}
