// Seed fills a record store with demo doctors and patients so the API has
// something to schedule against. Appointments are left empty on purpose:
// they should only ever be produced by the scheduling engine.
package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/citaplan/citaplan/internal/config"
	"github.com/citaplan/citaplan/internal/domain/calendar"
	"github.com/citaplan/citaplan/internal/domain/doctor"
	"github.com/citaplan/citaplan/internal/domain/patient"
	"github.com/citaplan/citaplan/internal/store/filestore"
)

var specialties = []string{
	"General Practice",
	"Cardiology",
	"Dermatology",
	"Pediatrics",
	"Neurology",
	"Orthopedics",
	"Psychiatry",
	"Ophthalmology",
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	st, err := filestore.New(cfg.Store.DataDir)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())
	ctx := context.Background()

	doctors := make([]doctor.Doctor, 0, 12)
	for i := 0; i < 12; i++ {
		doctors = append(doctors, fakeDoctor(i))
	}
	if err := st.SaveDoctors(ctx, doctors); err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	log.Printf("seeded %d doctors", len(doctors))

	patients := make([]patient.Patient, 0, 50)
	for i := 0; i < 50; i++ {
		patients = append(patients, fakePatient(i))
	}
	if err := st.SavePatients(ctx, patients); err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	log.Printf("seeded %d patients", len(patients))
}

func fakeDoctor(i int) doctor.Doctor {
	days := make([]calendar.Weekday, 0, 3)
	for _, d := range calendar.Weekdays {
		if gofakeit.Bool() {
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		days = append(days, calendar.Monday)
	}

	startHour := gofakeit.Number(7, 11)
	endHour := startHour + gofakeit.Number(4, 9)
	if endHour > 23 {
		endHour = 23
	}

	return doctor.Doctor{
		ID:            fmt.Sprintf("doc-%03d", i+1),
		Name:          "Dr. " + gofakeit.Name(),
		Specialty:     specialties[gofakeit.Number(0, len(specialties)-1)],
		AvailableDays: days,
		WindowStart:   calendar.TimeOfDay{Hour: startHour},
		WindowEnd:     calendar.TimeOfDay{Hour: endHour},
	}
}

func fakePatient(i int) patient.Patient {
	now := time.Now()
	return patient.Patient{
		ID:               fmt.Sprintf("pat-%04d", i+1),
		Name:             gofakeit.Name(),
		Age:              gofakeit.Number(1, 95),
		Phone:            gofakeit.Phone(),
		Email:            strings.ToLower(fmt.Sprintf("%s.%s@%s", gofakeit.FirstName(), uuid.NewString()[:8], gofakeit.DomainName())),
		RegistrationDate: calendar.NewDate(now.Year(), now.Month(), now.Day()),
	}
}
