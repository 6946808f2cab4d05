package doctor

import (
	"strings"

	"github.com/citaplan/citaplan/internal/domain/calendar"
)

// Doctor is a bookable practitioner. ID is caller-supplied and immutable.
// AvailableDays plus the [WindowStart, WindowEnd) wall-clock window define
// when the doctor can be booked.
type Doctor struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Specialty     string             `json:"specialty"`
	AvailableDays []calendar.Weekday `json:"availableDays"`
	WindowStart   calendar.TimeOfDay `json:"windowStart"`
	WindowEnd     calendar.TimeOfDay `json:"windowEnd"`
}

// WorksOn reports whether the doctor attends on the given weekday.
// Matching is case-insensitive and whitespace-tolerant so that records
// loaded from hand-edited files still compare correctly.
func (d *Doctor) WorksOn(day calendar.Weekday) bool {
	for _, avail := range d.AvailableDays {
		if avail.Equal(day) {
			return true
		}
	}
	return false
}

// effectiveEndMinute clamps an end-of-day window end (24:00) to the last
// valid minute so the half-open interval test cannot overflow the day.
func (d *Doctor) effectiveEndMinute() int {
	end := d.WindowEnd.MinutesOfDay()
	if end >= calendar.MinutesPerDay {
		end = calendar.MinutesPerDay - 1
	}
	return end
}

// WindowContains applies the half-open availability window test: the start
// minute is bookable, the end minute is not.
func (d *Doctor) WindowContains(t calendar.TimeOfDay) bool {
	m := t.MinutesOfDay()
	return m >= d.WindowStart.MinutesOfDay() && m < d.effectiveEndMinute()
}

// IsAvailableAt reports whether the doctor can be booked at the given day
// and time. A false result is ordinary, not an error.
func (d *Doctor) IsAvailableAt(date calendar.Date, t calendar.TimeOfDay) bool {
	return d.WorksOn(date.Weekday()) && d.WindowContains(t)
}

// Validate enforces the registration invariants: required fields present,
// at least one valid weekday, and a well-formed window.
func (d *Doctor) Validate() error {
	if strings.TrimSpace(d.ID) == "" || strings.TrimSpace(d.Name) == "" || strings.TrimSpace(d.Specialty) == "" {
		return ErrMissingFields
	}
	if len(d.AvailableDays) == 0 {
		return ErrNoAvailableDays
	}
	for _, day := range d.AvailableDays {
		if _, err := calendar.ParseWeekday(string(day)); err != nil {
			return ErrInvalidWeekday
		}
	}
	if d.WindowStart.MinutesOfDay() >= d.WindowEnd.MinutesOfDay() {
		return ErrInvalidWindow
	}
	return nil
}

type CreateDoctorCommand struct {
	ID            string
	Name          string
	Specialty     string
	AvailableDays []string
	WindowStart   string
	WindowEnd     string
}
