package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrMalformedTime = errors.New("malformed date or time value")

// Weekday is one of the seven fixed day labels. Derivation goes through
// time.Time.Weekday, which is proleptic Gregorian and locale-independent.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday matches case-insensitively and ignores surrounding whitespace.
func ParseWeekday(s string) (Weekday, error) {
	trimmed := strings.TrimSpace(s)
	for _, w := range Weekdays {
		if strings.EqualFold(trimmed, string(w)) {
			return w, nil
		}
	}
	return "", fmt.Errorf("%w: unknown weekday %q", ErrMalformedTime, s)
}

// Equal compares two weekday labels case-insensitively, ignoring whitespace.
func (w Weekday) Equal(other Weekday) bool {
	return strings.EqualFold(strings.TrimSpace(string(w)), strings.TrimSpace(string(other)))
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	// MinutesPerDay bounds a minutes-of-day offset; 24:00 maps to this value
	// and is only meaningful as an exclusive window end.
	MinutesPerDay = 24 * 60
)

// Date is a calendar day without a time component. The zero value is the
// zero time's day and reports IsZero.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// ParseDate accepts the "2006-01-02" layout only.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("%w: invalid date %q", ErrMalformedTime, s)
	}
	return Date{t: t}, nil
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) String() string { return d.t.Format(dateLayout) }

// Weekday returns the fixed label for this calendar day.
func (d Date) Weekday() Weekday {
	switch d.t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// Equal compares the normalized day value, not the string representation.
func (d Date) Equal(other Date) bool {
	return d.t.Year() == other.t.Year() && d.t.YearDay() == other.t.YearDay()
}

// At combines the day with a time-of-day into an instant in the local zone.
func (d Date) At(t TimeOfDay) time.Time {
	return time.Date(d.t.Year(), d.t.Month(), d.t.Day(), t.Hour, t.Minute, 0, 0, time.Local)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TimeOfDay is a wall-clock time with minute precision. 24:00 is accepted
// as the end-of-day sentinel used for availability window ends; every other
// value must satisfy hour < 24, minute < 60.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts the "15:04" layout plus the "24:00" sentinel.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "24:00" {
		return TimeOfDay{Hour: 24}, nil
	}
	t, err := time.Parse(timeLayout, trimmed)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: invalid time %q", ErrMalformedTime, s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// MinutesOfDay returns the offset since midnight: hour*60 + minute.
// The 24:00 sentinel yields MinutesPerDay.
func (t TimeOfDay) MinutesOfDay() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) IsZero() bool { return t.Hour == 0 && t.Minute == 0 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Equal is an exact minute-level match.
func (t TimeOfDay) Equal(other TimeOfDay) bool {
	return t.MinutesOfDay() == other.MinutesOfDay()
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
