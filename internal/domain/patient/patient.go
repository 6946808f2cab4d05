package patient

import (
	"strings"

	"github.com/citaplan/citaplan/internal/domain/calendar"
)

// Patient is a registered patient. ID is caller-supplied and immutable;
// Email must be unique across all patients; RegistrationDate is stamped at
// creation and never changes afterwards.
type Patient struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Age              int           `json:"age"`
	Phone            string        `json:"phone"`
	Email            string        `json:"email"`
	RegistrationDate calendar.Date `json:"registrationDate"`
}

// Validate enforces the registration invariants: required fields present
// and a positive age.
func (p *Patient) Validate() error {
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" ||
		strings.TrimSpace(p.Phone) == "" || strings.TrimSpace(p.Email) == "" {
		return ErrMissingFields
	}
	if p.Age <= 0 {
		return ErrInvalidAge
	}
	return nil
}

type CreatePatientCommand struct {
	ID    string
	Name  string
	Age   int
	Phone string
	Email string
}

// UpdatePatientCommand applies partial updates; nil fields are left as-is.
// ID and RegistrationDate are not updatable.
type UpdatePatientCommand struct {
	Name  *string
	Age   *int
	Phone *string
	Email *string
}
