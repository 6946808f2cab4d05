package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/citaplan/citaplan/internal/domain/appointment"
	"github.com/citaplan/citaplan/internal/domain/calendar"
	"github.com/citaplan/citaplan/internal/domain/doctor"
	"github.com/citaplan/citaplan/internal/domain/patient"
	"github.com/citaplan/citaplan/internal/service"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondServiceError maps the domain error taxonomy onto HTTP statuses.
// Every rejection keeps its human-readable reason; only unexpected errors
// (store I/O included) collapse to a generic 500.
func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "missing required fields",
			Fields: validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, doctor.ErrDoctorNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, patient.ErrPatientAlreadyExists),
		errors.Is(err, patient.ErrEmailAlreadyUsed),
		errors.Is(err, doctor.ErrDoctorAlreadyExists),
		errors.Is(err, doctor.ErrDuplicateDoctor),
		errors.Is(err, appointment.ErrAppointmentAlreadyExists),
		errors.Is(err, appointment.ErrSlotTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, calendar.ErrMalformedTime),
		errors.Is(err, patient.ErrMissingFields),
		errors.Is(err, patient.ErrInvalidAge),
		errors.Is(err, doctor.ErrMissingFields),
		errors.Is(err, doctor.ErrNoAvailableDays),
		errors.Is(err, doctor.ErrInvalidWeekday),
		errors.Is(err, doctor.ErrInvalidWindow),
		errors.Is(err, appointment.ErrScheduledInPast),
		errors.Is(err, appointment.ErrDoctorUnavailable),
		errors.Is(err, appointment.ErrInvalidStatusTransition):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}
	return true
}
