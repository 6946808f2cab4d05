package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/citaplan/citaplan/internal/domain/appointment"
	"github.com/citaplan/citaplan/internal/service"
)

type AppointmentHandler struct {
	svc *service.AppointmentService
}

func NewAppointmentHandler(svc *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

type createAppointmentRequest struct {
	ID        string `json:"id"`
	PatientID string `json:"patientId"`
	DoctorID  string `json:"doctorId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req createAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.Schedule(c.Request.Context(), appointment.CreateAppointmentCommand{
		ID:        req.ID,
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, a)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	appts, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, appts)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	a, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	a, err := h.svc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, a)
}

// Upcoming defaults to the next 24 hours; ?hours=N widens or narrows the
// window.
func (h *AppointmentHandler) Upcoming(c *gin.Context) {
	horizon := time.Duration(0)
	if hours := parseQueryInt(c, "hours", 0); hours > 0 {
		horizon = time.Duration(hours) * time.Hour
	}

	appts, err := h.svc.Upcoming(c.Request.Context(), horizon)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, appts)
}
