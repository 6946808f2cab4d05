package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/citaplan/citaplan/internal/domain/doctor"
	"github.com/citaplan/citaplan/internal/service"
)

type DoctorHandler struct {
	svc     *service.DoctorService
	booking *service.AppointmentService
}

func NewDoctorHandler(svc *service.DoctorService, booking *service.AppointmentService) *DoctorHandler {
	return &DoctorHandler{svc: svc, booking: booking}
}

type createDoctorRequest struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Specialty     string   `json:"specialty"`
	AvailableDays []string `json:"availableDays"`
	WindowStart   string   `json:"windowStart"`
	WindowEnd     string   `json:"windowEnd"`
}

func (h *DoctorHandler) Create(c *gin.Context) {
	var req createDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.svc.Register(c.Request.Context(), doctor.CreateDoctorCommand{
		ID:            req.ID,
		Name:          req.Name,
		Specialty:     req.Specialty,
		AvailableDays: req.AvailableDays,
		WindowStart:   req.WindowStart,
		WindowEnd:     req.WindowEnd,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, d)
}

func (h *DoctorHandler) List(c *gin.Context) {
	doctors, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, doctors)
}

func (h *DoctorHandler) Get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, d)
}

func (h *DoctorHandler) BySpecialty(c *gin.Context) {
	doctors, err := h.svc.BySpecialty(c.Request.Context(), c.Param("specialty"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, doctors)
}

// Available answers "who is free at this date and time": doctors available
// per their weekday set and window, minus those with a scheduled
// appointment at that exact slot.
func (h *DoctorHandler) Available(c *gin.Context) {
	doctors, err := h.booking.FindAvailableDoctors(
		c.Request.Context(), c.Query("date"), c.Query("time"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, doctors)
}
