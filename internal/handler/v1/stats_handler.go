package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/citaplan/citaplan/internal/service"
)

type StatsHandler struct {
	svc *service.AppointmentService
}

func NewStatsHandler(svc *service.AppointmentService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) DoctorUtilization(c *gin.Context) {
	stats, err := h.svc.Utilization(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, stats)
}

func (h *StatsHandler) TopSpecialty(c *gin.Context) {
	top, err := h.svc.TopSpecialty(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, top)
}
