package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/citaplan/citaplan/internal/domain/patient"
	"github.com/citaplan/citaplan/internal/service"
)

type PatientHandler struct {
	svc *service.PatientService
}

func NewPatientHandler(svc *service.PatientService) *PatientHandler {
	return &PatientHandler{svc: svc}
}

type createPatientRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (h *PatientHandler) Create(c *gin.Context) {
	var req createPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.Register(c.Request.Context(), patient.CreatePatientCommand{
		ID:    req.ID,
		Name:  req.Name,
		Age:   req.Age,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, p)
}

func (h *PatientHandler) List(c *gin.Context) {
	patients, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, patients)
}

func (h *PatientHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

type updatePatientRequest struct {
	Name  *string `json:"name"`
	Age   *int    `json:"age"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

func (h *PatientHandler) Update(c *gin.Context) {
	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), patient.UpdatePatientCommand{
		Name:  req.Name,
		Age:   req.Age,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *PatientHandler) History(c *gin.Context) {
	history, err := h.svc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, history)
}
