package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/citaplan/citaplan/internal/config"
	"github.com/citaplan/citaplan/internal/service"
	"github.com/citaplan/citaplan/pkg/metrics"
)

type RouterConfig struct {
	Patients     *service.PatientService
	Doctors      *service.DoctorService
	Appointments *service.AppointmentService
	Metrics      *metrics.Collector
	Log          *zap.Logger
	App          config.AppConfig
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.App.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(cfg.Log))
	r.Use(Metrics(cfg.Metrics))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"name":    cfg.App.Name,
			"version": cfg.App.Version,
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	patientH := NewPatientHandler(cfg.Patients)
	doctorH := NewDoctorHandler(cfg.Doctors, cfg.Appointments)
	apptH := NewAppointmentHandler(cfg.Appointments)
	statsH := NewStatsHandler(cfg.Appointments)

	api := r.Group("/api/v1")
	{
		patients := api.Group("/patients")
		{
			patients.POST("", patientH.Create)
			patients.GET("", patientH.List)
			patients.GET("/:id", patientH.Get)
			patients.PUT("/:id", patientH.Update)
			patients.GET("/:id/appointments", patientH.History)
		}

		doctors := api.Group("/doctors")
		{
			doctors.POST("", doctorH.Create)
			doctors.GET("", doctorH.List)
			doctors.GET("/available", doctorH.Available)
			doctors.GET("/specialty/:specialty", doctorH.BySpecialty)
			doctors.GET("/:id", doctorH.Get)
		}

		appointments := api.Group("/appointments")
		{
			appointments.POST("", apptH.Create)
			appointments.GET("", apptH.List)
			appointments.GET("/upcoming", apptH.Upcoming)
			appointments.GET("/:id", apptH.Get)
			appointments.PUT("/:id/cancel", apptH.Cancel)
		}

		stats := api.Group("/stats")
		{
			stats.GET("/doctors", statsH.DoctorUtilization)
			stats.GET("/specialties/top", statsH.TopSpecialty)
		}
	}

	return r
}
