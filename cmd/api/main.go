package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/citaplan/citaplan/internal/config"
	v1 "github.com/citaplan/citaplan/internal/handler/v1"
	"github.com/citaplan/citaplan/internal/service"
	"github.com/citaplan/citaplan/internal/store"
	"github.com/citaplan/citaplan/internal/store/filestore"
	"github.com/citaplan/citaplan/internal/store/gormstore"
	"github.com/citaplan/citaplan/pkg/database"
	"github.com/citaplan/citaplan/pkg/logger"
	"github.com/citaplan/citaplan/pkg/metrics"
	"github.com/citaplan/citaplan/pkg/tracer"
)

func main() {
	// Missing .env is fine; plain env vars still apply.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Environment),
		zap.String("store_driver", cfg.Store.Driver),
	)

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		log.Fatal("initializing tracer", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	recordStore, err := buildStore(cfg, log)
	if err != nil {
		log.Fatal("initializing record store", zap.Error(err))
	}

	collector := metrics.NewCollector("citaplan")
	recordStore = store.WithMetrics(recordStore, collector)

	patientSvc := service.NewPatientService(recordStore, collector, log)
	doctorSvc := service.NewDoctorService(recordStore, collector, log)
	apptSvc := service.NewAppointmentService(recordStore, collector, log)

	router := v1.NewRouter(v1.RouterConfig{
		Patients:     patientSvc,
		Doctors:      doctorSvc,
		Appointments: apptSvc,
		Metrics:      collector,
		Log:          log,
		App:          cfg.App,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildStore(cfg *config.Config, log *zap.Logger) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db, log); err != nil {
			return nil, err
		}
		return gormstore.New(db), nil
	default:
		return filestore.New(cfg.Store.DataDir)
	}
}
