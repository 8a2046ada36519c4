package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/physiocore/clinic-api/internal/config"
	v1 "github.com/physiocore/clinic-api/internal/handler/v1"
	"github.com/physiocore/clinic-api/internal/repository"
	"github.com/physiocore/clinic-api/internal/service"
	"github.com/physiocore/clinic-api/pkg/auth"
	"github.com/physiocore/clinic-api/pkg/database"
	"github.com/physiocore/clinic-api/pkg/logger"
	"github.com/physiocore/clinic-api/pkg/mailer"
	"github.com/physiocore/clinic-api/pkg/metrics"
	"github.com/physiocore/clinic-api/pkg/tracer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments inject config through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracer: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	if err := database.Migrate(db, log); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	collector := metrics.NewCollector("physiocore")
	jwtManager := auth.NewJWTManager(cfg.JWT)

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if sqlDB, err := db.DB(); err == nil {
				collector.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
			}
		}
	}()

	apptRepo := repository.NewAppointmentRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	schedRepo := repository.NewScheduleRepository(db)
	offDayRepo := repository.NewOffDayRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	var mail mailer.Mailer = mailer.Noop{}
	if cfg.Mail.Enabled {
		mail = mailer.NewSMTP(cfg.Mail)
	}

	auditSvc := service.NewAuditService(auditRepo, log)
	notifier := service.NewNotificationService(mail, cfg.Mail.StaffInbox, collector, log)
	authSvc := service.NewAuthService(userRepo, jwtManager, log)
	catalogSvc := service.NewCatalogService(doctorRepo, serviceRepo, auditSvc, log)
	scheduleSvc := service.NewScheduleService(schedRepo, offDayRepo, doctorRepo, auditSvc, log)
	availabilitySvc := service.NewAvailabilityService(schedRepo, offDayRepo, apptRepo, cfg.Booking.SlotInterval, collector, log)
	bookingSvc := service.NewBookingService(apptRepo, doctorRepo, serviceRepo, offDayRepo, notifier, auditSvc, collector, log)

	router := v1.NewRouter(v1.RouterDeps{
		Config:     cfg,
		DB:         db,
		JWTManager: jwtManager,
		Metrics:    collector,
		Logger:     log,

		Auth:        v1.NewAuthHandler(authSvc),
		Appointment: v1.NewAppointmentHandler(bookingSvc, availabilitySvc),
		Catalog:     v1.NewCatalogHandler(catalogSvc),
		Schedule:    v1.NewScheduleHandler(scheduleSvc),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http server shutdown", zap.Error(err))
	}

	// Drain queued notifications and audit entries before exit.
	notifier.Shutdown()
	auditSvc.Shutdown()

	log.Info("stopped")
	return nil
}
