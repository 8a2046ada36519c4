package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/physiocore/clinic-api/internal/config"
	"github.com/physiocore/clinic-api/internal/domain"
	"github.com/physiocore/clinic-api/internal/domain/appointment"
	"github.com/physiocore/clinic-api/internal/domain/doctor"
	"github.com/physiocore/clinic-api/internal/domain/schedule"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:      gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt: true,
		// Duplicate-key violations surface as gorm.ErrDuplicatedKey; the
		// booking repository depends on this to detect taken slots.
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: cfg.DSN(),
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"clinic", "auth", "audit"} // logical namespace
	for _, s := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", s)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", s, err)
		}
	}

	models := []any{
		&domain.User{},
		&domain.AuditLog{},
		&doctor.Doctor{},
		&doctor.Service{},
		&schedule.WorkingHour{},
		&schedule.OffDay{},
		&appointment.Appointment{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		// The no-double-booking invariant. Cancelled and soft-deleted rows
		// fall outside the scope so their slots become bookable again.
		{
			name:  "idx_appointments_slot_unique",
			query: `CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_slot_unique ON clinic.appointments (doctor_id, appointment_date, appointment_time) WHERE deleted_at IS NULL AND status <> 'cancelled'`,
		},
		{
			name:  "idx_appointments_doctor_date",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_doctor_date ON clinic.appointments (doctor_id, appointment_date) WHERE deleted_at IS NULL AND status <> 'cancelled'`,
		},
		{
			name:  "idx_appointments_status_date",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_status_date ON clinic.appointments (status, appointment_date) WHERE deleted_at IS NULL`,
		},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			return fmt.Errorf("creating index %s: %w", idx.name, err)
		}
	}

	return nil
}
