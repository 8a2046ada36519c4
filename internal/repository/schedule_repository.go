package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/physiocore/clinic-api/internal/domain/schedule"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) Week(ctx context.Context, doctorID uuid.UUID) ([]*schedule.WorkingHour, error) {
	var entries []*schedule.WorkingHour
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("weekday").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ScheduleRepository) EntryFor(ctx context.Context, doctorID uuid.UUID, day time.Weekday) (*schedule.WorkingHour, error) {
	var entry schedule.WorkingHour
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND weekday = ?", doctorID, day).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schedule.ErrWorkingHoursNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// ReplaceWeek swaps the doctor's whole schedule atomically. The delete and
// reinsert share one transaction so a concurrent slot query never observes a
// half-replaced week.
func (r *ScheduleRepository) ReplaceWeek(ctx context.Context, doctorID uuid.UUID, entries []schedule.WeekEntry) ([]*schedule.WorkingHour, error) {
	rows := make([]*schedule.WorkingHour, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, &schedule.WorkingHour{
			DoctorID:    doctorID,
			Weekday:     e.Weekday,
			StartTime:   e.StartTime,
			EndTime:     e.EndTime,
			IsAvailable: e.IsAvailable,
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doctor_id = ?", doctorID).Delete(&schedule.WorkingHour{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

type OffDayRepository struct {
	db *gorm.DB
}

func NewOffDayRepository(db *gorm.DB) *OffDayRepository {
	return &OffDayRepository{db: db}
}

func (r *OffDayRepository) Create(ctx context.Context, od *schedule.OffDay) error {
	if err := r.db.WithContext(ctx).Create(od).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return schedule.ErrOffDayExists
		}
		return err
	}
	return nil
}

func (r *OffDayRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.db.WithContext(ctx).Delete(&schedule.OffDay{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return schedule.ErrOffDayNotFound
	}
	return nil
}

func (r *OffDayRepository) List(ctx context.Context, from time.Time) ([]*schedule.OffDay, error) {
	var offDays []*schedule.OffDay
	err := r.db.WithContext(ctx).
		Where("date >= ?", from).
		Order("date").
		Find(&offDays).Error
	if err != nil {
		return nil, err
	}
	return offDays, nil
}

func (r *OffDayRepository) IsOffDay(ctx context.Context, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&schedule.OffDay{}).
		Where("date = ?", date).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
