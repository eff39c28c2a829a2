package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/pustaka-activity-api/internal/models"
)

// ErrRecordNotFound is returned when no activity record matches the id.
var ErrRecordNotFound = errors.New("activity record not found")

// ActivityRecordRepository reads the library activity record store.
type ActivityRecordRepository interface {
	List(ctx context.Context) ([]models.ActivityRecord, error)
	GetByID(ctx context.Context, id string) (models.ActivityRecord, error)
	Seed(ctx context.Context, records []models.ActivityRecord) (int64, error)
}

type activityRecordRepository struct {
	db *gorm.DB
}

// NewActivityRecordRepository constructs the activity record repository.
func NewActivityRecordRepository(db *gorm.DB) ActivityRecordRepository {
	return &activityRecordRepository{db: db}
}

// List returns every record in store enumeration order.
func (r *activityRecordRepository) List(ctx context.Context) ([]models.ActivityRecord, error) {
	var records []models.ActivityRecord
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *activityRecordRepository) GetByID(ctx context.Context, id string) (models.ActivityRecord, error) {
	var record models.ActivityRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ActivityRecord{}, ErrRecordNotFound
	}
	if err != nil {
		return models.ActivityRecord{}, err
	}
	return record, nil
}

// Seed inserts records that are not stored yet. Existing rows are left untouched.
func (r *activityRecordRepository) Seed(ctx context.Context, records []models.ActivityRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	})

	result := tx.Create(&records)
	return result.RowsAffected, result.Error
}
