package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/pustaka-activity-api/internal/activitylog"
	"github.com/noah-isme/pustaka-activity-api/internal/models"
	"github.com/noah-isme/pustaka-activity-api/internal/repository"
)

// SeedService loads the bundled activity records into the record store.
type SeedService interface {
	SeedActivityRecords(ctx context.Context) (int64, error)
}

type seedService struct {
	repo     repository.ActivityRecordRepository
	location *time.Location
	logger   zerolog.Logger
}

// NewSeedService constructs a seeding service. Seed wall-clock times are read in location.
func NewSeedService(repo repository.ActivityRecordRepository, location *time.Location, logger zerolog.Logger) SeedService {
	if location == nil {
		location = time.UTC
	}
	return &seedService{
		repo:     repo,
		location: location,
		logger:   logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedActivityRecords(ctx context.Context) (int64, error) {
	records, err := activitylog.SeedRecords(s.location)
	if err != nil {
		return 0, err
	}

	rows := make([]models.ActivityRecord, 0, len(records))
	for i, record := range records {
		rows = append(rows, models.NewActivityRecord(record, i))
	}

	affected, err := s.repo.Seed(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("seed activity records: %w", err)
	}
	s.logger.Info().Int64("affected", affected).Int("bundled", len(rows)).Msg("activity records seeded")
	return affected, nil
}
