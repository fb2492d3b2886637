package storage

import (
	"context"
	"errors"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

// Fixed keys of the persisted working set
const (
	KeySchedule         = "sh_schedule"
	KeyAvailability     = "sh_availability"
	KeyHistory          = "sh_history"
	KeyLastArchiveCheck = "sh_last_archive_check"
)

// LoadSchedule returns the persisted schedule, or nil when none was saved
func LoadSchedule(ctx context.Context, s Store) (*models.ScheduleResult, error) {
	var result models.ScheduleResult
	if err := s.Get(ctx, KeySchedule, &result); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// SaveSchedule persists result
func SaveSchedule(ctx context.Context, s Store, result *models.ScheduleResult) error {
	return s.Set(ctx, KeySchedule, result)
}

// LoadAvailability returns the requested days off; never nil
func LoadAvailability(ctx context.Context, s Store) (models.Availability, error) {
	availability := models.Availability{}
	if err := s.Get(ctx, KeyAvailability, &availability); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return availability, nil
}

// SaveAvailability persists the requested days off
func SaveAvailability(ctx context.Context, s Store, availability models.Availability) error {
	return s.Set(ctx, KeyAvailability, availability)
}

// LoadHistory returns the archived months, newest first
func LoadHistory(ctx context.Context, s Store) ([]models.HistoryEntry, error) {
	var history []models.HistoryEntry
	if err := s.Get(ctx, KeyHistory, &history); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return history, nil
}

// SaveHistory persists the archive
func SaveHistory(ctx context.Context, s Store, history []models.HistoryEntry) error {
	return s.Set(ctx, KeyHistory, history)
}

// LastArchiveCheck returns the YYYY-MM-DD of the last processed rollover
func LastArchiveCheck(ctx context.Context, s Store) (string, error) {
	var date string
	if err := s.Get(ctx, KeyLastArchiveCheck, &date); err != nil && !errors.Is(err, ErrNotFound) {
		return "", err
	}
	return date, nil
}

// SetLastArchiveCheck records the date of a processed rollover
func SetLastArchiveCheck(ctx context.Context, s Store, date string) error {
	return s.Set(ctx, KeyLastArchiveCheck, date)
}

// ClearWorkingSet drops the current schedule and availability
func ClearWorkingSet(ctx context.Context, s Store) error {
	if err := s.Remove(ctx, KeySchedule); err != nil {
		return err
	}
	return s.Remove(ctx, KeyAvailability)
}
