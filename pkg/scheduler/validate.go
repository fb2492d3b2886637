package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

// ErrInvalidArgument is returned for malformed scheduling input
var ErrInvalidArgument = errors.New("invalid argument")

// DaysIn returns the number of days in month of year
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ValidateInput checks the target month and the roster before a run
func ValidateInput(year int, month time.Month, staff []models.Staff) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidArgument, year)
	}
	if month < time.January || month > time.December {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidArgument, int(month))
	}
	seen := make(map[string]bool, len(staff))
	for _, s := range staff {
		if s.ID == "" {
			return fmt.Errorf("%w: staff member %q has no id", ErrInvalidArgument, s.Name)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate staff id %q", ErrInvalidArgument, s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// ValidateAvailability reports day-off entries that will have no effect:
// unknown staff ids and days outside the month.
func ValidateAvailability(year int, month time.Month, staff []models.Staff, availability models.Availability) []string {
	known := make(map[string]bool, len(staff))
	for _, s := range staff {
		known[s.ID] = true
	}
	days := DaysIn(year, month)

	var warnings []string
	for id, off := range availability {
		if !known[id] {
			warnings = append(warnings, fmt.Sprintf("unknown staff id %q", id))
			continue
		}
		for _, d := range off {
			if d < 1 || d > days {
				warnings = append(warnings, fmt.Sprintf("day %d for %q is outside %s %d", d, id, month, year))
			}
		}
	}
	sort.Strings(warnings)
	return warnings
}
