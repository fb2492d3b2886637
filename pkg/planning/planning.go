// Package planning holds the calendar rules around a rota: the monthly
// availability deadline, the month being planned, and the history archive.
package planning

import (
	"fmt"
	"time"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

const (
	// DefaultDeadlineDay is the day of month from which the plan is frozen
	DefaultDeadlineDay = 20
	// DefaultHistoryLimit is how many archived months are kept
	DefaultHistoryLimit = 12

	lockMessage = "The schedule has been finalized for this month. Changes will be available again on the 1st of next month."
)

// StateAt describes the planning window at now. Planning always targets
// the month after now; from deadlineDay onwards the plan is locked.
func StateAt(now time.Time, deadlineDay int) models.PlanningState {
	if deadlineDay <= 0 {
		deadlineDay = DefaultDeadlineDay
	}
	targetYear, targetMonth := NextMonth(now)

	st := models.PlanningState{
		IsLocked:     now.Day() >= deadlineDay,
		CurrentDay:   now.Day(),
		CurrentMonth: now.Month(),
		CurrentYear:  now.Year(),
		TargetMonth:  targetMonth,
		TargetYear:   targetYear,
		DeadlineDay:  deadlineDay,
	}
	if st.IsLocked {
		st.LockMessage = lockMessage
	}
	return st
}

// NextMonth returns the year and month following now
func NextMonth(now time.Time) (int, time.Month) {
	if now.Month() == time.December {
		return now.Year() + 1, time.January
	}
	return now.Year(), now.Month() + 1
}

// PreviousMonth returns the year and month preceding now
func PreviousMonth(now time.Time) (int, time.Month) {
	if now.Month() == time.January {
		return now.Year() - 1, time.December
	}
	return now.Year(), now.Month() - 1
}

// Countdown returns the time left until the next deadline: this month's
// deadline day if it has not been reached yet, otherwise next month's.
func Countdown(now time.Time, deadlineDay int) models.Remaining {
	if deadlineDay <= 0 {
		deadlineDay = DefaultDeadlineDay
	}
	deadline := time.Date(now.Year(), now.Month(), deadlineDay, 0, 0, 0, 0, now.Location())
	if now.Day() >= deadlineDay {
		deadline = time.Date(now.Year(), now.Month()+1, deadlineDay, 0, 0, 0, 0, now.Location())
	}

	rem := models.Remaining{Deadline: deadline}
	left := deadline.Sub(now)
	if left <= 0 {
		return rem
	}
	total := int(left / time.Second)
	rem.Days = total / 86400
	rem.Hours = total / 3600 % 24
	rem.Minutes = total / 60 % 60
	rem.Seconds = total % 60
	return rem
}

// HistoryID is the archive key of a month, e.g. "2025-03"
func HistoryID(year int, month time.Month) string {
	return fmt.Sprintf("%d-%02d", year, int(month))
}

// Archive returns history with result prepended as the newest entry. An
// existing entry for the same month is replaced, and only the limit most
// recent entries are kept.
func Archive(history []models.HistoryEntry, result *models.ScheduleResult, now time.Time, limit int) []models.HistoryEntry {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	entry := models.HistoryEntry{
		ID:         HistoryID(result.Year, result.Month),
		Year:       result.Year,
		Month:      result.Month,
		Days:       result.Days,
		Stats:      result.Stats,
		ArchivedAt: now.UTC(),
	}

	out := make([]models.HistoryEntry, 0, len(history)+1)
	out = append(out, entry)
	for _, h := range history {
		if h.ID == entry.ID {
			continue
		}
		out = append(out, h)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DateString formats t as YYYY-MM-DD in its own location
func DateString(t time.Time) string {
	return t.Format(time.DateOnly)
}

// ShouldArchive reports whether the month rollover still has to run today.
// It only fires on the 1st, and only once per date.
func ShouldArchive(lastCheck string, now time.Time) bool {
	return now.Day() == 1 && lastCheck != DateString(now)
}
