package scheduler

import "github.com/arnavshah/rota-api-go/pkg/models"

const noDay = -1

// Ledger keeps the running workload of every staff member during one run.
// It belongs to a single Generate call and is not safe for concurrent use.
type Ledger struct {
	stats map[string]*models.StaffStat
}

// NewLedger creates a zeroed ledger with one entry per staff member
func NewLedger(staff []models.Staff) *Ledger {
	l := &Ledger{stats: make(map[string]*models.StaffStat, len(staff))}
	for _, s := range staff {
		l.stats[s.ID] = &models.StaffStat{LastWorkedDay: noDay}
	}
	return l
}

func (l *Ledger) stat(id string) *models.StaffStat {
	st, ok := l.stats[id]
	if !ok {
		st = &models.StaffStat{LastWorkedDay: noDay}
		l.stats[id] = st
	}
	return st
}

// AccumulatedHours returns the hours assigned to id so far
func (l *Ledger) AccumulatedHours(id string) float64 {
	if st, ok := l.stats[id]; ok {
		return st.Hours
	}
	return 0
}

// ConsecutiveStreak returns how many days in a row id has worked
func (l *Ledger) ConsecutiveStreak(id string) int {
	if st, ok := l.stats[id]; ok {
		return st.ConsecutiveWorkedDays
	}
	return 0
}

// RecordAssignment books hours on day for id. The streak grows when id also
// worked the previous day and restarts at 1 otherwise. A second slot on the
// same day only adds hours.
func (l *Ledger) RecordAssignment(id string, day int, hours float64) {
	st := l.stat(id)
	st.Hours += hours
	if st.LastWorkedDay == day {
		return
	}
	st.Shifts++
	if st.LastWorkedDay == day-1 {
		st.ConsecutiveWorkedDays++
	} else {
		st.ConsecutiveWorkedDays = 1
	}
	st.LastWorkedDay = day
}

// DecayUnworked breaks the streak of everybody who did not work on day
func (l *Ledger) DecayUnworked(day int, worked map[string]bool) {
	for id, st := range l.stats {
		if worked[id] || st.LastWorkedDay == day {
			continue
		}
		st.ConsecutiveWorkedDays = 0
	}
}

// Snapshot copies the current stats
func (l *Ledger) Snapshot() map[string]models.StaffStat {
	out := make(map[string]models.StaffStat, len(l.stats))
	for id, st := range l.stats {
		out[id] = *st
	}
	return out
}
