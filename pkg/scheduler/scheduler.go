package scheduler

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

// Scheduler builds monthly rotas with a single greedy pass over the days
type Scheduler struct {
	Catalog  *Catalog
	Selector *Selector
	Logger   *zap.Logger
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithCatalog replaces the default shift catalog
func WithCatalog(c *Catalog) Option {
	return func(s *Scheduler) { s.Catalog = c }
}

// WithSelector replaces the default selection pipeline
func WithSelector(sel *Selector) Option {
	return func(s *Scheduler) { s.Selector = sel }
}

// WithLogger sets the logger used for slot-level debug output
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) { s.Logger = l }
}

// NewScheduler creates a new scheduler instance
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		Catalog:  DefaultCatalog(),
		Selector: NewSelector(DefaultStreakLimit, true),
		Logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate builds the rota for month of year. Days are processed strictly in
// ascending order because streaks carry over from one day to the next.
func (s *Scheduler) Generate(year int, month time.Month, staff []models.Staff, availability models.Availability) (*models.ScheduleResult, error) {
	if err := ValidateInput(year, month, staff); err != nil {
		return nil, err
	}

	ledger := NewLedger(staff)
	numDays := DaysIn(year, month)
	days := make([]models.DayRecord, 0, numDays)

	for day := 1; day <= numDays; day++ {
		days = append(days, s.fillDay(year, month, day, staff, availability, ledger))
	}

	return &models.ScheduleResult{
		Year:  year,
		Month: month,
		Days:  days,
		Stats: ledger.Snapshot(),
	}, nil
}

// fillDay assigns every slot of one day and then breaks the streaks of
// everyone who did not work it.
func (s *Scheduler) fillDay(year int, month time.Month, day int, staff []models.Staff, availability models.Availability, ledger *Ledger) models.DayRecord {
	weekday := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday()
	shifts := s.Catalog.ForWeekday(weekday)

	worked := make(map[string]bool, len(staff))
	assignments := make([]models.Assignment, 0, len(shifts))

	for _, shift := range shifts {
		asgn := models.Assignment{
			Day:        day,
			ShiftLabel: shift.Label,
			Start:      shift.Start,
			End:        shift.End,
			Hours:      shift.Hours,
		}

		pick, ok := s.Selector.Select(Request{
			Day:           day,
			Shift:         shift,
			AssignedToday: worked,
			Availability:  availability,
			Ledger:        ledger,
			Staff:         staff,
		})
		if !ok {
			s.Logger.Debug("slot left unassigned",
				zap.Int("day", day),
				zap.String("shift", shift.Label))
			assignments = append(assignments, asgn)
			continue
		}

		id := pick.Staff.ID
		asgn.StaffID = &id
		asgn.StaffName = pick.Staff.Name
		asgn.Tier = pick.Tier
		if pick.Tier > 1 {
			s.Logger.Debug("slot filled after relaxing constraints",
				zap.Int("day", day),
				zap.String("shift", shift.Label),
				zap.String("staff", id),
				zap.String("tier", s.Selector.Tiers()[pick.Tier-1].Name))
		}

		ledger.RecordAssignment(id, day, shift.Hours)
		worked[id] = true
		assignments = append(assignments, asgn)
	}

	ledger.DecayUnworked(day, worked)

	return models.DayRecord{
		Day:         day,
		DayOfWeek:   int(weekday),
		Assignments: assignments,
	}
}

// CalculateFairnessScore returns a percentage (0-100) representing how evenly
// hours are distributed. 100% is perfectly fair (Standard Deviation = 0).
func CalculateFairnessScore(stats map[string]models.StaffStat) float64 {
	if len(stats) == 0 {
		return 100.0
	}

	var sum float64
	for _, st := range stats {
		sum += st.Hours
	}
	if sum == 0 {
		return 100.0
	}

	mean := sum / float64(len(stats))

	var varianceSum float64
	for _, st := range stats {
		diff := st.Hours - mean
		varianceSum += diff * diff
	}
	stdDev := math.Sqrt(varianceSum / float64(len(stats)))

	// 100% means SD is 0. 0% means SD is >= mean.
	score := (1.0 - (stdDev / mean)) * 100.0
	if score < 0 {
		return 0.0
	}
	return score
}
