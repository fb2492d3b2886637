package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

var weekdayDay = models.ShiftTemplate{Label: "Day", Start: "10:30", End: "21:00", Hours: 10.5}

func TestLedger_StreakTracking(t *testing.T) {
	l := NewLedger(plainStaff("a", "b"))

	l.RecordAssignment("a", 1, 10.5)
	l.DecayUnworked(1, map[string]bool{"a": true})
	l.RecordAssignment("a", 2, 5)
	l.DecayUnworked(2, map[string]bool{"a": true})

	assert.Equal(t, 15.5, l.AccumulatedHours("a"))
	assert.Equal(t, 2, l.ConsecutiveStreak("a"))

	// a gap restarts the streak
	l.DecayUnworked(3, map[string]bool{})
	assert.Equal(t, 0, l.ConsecutiveStreak("a"))
	l.RecordAssignment("a", 4, 8)
	assert.Equal(t, 1, l.ConsecutiveStreak("a"))

	snap := l.Snapshot()
	assert.Equal(t, models.StaffStat{Hours: 23.5, Shifts: 3, ConsecutiveWorkedDays: 1, LastWorkedDay: 4}, snap["a"])
	assert.Equal(t, models.StaffStat{LastWorkedDay: -1}, snap["b"])
}

func TestLedger_SameDaySecondSlot(t *testing.T) {
	l := NewLedger(plainStaff("a"))
	l.RecordAssignment("a", 1, 10.5)
	l.RecordAssignment("a", 2, 10.5)
	l.RecordAssignment("a", 2, 7)

	st := l.Snapshot()["a"]
	assert.Equal(t, 28.0, st.Hours)
	assert.Equal(t, 2, st.Shifts)
	assert.Equal(t, 2, st.ConsecutiveWorkedDays)
	assert.Equal(t, 2, st.LastWorkedDay)
}

func TestLedger_SnapshotIsACopy(t *testing.T) {
	l := NewLedger(plainStaff("a"))
	snap := l.Snapshot()
	snap["a"] = models.StaffStat{Hours: 99}
	assert.Zero(t, l.AccumulatedHours("a"))
}

// streakOf books id for the days from..to with the given hours per day.
func streakOf(l *Ledger, id string, from, to int, hours float64) {
	for d := from; d <= to; d++ {
		l.RecordAssignment(id, d, hours)
	}
}

func TestSelector_SkipsLongStreakInFirstTier(t *testing.T) {
	staff := plainStaff("a", "b")
	l := NewLedger(staff)
	streakOf(l, "a", 1, 5, 1) // 5h, streak 5
	l.RecordAssignment("b", 1, 20)

	sel := NewSelector(DefaultStreakLimit, true)
	pick, ok := sel.Select(Request{Day: 6, Shift: weekdayDay, AssignedToday: map[string]bool{}, Ledger: l, Staff: staff})
	require.True(t, ok)
	assert.Equal(t, "b", pick.Staff.ID)
	assert.Equal(t, 1, pick.Tier)
}

func TestSelector_RelaxesStreakWhenNobodyElse(t *testing.T) {
	staff := plainStaff("a", "b")
	l := NewLedger(staff)
	streakOf(l, "a", 1, 5, 1)

	sel := NewSelector(DefaultStreakLimit, true)
	pick, ok := sel.Select(Request{
		Day:           6,
		Shift:         weekdayDay,
		AssignedToday: map[string]bool{},
		Availability:  models.Availability{"b": {6}},
		Ledger:        l,
		Staff:         staff,
	})
	require.True(t, ok)
	assert.Equal(t, "a", pick.Staff.ID)
	assert.Equal(t, 2, pick.Tier)

	pick, ok = sel.Select(Request{Day: 6, Shift: weekdayDay, AssignedToday: map[string]bool{"b": true}, Ledger: l, Staff: staff})
	require.True(t, ok)
	assert.Equal(t, "a", pick.Staff.ID)
	assert.Equal(t, 2, pick.Tier)
}

func TestSelector_CustomStreakLimit(t *testing.T) {
	staff := plainStaff("a", "b")
	l := NewLedger(staff)
	streakOf(l, "a", 1, 2, 1)
	l.RecordAssignment("b", 1, 20)

	pick, ok := NewSelector(2, true).Select(Request{Day: 3, Shift: weekdayDay, AssignedToday: map[string]bool{}, Ledger: l, Staff: staff})
	require.True(t, ok)
	assert.Equal(t, "b", pick.Staff.ID)

	pick, ok = NewSelector(0, true).Select(Request{Day: 3, Shift: weekdayDay, AssignedToday: map[string]bool{}, Ledger: l, Staff: staff})
	require.True(t, ok)
	assert.Equal(t, "a", pick.Staff.ID)
}

func TestSelector_RanksByBiasedHoursThenStreak(t *testing.T) {
	staff := []models.Staff{
		{ID: "a", FairnessBias: 5},
		{ID: "b"},
	}
	l := NewLedger(staff)
	l.RecordAssignment("b", 1, 4)

	sel := NewSelector(DefaultStreakLimit, true)
	pick, ok := sel.Select(Request{Day: 3, Shift: weekdayDay, AssignedToday: map[string]bool{}, Ledger: l, Staff: staff})
	require.True(t, ok)
	assert.Equal(t, "b", pick.Staff.ID, "bias should make a look busier than b")

	// equal hours: the shorter streak wins
	staff = plainStaff("a", "b")
	l = NewLedger(staff)
	streakOf(l, "a", 1, 2, 5)
	l.RecordAssignment("b", 2, 10)
	pick, ok = sel.Select(Request{Day: 3, Shift: weekdayDay, AssignedToday: map[string]bool{}, Ledger: l, Staff: staff})
	require.True(t, ok)
	assert.Equal(t, "b", pick.Staff.ID)

	// full tie keeps roster order
	l = NewLedger(staff)
	pick, ok = sel.Select(Request{Day: 1, Shift: weekdayDay, AssignedToday: map[string]bool{}, Ledger: l, Staff: staff})
	require.True(t, ok)
	assert.Equal(t, "a", pick.Staff.ID)
}

func TestSelector_LastTierDoubleBooks(t *testing.T) {
	staff := plainStaff("a", "b")
	l := NewLedger(staff)
	l.RecordAssignment("a", 1, 10.5)
	l.RecordAssignment("b", 1, 11.5)
	assigned := map[string]bool{"a": true, "b": true}

	pick, ok := NewSelector(DefaultStreakLimit, true).Select(Request{Day: 1, Shift: weekdayDay, AssignedToday: assigned, Ledger: l, Staff: staff})
	require.True(t, ok)
	assert.Equal(t, "a", pick.Staff.ID)
	assert.Equal(t, 3, pick.Tier)

	_, ok = NewSelector(DefaultStreakLimit, false).Select(Request{Day: 1, Shift: weekdayDay, AssignedToday: assigned, Ledger: l, Staff: staff})
	assert.False(t, ok)
}

func TestSelector_NeverPicksStaffOnDayOff(t *testing.T) {
	staff := plainStaff("a", "b")
	l := NewLedger(staff)
	off := models.Availability{"a": {4}, "b": {4}}

	_, ok := NewSelector(DefaultStreakLimit, true).Select(Request{Day: 4, Shift: weekdayDay, AssignedToday: map[string]bool{}, Availability: off, Ledger: l, Staff: staff})
	assert.False(t, ok)
}

func TestSelector_TierNames(t *testing.T) {
	names := func(sel *Selector) []string {
		var out []string
		for _, tier := range sel.Tiers() {
			out = append(out, tier.Name)
		}
		return out
	}
	assert.Equal(t, []string{"preferred", "relax-streak", "relax-same-day"}, names(NewSelector(5, true)))
	assert.Equal(t, []string{"preferred", "relax-streak"}, names(NewSelector(5, false)))
}

func TestCatalog_Slots(t *testing.T) {
	c := DefaultCatalog()
	want := map[time.Weekday][]float64{
		time.Monday:    {10.5, 5},
		time.Tuesday:   {10.5, 5},
		time.Wednesday: {10.5, 5},
		time.Thursday:  {10.5, 5},
		time.Friday:    {11.5, 11.5},
		time.Saturday:  {11.5, 11.5, 8},
		time.Sunday:    {10.5, 10.5, 7},
	}
	for w, hours := range want {
		var got []float64
		for _, tmpl := range c.ForWeekday(w) {
			got = append(got, tmpl.Hours)
		}
		assert.Equal(t, hours, got, w.String())
	}
}

func TestCatalog_ReturnsFreshCopies(t *testing.T) {
	c := DefaultCatalog()
	first := c.ForWeekday(time.Monday)
	first[0].Hours = 99
	first[0].Label = "changed"

	again := c.ForWeekday(time.Monday)
	assert.Equal(t, 10.5, again[0].Hours)
	assert.Equal(t, "Day", again[0].Label)
}

func TestDayTypeOf(t *testing.T) {
	assert.Equal(t, models.Weekday, DayTypeOf(time.Monday))
	assert.Equal(t, models.Weekday, DayTypeOf(time.Thursday))
	assert.Equal(t, models.Friday, DayTypeOf(time.Friday))
	assert.Equal(t, models.Saturday, DayTypeOf(time.Saturday))
	assert.Equal(t, models.Sunday, DayTypeOf(time.Sunday))
}

func TestNewCatalog_Validation(t *testing.T) {
	full := DefaultCatalog().Templates()

	c, err := NewCatalog(full)
	require.NoError(t, err)
	assert.Len(t, c.ForDayType(models.Saturday), 3)

	missing := DefaultCatalog().Templates()
	delete(missing, models.Friday)
	_, err = NewCatalog(missing)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	bad := DefaultCatalog().Templates()
	bad[models.Sunday][0].Start = "25:99"
	_, err = NewCatalog(bad)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	zero := DefaultCatalog().Templates()
	zero[models.Weekday][1].Hours = 0
	_, err = NewCatalog(zero)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestValidateAvailability(t *testing.T) {
	warnings := ValidateAvailability(2025, time.February, plainStaff("a"), models.Availability{
		"a":     {1, 28, 29},
		"ghost": {3},
	})
	assert.Equal(t, []string{
		`day 29 for "a" is outside February 2025`,
		`unknown staff id "ghost"`,
	}, warnings)
}
