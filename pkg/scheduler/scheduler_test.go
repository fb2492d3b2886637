package scheduler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

func roster() []models.Staff {
	return []models.Staff{
		{ID: "evelina", Name: "Evelīna", Role: "waiter"},
		{ID: "daiga", Name: "Daiga", Role: "waiter"},
		{ID: "patriks", Name: "Patriks", Role: "waiter"},
		{ID: "sofija", Name: "Sofija", Role: "waiter", FairnessBias: 5},
	}
}

func plainStaff(ids ...string) []models.Staff {
	out := make([]models.Staff, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Staff{ID: id, Name: id})
	}
	return out
}

func expectedSlots(dow int) int {
	switch time.Weekday(dow) {
	case time.Saturday, time.Sunday:
		return 3
	default:
		return 2
	}
}

func TestGenerate_Shape(t *testing.T) {
	s := NewScheduler()
	result, err := s.Generate(2025, time.June, roster(), nil)
	require.NoError(t, err)

	require.Len(t, result.Days, 30)
	assert.Equal(t, 2025, result.Year)
	assert.Equal(t, time.June, result.Month)
	for i, d := range result.Days {
		assert.Equal(t, i+1, d.Day)
		assert.Len(t, d.Assignments, expectedSlots(d.DayOfWeek), "day %d", d.Day)
		for _, a := range d.Assignments {
			assert.Equal(t, d.Day, a.Day)
		}
	}
	// June 1st 2025 is a Sunday
	assert.Equal(t, 0, result.Days[0].DayOfWeek)
	assert.Len(t, result.Stats, 4)
	assert.Zero(t, result.Unassigned())
}

func TestGenerate_LeapFebruary(t *testing.T) {
	result, err := NewScheduler().Generate(2024, time.February, roster(), nil)
	require.NoError(t, err)
	assert.Len(t, result.Days, 29)

	result, err = NewScheduler().Generate(2025, time.February, roster(), nil)
	require.NoError(t, err)
	assert.Len(t, result.Days, 28)
}

func TestGenerate_HonorsDaysOff(t *testing.T) {
	availability := models.Availability{
		"evelina": {1, 2, 3, 10, 11},
		"daiga":   {1, 2, 3, 20},
		"patriks": {1, 2, 15, 16, 17},
		"sofija":  {1, 30},
	}
	result, err := NewScheduler().Generate(2025, time.June, roster(), availability)
	require.NoError(t, err)

	for _, d := range result.Days {
		for _, a := range d.Assignments {
			if a.StaffID == nil {
				continue
			}
			assert.False(t, availability.IsOff(*a.StaffID, d.Day),
				"%s assigned on requested day off %d", *a.StaffID, d.Day)
		}
	}

	// Only sofija can work on the 1st, a Sunday with three slots.
	for _, a := range result.Days[0].Assignments {
		require.NotNil(t, a.StaffID)
		assert.Equal(t, "sofija", *a.StaffID)
	}
	assert.Equal(t, 3, result.Days[0].Assignments[2].Tier)
}

func TestGenerate_StatsMatchAssignments(t *testing.T) {
	availability := models.Availability{"daiga": {4, 5, 6}, "patriks": {12}}
	result, err := NewScheduler().Generate(2025, time.March, roster(), availability)
	require.NoError(t, err)

	hours := map[string]float64{}
	days := map[string]map[int]bool{}
	for _, d := range result.Days {
		for _, a := range d.Assignments {
			if a.StaffID == nil {
				continue
			}
			hours[*a.StaffID] += a.Hours
			if days[*a.StaffID] == nil {
				days[*a.StaffID] = map[int]bool{}
			}
			days[*a.StaffID][d.Day] = true
		}
	}

	for _, s := range roster() {
		st, ok := result.Stats[s.ID]
		require.True(t, ok, "missing stats for %s", s.ID)
		assert.Equal(t, hours[s.ID], st.Hours, s.ID)
		assert.Equal(t, len(days[s.ID]), st.Shifts, s.ID)
	}
}

func TestGenerate_StatsCoverIdleStaff(t *testing.T) {
	staff := plainStaff("a", "b")
	all := make([]int, 0, 31)
	for d := 1; d <= 31; d++ {
		all = append(all, d)
	}
	result, err := NewScheduler().Generate(2025, time.January, staff, models.Availability{"b": all})
	require.NoError(t, err)

	require.Contains(t, result.Stats, "b")
	assert.Equal(t, models.StaffStat{LastWorkedDay: -1}, result.Stats["b"])
}

func TestGenerate_Deterministic(t *testing.T) {
	availability := models.Availability{"evelina": {7, 8}, "sofija": {14}}

	first, err := NewScheduler().Generate(2025, time.August, roster(), availability)
	require.NoError(t, err)
	second, err := NewScheduler().Generate(2025, time.August, roster(), availability)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("results differ (-first +second):\n%s", diff)
	}

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestGenerate_NoSameDayDoubleBookingBeforeLastTier(t *testing.T) {
	availability := models.Availability{"evelina": {6, 7, 8}, "daiga": {7, 21}}
	result, err := NewScheduler().Generate(2025, time.June, roster(), availability)
	require.NoError(t, err)

	for _, d := range result.Days {
		seen := map[string]bool{}
		for _, a := range d.Assignments {
			if a.StaffID == nil || a.Tier == 3 {
				continue
			}
			assert.False(t, seen[*a.StaffID], "%s double booked on day %d", *a.StaffID, d.Day)
			seen[*a.StaffID] = true
		}
	}
}

func TestGenerate_DayOffScenario(t *testing.T) {
	staff := plainStaff("A", "B", "C", "D")
	result, err := NewScheduler().Generate(2025, time.June, staff, models.Availability{"A": {5}})
	require.NoError(t, err)

	// June 5th 2025 is a Thursday: Day (10.5h) then Evening (5h).
	day5 := result.Days[4]
	require.Equal(t, int(time.Thursday), day5.DayOfWeek)
	require.Len(t, day5.Assignments, 2)
	assert.Equal(t, 10.5, day5.Assignments[0].Hours)
	assert.Equal(t, 5.0, day5.Assignments[1].Hours)

	require.NotNil(t, day5.Assignments[0].StaffID)
	require.NotNil(t, day5.Assignments[1].StaffID)
	assert.Equal(t, "B", *day5.Assignments[0].StaffID)
	assert.Equal(t, "C", *day5.Assignments[1].StaffID)
	assert.Equal(t, 1, day5.Assignments[0].Tier)
	assert.Equal(t, 1, day5.Assignments[1].Tier)
}

func TestGenerate_FairnessBiasLowersHours(t *testing.T) {
	result, err := NewScheduler().Generate(2025, time.June, roster(), nil)
	require.NoError(t, err)

	sofija := result.Stats["sofija"].Hours
	for _, id := range []string{"evelina", "daiga", "patriks"} {
		assert.Less(t, sofija, result.Stats[id].Hours, "sofija should work less than %s", id)
	}
	assert.Equal(t, 152.5, sofija)
}

func TestGenerate_DoubleBookingPolicy(t *testing.T) {
	staff := plainStaff("A", "B")

	// June 1st 2025 is a Sunday with three slots for two people.
	result, err := NewScheduler().Generate(2025, time.June, staff, nil)
	require.NoError(t, err)
	day1 := result.Days[0]
	require.NotNil(t, day1.Assignments[2].StaffID)
	assert.Equal(t, "A", *day1.Assignments[2].StaffID)
	assert.Equal(t, 3, day1.Assignments[2].Tier)

	strict := NewScheduler(WithSelector(NewSelector(DefaultStreakLimit, false)))
	result, err = strict.Generate(2025, time.June, staff, nil)
	require.NoError(t, err)
	day1 = result.Days[0]
	assert.Nil(t, day1.Assignments[2].StaffID)
	assert.Equal(t, 0, day1.Assignments[2].Tier)
	assert.Positive(t, result.Unassigned())
}

func TestGenerate_EveryoneOffLeavesSlotsUnassigned(t *testing.T) {
	staff := plainStaff("A", "B")
	result, err := NewScheduler().Generate(2025, time.June, staff, models.Availability{
		"A": {10},
		"B": {10},
	})
	require.NoError(t, err)

	for _, a := range result.Days[9].Assignments {
		assert.Nil(t, a.StaffID)
		assert.Empty(t, a.StaffName)
	}
	assert.Equal(t, 2, result.Unassigned())
}

func TestGenerate_RejectsInvalidInput(t *testing.T) {
	s := NewScheduler()

	_, err := s.Generate(2025, 0, roster(), nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.Generate(2025, 13, roster(), nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.Generate(0, time.May, roster(), nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.Generate(2025, time.May, plainStaff("a", "a"), nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.Generate(2025, time.May, []models.Staff{{Name: "nobody"}}, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGenerate_EmptyRoster(t *testing.T) {
	result, err := NewScheduler().Generate(2025, time.April, nil, nil)
	require.NoError(t, err)
	assert.Len(t, result.Days, 30)
	assert.Empty(t, result.Stats)
	assert.Equal(t, 30*2+8*1, result.Unassigned())
}

func TestCalculateFairnessScore(t *testing.T) {
	assert.Equal(t, 100.0, CalculateFairnessScore(nil))
	assert.Equal(t, 100.0, CalculateFairnessScore(map[string]models.StaffStat{"a": {}, "b": {}}))
	assert.Equal(t, 100.0, CalculateFairnessScore(map[string]models.StaffStat{"a": {Hours: 10}, "b": {Hours: 10}}))
	assert.Equal(t, 0.0, CalculateFairnessScore(map[string]models.StaffStat{"a": {Hours: 20}, "b": {Hours: 0}}))
	assert.InDelta(t, 50.0, CalculateFairnessScore(map[string]models.StaffStat{"a": {Hours: 15}, "b": {Hours: 5}}), 1e-9)
}
