// Package render turns a ScheduleResult into the views people actually read:
// a Monday-first month grid, a per-staff summary, CSV, and a terminal table.
package render

import (
	"fmt"
	"sort"
	"time"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

// Cell is one day in the grid. Padding cells before the 1st are nil.
type Cell struct {
	Day         int                 `json:"day"`
	Weekday     string              `json:"weekday"`
	Assignments []models.Assignment `json:"assignments"`
}

// Calendar is a month laid out in Monday-first week rows
type Calendar struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Title string     `json:"title"`
	Weeks [][]*Cell  `json:"weeks"`
}

// SummaryRow is the month total of one staff member
type SummaryRow struct {
	StaffID string  `json:"staff_id"`
	Name    string  `json:"name"`
	Shifts  int     `json:"shifts"`
	Hours   float64 `json:"hours"`
}

// WeekdayHeaders are the column titles of the grid
var WeekdayHeaders = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// leadingBlanks is the number of empty cells before a day with the given
// day-of-week (0 = Sunday) in a Monday-first row.
func leadingBlanks(dayOfWeek int) int {
	if dayOfWeek == 0 {
		return 6
	}
	return dayOfWeek - 1
}

// BuildCalendar lays result out as week rows. The last row is padded to 7 cells.
func BuildCalendar(result *models.ScheduleResult) Calendar {
	cal := Calendar{Weeks: [][]*Cell{}}
	if result.Empty() {
		return cal
	}
	cal.Year = result.Year
	cal.Month = result.Month
	cal.Title = fmt.Sprintf("%s %d", result.Month, result.Year)

	week := make([]*Cell, leadingBlanks(result.Days[0].DayOfWeek), 7)
	for _, d := range result.Days {
		week = append(week, &Cell{
			Day:         d.Day,
			Weekday:     time.Weekday(d.DayOfWeek).String(),
			Assignments: d.Assignments,
		})
		if len(week) == 7 {
			cal.Weeks = append(cal.Weeks, week)
			week = make([]*Cell, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, nil)
		}
		cal.Weeks = append(cal.Weeks, week)
	}
	return cal
}

// Summary lists month totals in roster order. Staff found in the stats but
// not in the roster are appended sorted by id.
func Summary(result *models.ScheduleResult, staff []models.Staff) []SummaryRow {
	rows := make([]SummaryRow, 0, len(staff))
	if result == nil {
		return rows
	}

	seen := make(map[string]bool, len(staff))
	for _, s := range staff {
		st := result.Stats[s.ID]
		rows = append(rows, SummaryRow{StaffID: s.ID, Name: s.Name, Shifts: st.Shifts, Hours: st.Hours})
		seen[s.ID] = true
	}

	var extra []string
	for id := range result.Stats {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Strings(extra)
	for _, id := range extra {
		st := result.Stats[id]
		rows = append(rows, SummaryRow{StaffID: id, Name: id, Shifts: st.Shifts, Hours: st.Hours})
	}
	return rows
}
