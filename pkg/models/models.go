package models

import (
	"slices"
	"time"
)

// Staff represents a member of the roster
type Staff struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Role string `json:"role" yaml:"role"`
	// FairnessBias is added to accumulated hours when ranking candidates.
	// A positive bias makes the person look more loaded than they are.
	FairnessBias float64 `json:"fairness_bias,omitempty" yaml:"fairness_bias"`
}

// Availability maps a staff id to the days of the month they are off.
// A missing key means the staff member is fully available.
type Availability map[string][]int

// IsOff reports whether staffID requested day off
func (a Availability) IsOff(staffID string, day int) bool {
	return slices.Contains(a[staffID], day)
}

// DayType classifies a calendar day for shift purposes
type DayType string

const (
	Weekday  DayType = "weekday"
	Friday   DayType = "friday"
	Saturday DayType = "saturday"
	Sunday   DayType = "sunday"
)

// DayTypes lists every day type in catalog order
var DayTypes = []DayType{Weekday, Friday, Saturday, Sunday}

// ShiftTemplate is one slot that has to be filled on a given day type
type ShiftTemplate struct {
	Label string  `json:"label" yaml:"label"`
	Start string  `json:"start" yaml:"start"` // HH:MM
	End   string  `json:"end" yaml:"end"`     // HH:MM
	Hours float64 `json:"hours" yaml:"hours"`
}

// Assignment is a filled (or unfilled) shift slot on a specific day
type Assignment struct {
	Day        int     `json:"day"`
	ShiftLabel string  `json:"shift"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Hours      float64 `json:"hours"`
	StaffID    *string `json:"staff_id"`
	StaffName  string  `json:"staff_name,omitempty"`
	Tier       int     `json:"tier,omitempty"`
}

// Assigned reports whether the slot has a staff member
func (a Assignment) Assigned() bool {
	return a.StaffID != nil
}

// DayRecord holds the assignments of one calendar day
type DayRecord struct {
	Day         int          `json:"day"`
	DayOfWeek   int          `json:"day_of_week"` // 0 = Sunday
	Assignments []Assignment `json:"assignments"`
}

// StaffStat is the running workload of one staff member
type StaffStat struct {
	Hours                 float64 `json:"hours"`
	Shifts                int     `json:"shifts"`
	ConsecutiveWorkedDays int     `json:"consecutive_worked_days"`
	LastWorkedDay         int     `json:"last_worked_day"`
}

// ScheduleResult is the output of one scheduling run
type ScheduleResult struct {
	Year  int                  `json:"year"`
	Month time.Month           `json:"month"`
	Days  []DayRecord          `json:"days"`
	Stats map[string]StaffStat `json:"stats"`
}

// Empty reports whether the result carries no schedule
func (r *ScheduleResult) Empty() bool {
	return r == nil || len(r.Days) == 0
}

// Unassigned counts the slots that could not be filled
func (r *ScheduleResult) Unassigned() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, d := range r.Days {
		for _, a := range d.Assignments {
			if !a.Assigned() {
				n++
			}
		}
	}
	return n
}

// HistoryEntry is an archived month
type HistoryEntry struct {
	ID         string               `json:"id"`
	Year       int                  `json:"year"`
	Month      time.Month           `json:"month"`
	Days       []DayRecord          `json:"days"`
	Stats      map[string]StaffStat `json:"stats"`
	ArchivedAt time.Time            `json:"archived_at"`
}

// ScheduleInput is the data structure for the scheduling endpoint
type ScheduleInput struct {
	Year         int          `json:"year"`
	Month        time.Month   `json:"month"`
	Staff        []Staff      `json:"staff"`
	Availability Availability `json:"availability"`
}

// PlanningState describes the planning window at a point in time
type PlanningState struct {
	IsLocked     bool       `json:"is_locked"`
	CurrentDay   int        `json:"current_day"`
	CurrentMonth time.Month `json:"current_month"`
	CurrentYear  int        `json:"current_year"`
	TargetMonth  time.Month `json:"target_month"`
	TargetYear   int        `json:"target_year"`
	DeadlineDay  int        `json:"deadline_day"`
	LockMessage  string     `json:"lock_message,omitempty"`
}

// Remaining is the time left until the next planning deadline
type Remaining struct {
	Deadline time.Time `json:"deadline"`
	Days     int       `json:"days"`
	Hours    int       `json:"hours"`
	Minutes  int       `json:"minutes"`
	Seconds  int       `json:"seconds"`
}
