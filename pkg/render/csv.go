package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

// CSVHeader is the first row written by WriteCSV
var CSVHeader = []string{"date", "weekday", "shift", "start", "end", "hours", "staff_id", "staff_name", "tier"}

// WriteCSV writes one row per slot. Unassigned slots have empty staff columns.
func WriteCSV(w io.Writer, result *models.ScheduleResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return err
	}

	if !result.Empty() {
		for _, d := range result.Days {
			date := time.Date(result.Year, result.Month, d.Day, 0, 0, 0, 0, time.UTC)
			for _, a := range d.Assignments {
				staffID, tier := "", ""
				if a.Assigned() {
					staffID = *a.StaffID
					tier = strconv.Itoa(a.Tier)
				}
				record := []string{
					date.Format(time.DateOnly),
					time.Weekday(d.DayOfWeek).String(),
					a.ShiftLabel,
					a.Start,
					a.End,
					strconv.FormatFloat(a.Hours, 'f', -1, 64),
					staffID,
					a.StaffName,
					tier,
				}
				if err := writer.Write(record); err != nil {
					return err
				}
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
