package render

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
)

// Terminal renders the month grid followed by the summary table. Relaxed
// picks are marked with their tier and empty slots with "--".
func Terminal(result *models.ScheduleResult, staff []models.Staff) string {
	if result.Empty() {
		return mutedStyle.Render("no schedule") + "\n"
	}

	var sb strings.Builder
	cal := BuildCalendar(result)
	sb.WriteString(titleStyle.Render(cal.Title))
	sb.WriteString("\n\n")

	rows := make([][]string, 0, len(cal.Weeks))
	for _, week := range cal.Weeks {
		row := make([]string, len(week))
		for i, c := range week {
			if c != nil {
				row[i] = cellText(c)
			}
		}
		rows = append(rows, row)
	}
	sb.WriteString(table(WeekdayHeaders, rows))

	summary := Summary(result, staff)
	srows := make([][]string, 0, len(summary))
	for _, r := range summary {
		srows = append(srows, []string{r.Name, strconv.Itoa(r.Shifts), strconv.FormatFloat(r.Hours, 'f', -1, 64)})
	}
	sb.WriteString(table([]string{"Staff", "Shifts", "Hours"}, srows))

	if n := result.Unassigned(); n > 0 {
		sb.WriteString(warningStyle.Render(strconv.Itoa(n) + " slot(s) unassigned"))
		sb.WriteString("\n")
	}
	return sb.String()
}

func cellText(c *Cell) string {
	lines := []string{strconv.Itoa(c.Day)}
	for _, a := range c.Assignments {
		switch {
		case !a.Assigned():
			lines = append(lines, warningStyle.Render("--"))
		case a.Tier > 1:
			lines = append(lines, a.StaffName+"*"+strconv.Itoa(a.Tier))
		default:
			lines = append(lines, a.StaffName)
		}
	}
	return strings.Join(lines, "\n")
}

// table draws rows under headers with "|" separators. Cells may span
// several lines.
func table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}

	sep := mutedStyle.Render("|")
	var sb strings.Builder

	cols := make([]string, 0, 2*len(headers))
	for i, h := range headers {
		if i > 0 {
			cols = append(cols, sep)
		}
		cols = append(cols, headerStyle.Width(widths[i]).Render(h))
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	sb.WriteString("\n")

	total := len(headers) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(mutedStyle.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for _, row := range rows {
		height := 1
		for _, cell := range row {
			height = max(height, lipgloss.Height(cell))
		}
		rowSep := strings.TrimSuffix(strings.Repeat(sep+"\n", height), "\n")

		cols = cols[:0]
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if i > 0 {
				cols = append(cols, rowSep)
			}
			cols = append(cols, cellStyle.Width(widths[i]).Render(cell))
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}
