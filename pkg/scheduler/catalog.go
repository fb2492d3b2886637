package scheduler

import (
	"fmt"
	"slices"
	"time"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

// Catalog maps each day type to the ordered shift templates required that day.
// Order matters: slots are filled in catalog order.
type Catalog struct {
	templates map[models.DayType][]models.ShiftTemplate
}

// DefaultCatalog returns the standard restaurant pattern:
// Mon-Thu 10:30-21:00 + 16:00-21:00, Fri 2 x 10:30-22:00,
// Sat 2 x 10:30-22:00 + 14:00-22:00, Sun 2 x 10:30-21:00 + 14:00-21:00.
func DefaultCatalog() *Catalog {
	return &Catalog{templates: map[models.DayType][]models.ShiftTemplate{
		models.Weekday: {
			{Label: "Day", Start: "10:30", End: "21:00", Hours: 10.5},
			{Label: "Evening", Start: "16:00", End: "21:00", Hours: 5},
		},
		models.Friday: {
			{Label: "Double", Start: "10:30", End: "22:00", Hours: 11.5},
			{Label: "Double", Start: "10:30", End: "22:00", Hours: 11.5},
		},
		models.Saturday: {
			{Label: "Double", Start: "10:30", End: "22:00", Hours: 11.5},
			{Label: "Double", Start: "10:30", End: "22:00", Hours: 11.5},
			{Label: "Extra", Start: "14:00", End: "22:00", Hours: 8},
		},
		models.Sunday: {
			{Label: "Double", Start: "10:30", End: "21:00", Hours: 10.5},
			{Label: "Double", Start: "10:30", End: "21:00", Hours: 10.5},
			{Label: "Extra", Start: "14:00", End: "21:00", Hours: 7},
		},
	}}
}

// NewCatalog builds a catalog from explicit templates. Every day type needs
// at least one template with positive hours.
func NewCatalog(templates map[models.DayType][]models.ShiftTemplate) (*Catalog, error) {
	c := &Catalog{templates: make(map[models.DayType][]models.ShiftTemplate, len(models.DayTypes))}
	for _, dt := range models.DayTypes {
		list := templates[dt]
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: no shift templates for %s", ErrInvalidArgument, dt)
		}
		for _, t := range list {
			if t.Hours <= 0 {
				return nil, fmt.Errorf("%w: shift %q on %s has non-positive hours", ErrInvalidArgument, t.Label, dt)
			}
			if _, err := time.Parse("15:04", t.Start); err != nil {
				return nil, fmt.Errorf("%w: shift %q on %s has bad start %q", ErrInvalidArgument, t.Label, dt, t.Start)
			}
			if _, err := time.Parse("15:04", t.End); err != nil {
				return nil, fmt.Errorf("%w: shift %q on %s has bad end %q", ErrInvalidArgument, t.Label, dt, t.End)
			}
		}
		c.templates[dt] = slices.Clone(list)
	}
	return c, nil
}

// DayTypeOf classifies a weekday
func DayTypeOf(w time.Weekday) models.DayType {
	switch w {
	case time.Friday:
		return models.Friday
	case time.Saturday:
		return models.Saturday
	case time.Sunday:
		return models.Sunday
	default:
		return models.Weekday
	}
}

// ForWeekday returns a fresh copy of the templates required on w
func (c *Catalog) ForWeekday(w time.Weekday) []models.ShiftTemplate {
	return c.ForDayType(DayTypeOf(w))
}

// ForDayType returns a fresh copy of the templates for dt
func (c *Catalog) ForDayType(dt models.DayType) []models.ShiftTemplate {
	return slices.Clone(c.templates[dt])
}

// Templates returns a copy of the whole catalog
func (c *Catalog) Templates() map[models.DayType][]models.ShiftTemplate {
	out := make(map[models.DayType][]models.ShiftTemplate, len(c.templates))
	for dt, list := range c.templates {
		out[dt] = slices.Clone(list)
	}
	return out
}
