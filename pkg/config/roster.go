package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

// Roster is the staff list, optionally with a shift catalog override.
type Roster struct {
	Staff  []models.Staff                            `yaml:"staff"`
	Shifts map[models.DayType][]models.ShiftTemplate `yaml:"shifts,omitempty"`
}

// DefaultRoster is the team used when no roster file is configured.
func DefaultRoster() *Roster {
	return &Roster{Staff: []models.Staff{
		{ID: "evelina", Name: "Evelīna", Role: "waiter"},
		{ID: "daiga", Name: "Daiga", Role: "waiter"},
		{ID: "patriks", Name: "Patriks", Role: "waiter"},
		{ID: "sofija", Name: "Sofija", Role: "waiter", FairnessBias: 5},
	}}
}

// LoadRoster reads a YAML roster from path. An empty path yields the default roster.
func LoadRoster(path string) (*Roster, error) {
	if path == "" {
		return DefaultRoster(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r Roster
	if err := yaml.NewDecoder(f).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode roster %s: %w", path, err)
	}
	if len(r.Staff) == 0 {
		return nil, fmt.Errorf("roster %s has no staff", path)
	}
	return &r, nil
}
