package scheduler

import (
	"sort"

	"github.com/arnavshah/rota-api-go/pkg/models"
)

// DefaultStreakLimit is the number of consecutive worked days after which a
// staff member is only picked when nobody else can take the slot.
const DefaultStreakLimit = 5

// Request carries everything the selector needs to fill one slot
type Request struct {
	Day           int
	Shift         models.ShiftTemplate
	AssignedToday map[string]bool
	Availability  models.Availability
	Ledger        *Ledger
	Staff         []models.Staff
}

// Tier is one relaxation stage: a named admission predicate
type Tier struct {
	Name  string
	Admit func(req Request, s models.Staff) bool
}

// Pick is the outcome of a selection
type Pick struct {
	Staff models.Staff
	Tier  int // 1-based index of the tier that produced the pick
}

// Selector ranks eligible staff for one slot, relaxing constraints tier by tier
type Selector struct {
	tiers []Tier
}

// NewSelector builds the standard relaxation pipeline. When doubleBooking is
// false the last-resort tier is omitted and exhausted slots stay unassigned.
func NewSelector(streakLimit int, doubleBooking bool) *Selector {
	if streakLimit <= 0 {
		streakLimit = DefaultStreakLimit
	}
	tiers := []Tier{
		{
			Name: "preferred",
			Admit: func(req Request, s models.Staff) bool {
				return !req.Availability.IsOff(s.ID, req.Day) &&
					!req.AssignedToday[s.ID] &&
					req.Ledger.ConsecutiveStreak(s.ID) < streakLimit
			},
		},
		{
			Name: "relax-streak",
			Admit: func(req Request, s models.Staff) bool {
				return !req.Availability.IsOff(s.ID, req.Day) && !req.AssignedToday[s.ID]
			},
		},
	}
	if doubleBooking {
		tiers = append(tiers, Tier{
			Name: "relax-same-day",
			Admit: func(req Request, s models.Staff) bool {
				return !req.Availability.IsOff(s.ID, req.Day)
			},
		})
	}
	return &Selector{tiers: tiers}
}

// Tiers returns the pipeline in evaluation order
func (sel *Selector) Tiers() []Tier {
	return sel.tiers
}

// Select returns the best candidate from the first tier with a non-empty pool.
// ok is false when every tier is empty.
func (sel *Selector) Select(req Request) (pick Pick, ok bool) {
	for i, tier := range sel.tiers {
		pool := make([]models.Staff, 0, len(req.Staff))
		for _, s := range req.Staff {
			if tier.Admit(req, s) {
				pool = append(pool, s)
			}
		}
		if len(pool) == 0 {
			continue
		}
		rank(pool, req.Ledger)
		return Pick{Staff: pool[0], Tier: i + 1}, true
	}
	return Pick{}, false
}

// rank orders candidates by biased hours, then by streak. Remaining ties keep
// roster order.
func rank(pool []models.Staff, ledger *Ledger) {
	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		ak := ledger.AccumulatedHours(a.ID) + a.FairnessBias
		bk := ledger.AccumulatedHours(b.ID) + b.FairnessBias
		if ak != bk {
			return ak < bk
		}
		return ledger.ConsecutiveStreak(a.ID) < ledger.ConsecutiveStreak(b.ID)
	})
}
