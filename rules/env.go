package rules

import (
	"strings"

	"github.com/nstehr/muster/muster-core/model"
)

// RosterUnit is a resolved army unit: its troop template, purchased
// equipment and total price.
type RosterUnit struct {
	ID        string
	Troop     model.Troop
	Equipment []model.Equipment
	Cost      model.Cost
	Mercenary bool
}

// RosterEnv wraps a resolved roster and exposes helper methods callable from
// expr expressions.
type RosterEnv struct {
	Units    []RosterUnit
	PatronID string

	// allowanceCounts[i] is how many items were borrowed under allowance i.
	allowanceCounts []int
}

func (e RosterEnv) UnitCount() int {
	return len(e.Units)
}

func (e RosterEnv) HasTroop(id string) bool {
	return e.TroopCount(id) > 0
}

// TroopCount counts units built from any of the given troops.
func (e RosterEnv) TroopCount(ids ...string) int {
	n := 0
	for _, u := range e.Units {
		if containsFold(ids, u.Troop.ID) {
			n++
		}
	}
	return n
}

// KeywordCount counts units bearing kw.
func (e RosterEnv) KeywordCount(kw string) int {
	n := 0
	for _, u := range e.Units {
		if u.Troop.HasKeyword(kw) {
			n++
		}
	}
	return n
}

// Count counts units matching any selector. Selectors are "troop:<id>" or
// "keyword:<keyword>"; a bare value is treated as a troop id.
func (e RosterEnv) Count(selectors ...string) int {
	n := 0
	for _, u := range e.Units {
		for _, sel := range selectors {
			if matchesSelector(u.Troop, sel) {
				n++
				break
			}
		}
	}
	return n
}

// EquipmentCount counts copies of an item across the whole roster.
func (e RosterEnv) EquipmentCount(id string) int {
	n := 0
	for _, u := range e.Units {
		for _, eq := range u.Equipment {
			if eq.ID == id {
				n++
			}
		}
	}
	return n
}

// AllowanceCount is the number of items borrowed under the i-th external
// equipment allowance.
func (e RosterEnv) AllowanceCount(i int) int {
	if i < 0 || i >= len(e.allowanceCounts) {
		return 0
	}
	return e.allowanceCounts[i]
}

func (e RosterEnv) Patron() string {
	return e.PatronID
}

// TotalCost sums the roster's price in one currency.
func (e RosterEnv) TotalCost(currency string) int {
	n := 0
	for _, u := range e.Units {
		n += u.Cost.Amount(model.Currency(currency))
	}
	return n
}

func matchesSelector(t model.Troop, sel string) bool {
	switch {
	case strings.HasPrefix(sel, "keyword:"):
		return t.HasKeyword(strings.TrimPrefix(sel, "keyword:"))
	case strings.HasPrefix(sel, "troop:"):
		return strings.EqualFold(t.ID, strings.TrimPrefix(sel, "troop:"))
	}
	return strings.EqualFold(t.ID, sel)
}
