package catalog

import (
	"fmt"
	"sort"

	"github.com/nstehr/muster/muster-core/model"
	"github.com/nstehr/muster/muster-core/rules"
)

// WarningKind classifies a load-time referential problem.
type WarningKind string

const (
	WarnUnknownEquipment WarningKind = "unknown_equipment"
	WarnUnknownTroop     WarningKind = "unknown_troop"
	WarnUnknownFaction   WarningKind = "unknown_faction"
	WarnInvalidCheck     WarningKind = "invalid_check"
)

// Warning is a recoverable inconsistency in authored data. It never blocks
// compilation; the offending entry simply has no effect.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Owner   string      `json:"owner"`
	ID      string      `json:"id"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s %q: %s", w.Owner, w.Kind, w.ID, w.Message)
}

// Check looks for fragments that reference ids the catalog does not know.
// Results are ordered by owner, then in the order they were found.
func Check(c *Catalog) []Warning {
	var out []Warning

	for _, f := range c.Factions() {
		owner := "faction " + f.ID
		out = append(out, checkEquipmentRules(c, owner, &f.Equipment)...)
		out = append(out, checkTroopRules(c, owner, &f.Troops)...)
		out = append(out, checkMercenaries(c, owner, f.Mercenaries)...)
		out = append(out, checkSpecialValidations(owner, f.SpecialValidations)...)
	}

	variantIDs := make([]string, 0, len(c.variants))
	for id := range c.variants {
		variantIDs = append(variantIDs, id)
	}
	sort.Strings(variantIDs)
	for _, id := range variantIDs {
		v := c.variants[id]
		owner := "variant " + v.ID
		if _, ok := c.factions[v.FactionID]; !ok {
			out = append(out, Warning{WarnUnknownFaction, owner, v.FactionID, "variant belongs to an unknown faction"})
		}
		if v.Equipment != nil {
			out = append(out, checkEquipmentRules(c, owner, v.Equipment)...)
		}
		if v.Troops != nil {
			out = append(out, checkTroopRules(c, owner, v.Troops)...)
		}
		out = append(out, checkMercenaries(c, owner, v.Mercenaries)...)
		out = append(out, checkSpecialValidations(owner, v.SpecialValidations)...)
	}

	troopIDs := make([]string, 0, len(c.troops))
	for id := range c.troops {
		troopIDs = append(troopIDs, id)
	}
	sort.Strings(troopIDs)
	for _, id := range troopIDs {
		t := c.troops[id]
		owner := "troop " + t.ID
		if _, ok := c.factions[t.FactionID]; !ok {
			out = append(out, Warning{WarnUnknownFaction, owner, t.FactionID, "troop belongs to an unknown faction"})
		}
		for _, eq := range t.Equipment {
			if _, ok := c.equipment[eq]; !ok {
				out = append(out, Warning{WarnUnknownEquipment, owner, eq, "standard issue item is not in the catalog"})
			}
		}
	}
	return out
}

func checkEquipmentRules(c *Catalog, owner string, r *model.EquipmentRules) []Warning {
	var out []Warning
	unknown := func(id, where string) {
		if _, ok := c.equipment[id]; !ok {
			out = append(out, Warning{WarnUnknownEquipment, owner, id, where + " references an unknown item"})
		}
	}
	for _, id := range sortedKeys(r.Costs) {
		unknown(id, "equipment.costs")
	}
	for _, id := range sortedKeys(r.Limits) {
		unknown(id, "equipment.limits")
	}
	for _, id := range sortedKeys(r.TroopRestrictions) {
		unknown(id, "equipment.troopRestrictions")
		cs := r.TroopRestrictions[id]
		for _, cond := range append(append([]model.Condition{}, cs.And...), cs.Or...) {
			for _, tid := range cond.TroopIDs {
				if _, ok := c.troops[tid]; !ok {
					out = append(out, Warning{WarnUnknownTroop, owner, tid, "restriction on " + id + " names an unknown troop"})
				}
			}
		}
	}
	for _, id := range r.GlobalRestrictions.BannedEquipmentIDs {
		unknown(id, "globalRestrictions.bannedEquipmentIds")
	}
	for _, a := range r.ExternalAllowances {
		if _, ok := c.factions[a.SourceFactionID]; !ok {
			out = append(out, Warning{WarnUnknownFaction, owner, a.SourceFactionID, "external allowance names an unknown faction"})
		}
	}
	if r.MercenaryRules != nil {
		for _, id := range sortedKeys(r.MercenaryRules.Costs) {
			unknown(id, "equipment.mercenaryRules.costs")
		}
	}
	return out
}

func checkTroopRules(c *Catalog, owner string, r *model.TroopRules) []Warning {
	var out []Warning
	unknown := func(id, where string) {
		if _, ok := c.troops[id]; !ok {
			out = append(out, Warning{WarnUnknownTroop, owner, id, where + " references an unknown troop"})
		}
	}
	for _, id := range sortedKeys(r.Costs) {
		unknown(id, "troops.costs")
	}
	for _, id := range sortedKeys(r.Limits) {
		unknown(id, "troops.limits")
	}
	for _, req := range r.Restrictions.Requirements {
		for _, id := range req.TroopIDs {
			unknown(id, "requirement")
		}
	}
	return out
}

func checkMercenaries(c *Catalog, owner string, m *model.MercenaryRules) []Warning {
	if m == nil {
		return nil
	}
	var out []Warning
	for _, id := range sortedKeys(m.Costs) {
		if _, ok := c.troops[id]; !ok {
			out = append(out, Warning{WarnUnknownTroop, owner, id, "mercenaries.costs references an unknown troop"})
		}
	}
	return out
}

// checkSpecialValidations compiles authored checks up front so a typo is
// reported at load rather than on every roster.
func checkSpecialValidations(owner string, sv *model.SpecialValidations) []Warning {
	if sv == nil {
		return nil
	}
	var out []Warning
	for _, chk := range sv.Checks {
		if err := rules.CheckCondition(chk.Condition); err != nil {
			out = append(out, Warning{WarnInvalidCheck, owner, chk.Name, err.Error()})
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
