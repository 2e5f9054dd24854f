package rules

import (
	"strings"

	"github.com/nstehr/muster/muster-core/model"
)

// Compile merges a faction's rule fragment with an optional warband
// variant overlay into a complete rule set.
//
// Compile is pure: the same inputs always produce a structurally equal
// result, nothing in the result aliases the inputs, and missing optional
// fields are treated as empty. A nil faction yields an empty rule set.
func Compile(faction *model.Faction, variant *model.Variant) *CompiledRuleSet {
	rs := &CompiledRuleSet{
		SpecialRules: []string{},
		VariantRules: []string{},
		Equipment:    model.EquipmentRules{}.Clone(),
		Troops:       model.TroopRules{}.Clone(),
	}
	if faction == nil {
		return rs
	}

	// --- Base pass ---

	rs.FactionID = faction.ID
	rs.FactionName = faction.Name
	rs.SpecialRules = model.CloneStrings(faction.SpecialRules)
	rs.Equipment = faction.Equipment.Clone()
	rs.Troops = faction.Troops.Clone()
	// Availability is derived, never taken from the fragment.
	rs.Troops.Availability = make(map[string]bool, len(rs.Troops.Costs))
	rs.Mercenaries = faction.Mercenaries.Clone()
	rs.SpecialValidations = faction.SpecialValidations.Clone()
	deriveAvailability(&rs.Troops)

	if variant == nil {
		return rs
	}

	// --- Variant overlay ---

	rs.WarbandVariantID = variant.ID
	rs.WarbandVariantName = variant.Name
	rs.VariantRules = model.CloneStrings(variant.SpecialRules)

	if variant.Equipment != nil {
		overlayEquipment(&rs.Equipment, variant.Equipment)
	}
	if variant.Troops != nil {
		overlayTroops(&rs.Troops, variant.Troops)
	}
	if variant.Mercenaries != nil {
		rs.Mercenaries = mergeMercenaries(rs.Mercenaries, variant.Mercenaries)
	}
	if variant.SpecialValidations != nil {
		rs.SpecialValidations = variant.SpecialValidations.Clone()
	}

	deriveAvailability(&rs.Troops)
	return rs
}

// overlayEquipment applies a variant's equipment fragment onto dst.
func overlayEquipment(dst *model.EquipmentRules, v *model.EquipmentRules) {
	for id, c := range v.Costs {
		dst.Costs[id] = c.Clone()
	}
	for id, n := range v.Limits {
		dst.Limits[id] = n
	}
	// Per-id replacement: the variant's condition set wins outright.
	for id, cs := range v.TroopRestrictions {
		dst.TroopRestrictions[id] = cs.Clone()
	}

	// Bans only ever tighten.
	g := &dst.GlobalRestrictions
	g.BannedEquipmentIDs = union(g.BannedEquipmentIDs, v.GlobalRestrictions.BannedEquipmentIDs)
	g.BannedKeywords = union(g.BannedKeywords, v.GlobalRestrictions.BannedKeywords)
	g.BannedCategories = union(g.BannedCategories, v.GlobalRestrictions.BannedCategories)

	if v.ExternalAllowances != nil {
		dst.ExternalAllowances = model.CloneAllowances(v.ExternalAllowances)
	}
	if v.MercenaryRules != nil {
		dst.MercenaryRules = mergeMercenaries(dst.MercenaryRules, v.MercenaryRules)
	}
}

// overlayTroops applies a variant's troop fragment onto dst.
func overlayTroops(dst *model.TroopRules, v *model.TroopRules) {
	for id, c := range v.Costs {
		dst.Costs[id] = c.Clone()
	}
	for id, n := range v.Limits {
		dst.Limits[id] = n
	}
	dst.Restrictions.Requirements = append(dst.Restrictions.Requirements, model.CloneRequirements(v.Restrictions.Requirements)...)
	for kw, n := range v.Restrictions.MaxKeywordCounts {
		dst.Restrictions.MaxKeywordCounts[kw] = n
	}
	for id, notes := range v.Abilities {
		dst.Abilities[id] = append(dst.Abilities[id], notes...)
	}
	// Cost bounds are overrides: a variant floor replaces any faction floor.
	if v.MinModelCost != nil {
		dst.MinModelCost = v.MinModelCost.Clone()
	}
	if v.MaxModelCost != nil {
		dst.MaxModelCost = v.MaxModelCost.Clone()
	}
}

// deriveAvailability marks every priced troop available unless it already
// has an entry, then suppresses troops named by a zero-maximum requirement.
// Requirement ids match priced ids regardless of case.
func deriveAvailability(t *model.TroopRules) {
	for id := range t.Costs {
		if _, ok := t.Availability[id]; !ok {
			t.Availability[id] = true
		}
	}
	for _, req := range t.Restrictions.Requirements {
		if !req.Forbids() {
			continue
		}
		for _, id := range req.TroopIDs {
			t.Availability[id] = false
			for priced := range t.Costs {
				if strings.EqualFold(priced, id) {
					t.Availability[priced] = false
				}
			}
		}
	}
}

// mergeMercenaries shallow-merges v over base, creating base if absent.
func mergeMercenaries(base, v *model.MercenaryRules) *model.MercenaryRules {
	out := base.Clone()
	if out == nil {
		out = &model.MercenaryRules{Costs: map[string]model.Cost{}, Limits: map[string]int{}}
	}
	for id, c := range v.Costs {
		out.Costs[id] = c.Clone()
	}
	for id, n := range v.Limits {
		out.Limits[id] = n
	}
	return out
}

// union appends the members of b missing from a, preserving order.
func union(a, b []string) []string {
	out := model.CloneStrings(a)
	for _, s := range b {
		if !containsFold(out, s) {
			out = append(out, s)
		}
	}
	return out
}
