package rules

import (
	"strings"

	"github.com/nstehr/muster/muster-core/model"
)

// CompiledRuleSet is the fully merged rule set for one faction and optional
// warband variant. It is self-contained: every legality question can be
// answered from it without the source fragments.
type CompiledRuleSet struct {
	FactionID          string                    `json:"factionId"`
	FactionName        string                    `json:"factionName"`
	SpecialRules       []string                  `json:"specialRules"`
	WarbandVariantID   string                    `json:"warbandVariantId,omitempty"`
	WarbandVariantName string                    `json:"warbandVariantName,omitempty"`
	VariantRules       []string                  `json:"variantRules"`
	Equipment          model.EquipmentRules      `json:"equipment"`
	Troops             model.TroopRules          `json:"troops"`
	Mercenaries        *model.MercenaryRules     `json:"mercenaries,omitempty"`
	SpecialValidations *model.SpecialValidations `json:"specialValidations,omitempty"`
}

// Clone returns a deep copy that shares no mutable state with rs.
func (rs *CompiledRuleSet) Clone() *CompiledRuleSet {
	if rs == nil {
		return nil
	}
	return &CompiledRuleSet{
		FactionID:          rs.FactionID,
		FactionName:        rs.FactionName,
		SpecialRules:       model.CloneStrings(rs.SpecialRules),
		WarbandVariantID:   rs.WarbandVariantID,
		WarbandVariantName: rs.WarbandVariantName,
		VariantRules:       model.CloneStrings(rs.VariantRules),
		Equipment:          rs.Equipment.Clone(),
		Troops:             rs.Troops.Clone(),
		Mercenaries:        rs.Mercenaries.Clone(),
		SpecialValidations: rs.SpecialValidations.Clone(),
	}
}

// TroopAvailable reports whether the troop may be fielded. Troops without a
// cost entry are unavailable unless they can be hired as mercenaries.
func (rs *CompiledRuleSet) TroopAvailable(id string) bool {
	if avail, ok := rs.Troops.Availability[id]; ok {
		return avail
	}
	for known, avail := range rs.Troops.Availability {
		if !avail && strings.EqualFold(known, id) {
			return false
		}
	}
	return rs.IsMercenary(id)
}

// IsMercenary reports whether the troop is hired from outside the faction.
func (rs *CompiledRuleSet) IsMercenary(id string) bool {
	if rs.Mercenaries == nil {
		return false
	}
	_, inTroops := rs.Troops.Costs[id]
	_, hireable := rs.Mercenaries.Costs[id]
	return hireable && !inTroops
}

// TroopCost returns the price of fielding one troop.
func (rs *CompiledRuleSet) TroopCost(id string) (model.Cost, bool) {
	if c, ok := rs.Troops.Costs[id]; ok {
		return c, true
	}
	if rs.Mercenaries != nil {
		c, ok := rs.Mercenaries.Costs[id]
		return c, ok
	}
	return nil, false
}

// TroopLimit returns the army-wide cap for a troop, if any.
func (rs *CompiledRuleSet) TroopLimit(id string) (int, bool) {
	if n, ok := rs.Troops.Limits[id]; ok {
		return n, true
	}
	if rs.Mercenaries != nil {
		n, ok := rs.Mercenaries.Limits[id]
		return n, ok
	}
	return 0, false
}

// EquipmentCost returns the price of an item. Mercenaries pay the
// mercenary price when one is authored.
func (rs *CompiledRuleSet) EquipmentCost(id string, mercenary bool) (model.Cost, bool) {
	if mercenary && rs.Equipment.MercenaryRules != nil {
		if c, ok := rs.Equipment.MercenaryRules.Costs[id]; ok {
			return c, true
		}
	}
	c, ok := rs.Equipment.Costs[id]
	return c, ok
}

// EquipmentLimit returns the army-wide cap for an item, if any.
func (rs *CompiledRuleSet) EquipmentLimit(id string) (int, bool) {
	n, ok := rs.Equipment.Limits[id]
	return n, ok
}

// BanReason reports why an item is globally banned, or "" when it is not.
func (rs *CompiledRuleSet) BanReason(eq model.Equipment) string {
	return banReason(rs.Equipment.GlobalRestrictions, eq)
}

func banReason(g model.GlobalRestrictions, eq model.Equipment) string {
	for _, id := range g.BannedEquipmentIDs {
		if id == eq.ID {
			return "banned by id"
		}
	}
	for _, kw := range g.BannedKeywords {
		if eq.HasKeyword(kw) {
			return "banned keyword " + kw
		}
	}
	for _, cat := range g.BannedCategories {
		if strings.EqualFold(cat, string(eq.Category)) {
			return "banned category " + cat
		}
	}
	return ""
}
