package rules

import (
	"strings"

	"github.com/nstehr/muster/muster-core/model"
)

// Strategy is one way of judging a troop's loadout. Both strategies run the
// same category-cap and handedness checks; they differ in where the rule data
// comes from and how severe a limit breach is.
type Strategy interface {
	Name() string
	Validate(loadout []model.Equipment, troop *model.Troop) ValidationResult
}

// Validate checks loadout for troop using s.
func Validate(loadout []model.Equipment, troop *model.Troop, s Strategy) ValidationResult {
	return s.Validate(loadout, troop)
}

// ValidateCompiled checks a loadout against a compiled rule set.
func ValidateCompiled(loadout []model.Equipment, troop *model.Troop, rs *CompiledRuleSet) ValidationResult {
	return CompiledStrategy{Rules: rs}.Validate(loadout, troop)
}

// ValidateLegacy checks a loadout directly against faction and variant
// fragments, for callers that have no compiled rule set.
func ValidateLegacy(loadout []model.Equipment, troop *model.Troop, faction *model.Faction, variant *model.Variant) ValidationResult {
	return LegacyStrategy{Faction: faction, Variant: variant}.Validate(loadout, troop)
}

// CompiledStrategy validates against a CompiledRuleSet. It is authoritative.
//
//	troop unavailable        error
//	category caps/duplicates error
//	limit exceeded           error
//	global ban               error ("not allowed in this warband variant")
//	troop restriction        error
//	handedness               warning
type CompiledStrategy struct {
	Rules *CompiledRuleSet
}

func (CompiledStrategy) Name() string { return "compiled" }

func (s CompiledStrategy) Validate(loadout []model.Equipment, troop *model.Troop) ValidationResult {
	res := newResult()
	rs := s.Rules
	if rs == nil {
		rs = Compile(nil, nil)
	}

	if troop != nil && !rs.TroopAvailable(troop.ID) {
		res.errorf(KindTroopUnavailable, nil, "%s is not available in this warband", troop.DisplayName())
	}

	checkCategoryCaps(&res, loadout)

	for _, d := range distinct(loadout) {
		if limit, ok := rs.EquipmentLimit(d.item.ID); ok && d.count > limit {
			res.errorf(KindLimitExceeded, []string{d.item.ID}, "%s exceeds its limit of %d (has %d)", d.item.DisplayName(), limit, d.count)
		}
		if reason := rs.BanReason(d.item); reason != "" {
			res.errorf(KindBanned, []string{d.item.ID}, "%s is not allowed in this warband variant (%s)", d.item.DisplayName(), reason)
		}
		if cs, ok := rs.Equipment.TroopRestrictions[d.item.ID]; ok && !Satisfies(troop, cs) {
			res.errorf(KindTroopRestricted, []string{d.item.ID}, "%s can only be taken by: %s", d.item.DisplayName(), describeConditions(cs))
		}
	}

	checkHandedness(&res, loadout)
	res.finish()
	return res
}

// LegacyStrategy validates straight from the catalog fragments, looking at
// the variant first and falling back to the faction. Limit breaches are only
// warnings here because the fragments may be partially authored.
//
//	troop unavailable        error
//	category caps/duplicates error
//	limit exceeded           warning
//	global ban               error ("is banned for this warband")
//	troop restriction        error
//	handedness               warning
type LegacyStrategy struct {
	Faction *model.Faction
	Variant *model.Variant
}

func (LegacyStrategy) Name() string { return "legacy" }

func (s LegacyStrategy) Validate(loadout []model.Equipment, troop *model.Troop) ValidationResult {
	res := newResult()

	if troop != nil && !s.troopAvailable(troop.ID) {
		res.errorf(KindTroopUnavailable, nil, "%s is not available in this warband", troop.DisplayName())
	}

	checkCategoryCaps(&res, loadout)

	for _, d := range distinct(loadout) {
		if limit, ok := s.limit(d.item.ID); ok && d.count > limit {
			res.warnf(KindLimitExceeded, []string{d.item.ID}, "%s exceeds its limit of %d (has %d)", d.item.DisplayName(), limit, d.count)
		}
		if reason := s.banReason(d.item); reason != "" {
			res.errorf(KindBanned, []string{d.item.ID}, "%s is banned for this warband (%s)", d.item.DisplayName(), reason)
		}
		if cs, ok := s.restriction(d.item.ID); ok && !Satisfies(troop, cs) {
			res.errorf(KindTroopRestricted, []string{d.item.ID}, "%s can only be taken by: %s", d.item.DisplayName(), describeConditions(cs))
		}
	}

	checkHandedness(&res, loadout)
	res.finish()
	return res
}

func (s LegacyStrategy) variantEquipment() *model.EquipmentRules {
	if s.Variant == nil {
		return nil
	}
	return s.Variant.Equipment
}

func (s LegacyStrategy) variantTroops() *model.TroopRules {
	if s.Variant == nil {
		return nil
	}
	return s.Variant.Troops
}

func (s LegacyStrategy) troopAvailable(id string) bool {
	priced := false
	var reqs []model.Requirement
	if s.Faction != nil {
		_, priced = s.Faction.Troops.Costs[id]
		reqs = append(reqs, s.Faction.Troops.Restrictions.Requirements...)
		if s.Faction.Mercenaries != nil {
			_, hired := s.Faction.Mercenaries.Costs[id]
			priced = priced || hired
		}
	}
	if vt := s.variantTroops(); vt != nil {
		_, inVariant := vt.Costs[id]
		priced = priced || inVariant
		reqs = append(reqs, vt.Restrictions.Requirements...)
	}
	if s.Variant != nil && s.Variant.Mercenaries != nil {
		_, hired := s.Variant.Mercenaries.Costs[id]
		priced = priced || hired
	}
	for _, r := range reqs {
		if r.Forbids() && containsFold(r.TroopIDs, id) {
			return false
		}
	}
	return priced
}

func (s LegacyStrategy) limit(id string) (int, bool) {
	if ve := s.variantEquipment(); ve != nil {
		if n, ok := ve.Limits[id]; ok {
			return n, true
		}
	}
	if s.Faction != nil {
		n, ok := s.Faction.Equipment.Limits[id]
		return n, ok
	}
	return 0, false
}

func (s LegacyStrategy) banReason(eq model.Equipment) string {
	if s.Faction != nil {
		if reason := banReason(s.Faction.Equipment.GlobalRestrictions, eq); reason != "" {
			return reason
		}
	}
	if ve := s.variantEquipment(); ve != nil {
		return banReason(ve.GlobalRestrictions, eq)
	}
	return ""
}

func (s LegacyStrategy) restriction(id string) (model.ConditionSet, bool) {
	if ve := s.variantEquipment(); ve != nil {
		if cs, ok := ve.TroopRestrictions[id]; ok {
			return cs, true
		}
	}
	if s.Faction != nil {
		cs, ok := s.Faction.Equipment.TroopRestrictions[id]
		return cs, ok
	}
	return model.ConditionSet{}, false
}

// checkCategoryCaps flags more than one armour, headgear or grenade item and
// any item carried twice.
func checkCategoryCaps(res *ValidationResult, loadout []model.Equipment) {
	caps := []struct {
		category model.Category
		kind     FindingKind
		label    string
	}{
		{model.CategoryArmour, KindDuplicateArmour, "armour"},
		{model.CategoryHeadgear, KindDuplicateHeadgear, "headgear"},
		{model.CategoryGrenade, KindDuplicateGrenade, "grenade"},
	}
	for _, c := range caps {
		var ids, names []string
		for _, eq := range loadout {
			if eq.Category == c.category {
				ids = append(ids, eq.ID)
				names = append(names, eq.DisplayName())
			}
		}
		if len(ids) > 1 {
			res.errorf(c.kind, ids, "only one %s item may be carried: %s", c.label, strings.Join(names, ", "))
		}
	}
	for _, d := range distinct(loadout) {
		if d.count > 1 {
			res.errorf(KindDuplicateItem, []string{d.item.ID}, "%s is carried %d times", d.item.DisplayName(), d.count)
		}
	}
}

type itemCount struct {
	item  model.Equipment
	count int
}

// distinct groups the loadout by id in first-seen order.
func distinct(loadout []model.Equipment) []itemCount {
	var out []itemCount
	index := make(map[string]int, len(loadout))
	for _, eq := range loadout {
		if i, ok := index[eq.ID]; ok {
			out[i].count++
			continue
		}
		index[eq.ID] = len(out)
		out = append(out, itemCount{item: eq, count: 1})
	}
	return out
}
