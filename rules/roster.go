package rules

import (
	"fmt"
	"slices"

	"github.com/nstehr/muster/muster-core/model"
)

// Unit is one model in an army list: a troop plus the equipment bought for it.
type Unit struct {
	ID        string   `json:"id,omitempty"`
	TroopID   string   `json:"troopId"`
	Equipment []string `json:"equipment,omitempty"`
}

// Roster is a complete army list for one faction and optional variant.
type Roster struct {
	FactionID string `json:"factionId"`
	VariantID string `json:"variantId,omitempty"`
	PatronID  string `json:"patronId,omitempty"`
	Units     []Unit `json:"units"`
}

// Lookup resolves catalog ids. catalog.Catalog satisfies it.
type Lookup interface {
	Troop(id string) (model.Troop, bool)
	Equipment(id string) (model.Equipment, bool)
	Faction(id string) (model.Faction, bool)
}

// UnitReport summarises one unit of a validated roster.
type UnitReport struct {
	UnitID  string     `json:"unitId"`
	TroopID string     `json:"troopId"`
	Cost    model.Cost `json:"cost"`
	IsValid bool       `json:"isValid"`
}

// RosterResult is the outcome of validating a whole army list.
type RosterResult struct {
	ValidationResult
	Total model.Cost   `json:"total"`
	Units []UnitReport `json:"units"`
}

// ValidateRoster checks every unit's loadout, prices the army and evaluates
// the army-wide rules of rs (limits, requirements, keyword caps, external
// allowances, model cost bounds, patron and custom checks). Problems are
// always reported as findings.
func ValidateRoster(r Roster, lookup Lookup, rs *CompiledRuleSet) RosterResult {
	if rs == nil {
		rs = Compile(nil, nil)
	}
	res := newResult()
	out := RosterResult{Total: model.Cost{}, Units: []UnitReport{}}
	env := RosterEnv{
		PatronID:        r.PatronID,
		allowanceCounts: make([]int, len(rs.Equipment.ExternalAllowances)),
	}

	for i, u := range r.Units {
		unitID := u.ID
		if unitID == "" {
			unitID = fmt.Sprintf("unit-%d", i+1)
		}
		ru, findings, ok := resolveUnit(u, unitID, lookup, rs, env.allowanceCounts)
		for _, f := range findings {
			res.add(f)
		}
		if !ok {
			continue
		}

		// Equipment limits are counted across the warband by the army rules.
		unitRes := ValidateCompiled(ru.Equipment, &ru.Troop, rs).without(KindLimitExceeded)
		res.merge(unitRes, unitID)
		checkModelCost(&res, rs, ru, unitID)

		env.Units = append(env.Units, ru)
		out.Total = out.Total.Add(ru.Cost)
		out.Units = append(out.Units, UnitReport{
			UnitID:  unitID,
			TroopID: ru.Troop.ID,
			Cost:    ru.Cost,
			IsValid: unitRes.IsValid && len(findings) == 0,
		})
	}

	rules := CompileRosterRules(rs)
	if rs.SpecialValidations != nil {
		for _, c := range rs.SpecialValidations.Checks {
			if err := CheckCondition(c.Condition); err != nil {
				res.warnf(KindRuleError, nil, "custom check %s is invalid: %v", c.Name, err)
				continue
			}
			rules = append(rules, customRule(c))
		}
	}
	engine, err := NewEngine(rules)
	if err != nil {
		res.warnf(KindRuleError, nil, "army rules could not be compiled: %v", err)
	} else {
		for _, f := range engine.Evaluate(env) {
			res.add(f)
		}
	}

	res.finish()
	out.ValidationResult = res
	return out
}

// UnitCost prices a single unit under rs.
func UnitCost(u Unit, lookup Lookup, rs *CompiledRuleSet) model.Cost {
	if rs == nil {
		rs = Compile(nil, nil)
	}
	counts := make([]int, len(rs.Equipment.ExternalAllowances))
	ru, _, ok := resolveUnit(u, u.ID, lookup, rs, counts)
	if !ok {
		return model.Cost{}
	}
	return ru.Cost
}

// RosterCost prices a whole army list. Unknown troops and items contribute
// nothing.
func RosterCost(r Roster, lookup Lookup, rs *CompiledRuleSet) model.Cost {
	if rs == nil {
		rs = Compile(nil, nil)
	}
	total := model.Cost{}
	counts := make([]int, len(rs.Equipment.ExternalAllowances))
	for _, u := range r.Units {
		ru, _, ok := resolveUnit(u, u.ID, lookup, rs, counts)
		if ok {
			total = total.Add(ru.Cost)
		}
	}
	return total
}

// resolveUnit looks up a unit's troop and equipment and prices it. Items
// borrowed through an external allowance are tallied into allowanceCounts.
func resolveUnit(u Unit, unitID string, lookup Lookup, rs *CompiledRuleSet, allowanceCounts []int) (RosterUnit, []Finding, bool) {
	var findings []Finding
	troop, ok := lookup.Troop(u.TroopID)
	if !ok {
		findings = append(findings, Finding{
			Kind:     KindUnknownTroop,
			Severity: SeverityError,
			Message:  fmt.Sprintf("unknown troop %q", u.TroopID),
			UnitID:   unitID,
		})
		return RosterUnit{}, findings, false
	}

	ru := RosterUnit{ID: unitID, Troop: troop, Mercenary: rs.IsMercenary(troop.ID), Cost: model.Cost{}}
	if c, ok := rs.TroopCost(troop.ID); ok {
		ru.Cost = c.Clone()
	}

	for _, id := range u.Equipment {
		eq, ok := lookup.Equipment(id)
		if !ok {
			findings = append(findings, Finding{
				Kind:         KindUnknownEquipment,
				Severity:     SeverityError,
				Message:      fmt.Sprintf("unknown equipment %q", id),
				EquipmentIDs: []string{id},
				UnitID:       unitID,
			})
			continue
		}
		ru.Equipment = append(ru.Equipment, eq)

		// Standard issue equipment is free.
		if slices.Contains(troop.Equipment, id) {
			continue
		}
		if price, ok := rs.EquipmentCost(id, ru.Mercenary); ok {
			ru.Cost = ru.Cost.Add(price)
			continue
		}
		if idx, price, ok := borrow(rs, lookup, eq); ok {
			allowanceCounts[idx]++
			ru.Cost = ru.Cost.Add(price)
			continue
		}
		findings = append(findings, Finding{
			Kind:         KindEquipmentNotOffered,
			Severity:     SeverityError,
			Message:      fmt.Sprintf("%s is not offered to this warband", eq.DisplayName()),
			EquipmentIDs: []string{id},
			UnitID:       unitID,
		})
	}
	return ru, findings, true
}

// borrow finds the first external allowance that admits eq and returns its
// index and the source faction's price.
func borrow(rs *CompiledRuleSet, lookup Lookup, eq model.Equipment) (int, model.Cost, bool) {
	for i, a := range rs.Equipment.ExternalAllowances {
		src, ok := lookup.Faction(a.SourceFactionID)
		if !ok {
			continue
		}
		price, ok := src.Equipment.Costs[eq.ID]
		if !ok {
			continue
		}
		if len(a.Categories) > 0 && !slices.Contains(a.Categories, eq.Category) {
			continue
		}
		if len(a.Keywords) > 0 && !slices.ContainsFunc(a.Keywords, eq.HasKeyword) {
			continue
		}
		return i, price.Clone(), true
	}
	return 0, nil, false
}

// checkModelCost applies the per-model cost floor and ceiling.
func checkModelCost(res *ValidationResult, rs *CompiledRuleSet, ru RosterUnit, unitID string) {
	if b := rs.Troops.MinModelCost; b != nil && !b.Exempts(ru.Troop) {
		cur := b.CurrencyOrDefault()
		if got := ru.Cost.Amount(cur); got < b.Amount {
			res.add(Finding{
				Kind:     KindModelCost,
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s costs %d %s, below the minimum of %d", ru.Troop.DisplayName(), got, cur, b.Amount),
				UnitID:   unitID,
			})
		}
	}
	if b := rs.Troops.MaxModelCost; b != nil && !b.Exempts(ru.Troop) {
		cur := b.CurrencyOrDefault()
		if got := ru.Cost.Amount(cur); got > b.Amount {
			res.add(Finding{
				Kind:     KindModelCost,
				Severity: SeverityError,
				Message:  fmt.Sprintf("%s costs %d %s, above the maximum of %d", ru.Troop.DisplayName(), got, cur, b.Amount),
				UnitID:   unitID,
			})
		}
	}
}
