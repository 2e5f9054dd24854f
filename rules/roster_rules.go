package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nstehr/muster/muster-core/model"
)

// CompileRosterRules generates the army-wide rules implied by a compiled
// rule set. All conditions are built via fmt.Sprintf with quoted values, so
// the generated expr always compiles.
func CompileRosterRules(rs *CompiledRuleSet) []*Rule {
	var rules []*Rule

	// --- Patron ---

	if rs.SpecialValidations != nil && rs.SpecialValidations.EnforcedPatronID != "" {
		patron := rs.SpecialValidations.EnforcedPatronID
		rules = append(rules, &Rule{
			Name:         "enforced-patron",
			Priority:     700,
			Kind:         KindPatron,
			ConditionSrc: fmt.Sprintf(`Patron() == %q`, patron),
			Message:      fmt.Sprintf("this warband must take the patron %s", patron),
		})
	}

	// --- Composition requirements ---

	for i, req := range rs.Troops.Restrictions.Requirements {
		selectors := requirementSelectors(req)
		if len(selectors) == 0 {
			continue
		}
		label := req.Description
		if label == "" {
			label = describeRequirement(req)
		}
		if req.MinCount != nil {
			rules = append(rules, &Rule{
				Name:         fmt.Sprintf("requirement-%d-min", i),
				Priority:     600,
				Kind:         KindRequirement,
				ConditionSrc: fmt.Sprintf(`Count(%s) >= %d`, selectors, *req.MinCount),
				Message:      fmt.Sprintf("at least %d required: %s", *req.MinCount, label),
			})
		}
		if req.MaxCount != nil {
			rules = append(rules, &Rule{
				Name:         fmt.Sprintf("requirement-%d-max", i),
				Priority:     600,
				Kind:         KindRequirement,
				ConditionSrc: fmt.Sprintf(`Count(%s) <= %d`, selectors, *req.MaxCount),
				Message:      fmt.Sprintf("at most %d allowed: %s", *req.MaxCount, label),
			})
		}
	}

	// --- Troop and mercenary limits ---

	troopLimits := model.CloneIntMap(rs.Troops.Limits)
	if rs.Mercenaries != nil {
		for id, n := range rs.Mercenaries.Limits {
			if _, ok := troopLimits[id]; !ok {
				troopLimits[id] = n
			}
		}
	}
	for _, id := range sortedKeys(troopLimits) {
		n := troopLimits[id]
		rules = append(rules, &Rule{
			Name:         "troop-limit-" + id,
			Priority:     500,
			Kind:         KindLimitExceeded,
			ConditionSrc: fmt.Sprintf(`TroopCount(%q) <= %d`, id, n),
			Message:      fmt.Sprintf("at most %d %s may be fielded", n, id),
		})
	}

	// --- Equipment limits (army-wide) ---

	for _, id := range sortedKeys(rs.Equipment.Limits) {
		n := rs.Equipment.Limits[id]
		rules = append(rules, &Rule{
			Name:         "equipment-limit-" + id,
			Priority:     400,
			Kind:         KindLimitExceeded,
			ConditionSrc: fmt.Sprintf(`EquipmentCount(%q) <= %d`, id, n),
			Message:      fmt.Sprintf("at most %d %s may be taken across the warband", n, id),
		})
	}

	// --- Keyword caps ---

	for _, kw := range sortedKeys(rs.Troops.Restrictions.MaxKeywordCounts) {
		n := rs.Troops.Restrictions.MaxKeywordCounts[kw]
		rules = append(rules, &Rule{
			Name:         "keyword-cap-" + strings.ToLower(kw),
			Priority:     300,
			Kind:         KindKeywordCap,
			ConditionSrc: fmt.Sprintf(`KeywordCount(%q) <= %d`, kw, n),
			Message:      fmt.Sprintf("at most %d %s models may be fielded", n, kw),
		})
	}

	// --- External equipment allowances ---

	for i, a := range rs.Equipment.ExternalAllowances {
		rules = append(rules, &Rule{
			Name:         fmt.Sprintf("external-allowance-%d", i),
			Priority:     200,
			Kind:         KindExternalAllowance,
			ConditionSrc: fmt.Sprintf(`AllowanceCount(%d) <= %d`, i, a.MaxCount),
			Message:      fmt.Sprintf("at most %d items may be taken from %s", a.MaxCount, a.SourceFactionID),
		})
	}

	return rules
}

// customRule wraps an authored check.
func customRule(c model.CustomCheck) *Rule {
	severity := SeverityError
	if c.Warning {
		severity = SeverityWarning
	}
	msg := c.Message
	if msg == "" {
		msg = fmt.Sprintf("custom check %s failed", c.Name)
	}
	return &Rule{
		Name:         "custom-" + c.Name,
		Priority:     100,
		Kind:         KindCustomCheck,
		Severity:     severity,
		ConditionSrc: c.Condition,
		Message:      msg,
	}
}

// requirementSelectors renders a requirement as quoted Count() arguments.
func requirementSelectors(req model.Requirement) string {
	var parts []string
	for _, id := range req.TroopIDs {
		parts = append(parts, fmt.Sprintf("%q", "troop:"+id))
	}
	for _, kw := range req.Keywords {
		parts = append(parts, fmt.Sprintf("%q", "keyword:"+kw))
	}
	return strings.Join(parts, ", ")
}

func describeRequirement(req model.Requirement) string {
	var parts []string
	parts = append(parts, req.TroopIDs...)
	parts = append(parts, req.Keywords...)
	return strings.Join(parts, " or ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
