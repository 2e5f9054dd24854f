package rules

import (
	"strings"

	"github.com/nstehr/muster/muster-core/model"
)

// Satisfies reports whether troop may take an item gated by cs.
//
// An empty set is unrestricted. When cs has both And and Or, And wins and Or
// is ignored. A nil troop satisfies nothing but the empty set.
func Satisfies(troop *model.Troop, cs model.ConditionSet) bool {
	if cs.Empty() {
		return true
	}
	if troop == nil {
		return false
	}
	if len(cs.And) > 0 {
		for _, c := range cs.And {
			if !conditionHolds(troop, c) {
				return false
			}
		}
		return true
	}
	for _, c := range cs.Or {
		if conditionHolds(troop, c) {
			return true
		}
	}
	return false
}

// conditionHolds checks every non-empty sub-clause of c.
func conditionHolds(troop *model.Troop, c model.Condition) bool {
	if len(c.TroopIDs) > 0 && !containsFold(c.TroopIDs, troop.ID) {
		return false
	}
	for _, kw := range c.Keywords {
		if !troop.HasKeyword(kw) {
			return false
		}
	}
	for _, kw := range c.BannedKeywords {
		if troop.HasKeyword(kw) {
			return false
		}
	}
	return true
}

// describeConditions renders a condition set for finding messages.
func describeConditions(cs model.ConditionSet) string {
	list, joiner := cs.Or, " or "
	if len(cs.And) > 0 {
		list, joiner = cs.And, " and "
	}
	parts := make([]string, 0, len(list))
	for _, c := range list {
		var clause []string
		if len(c.TroopIDs) > 0 {
			clause = append(clause, "troop in ["+strings.Join(c.TroopIDs, ", ")+"]")
		}
		if len(c.Keywords) > 0 {
			clause = append(clause, "keywords "+strings.Join(c.Keywords, "+"))
		}
		if len(c.BannedKeywords) > 0 {
			clause = append(clause, "not "+strings.Join(c.BannedKeywords, "/"))
		}
		if len(clause) == 0 {
			continue
		}
		parts = append(parts, strings.Join(clause, ", "))
	}
	return strings.Join(parts, joiner)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
