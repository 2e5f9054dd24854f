package model

// Clone helpers always return non-nil values so a cloned fragment is in its
// fully-defaulted form. None of them share backing storage with the input.

func CloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func CloneCostMap(in map[string]Cost) map[string]Cost {
	out := make(map[string]Cost, len(in))
	for id, c := range in {
		out[id] = c.Clone()
	}
	return out
}

func CloneIntMap(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func CloneBoolMap(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func CloneStringsMap(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = CloneStrings(v)
	}
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Clone returns a deep copy of the condition.
func (c Condition) Clone() Condition {
	return Condition{
		TroopIDs:       CloneStrings(c.TroopIDs),
		Keywords:       CloneStrings(c.Keywords),
		BannedKeywords: CloneStrings(c.BannedKeywords),
	}
}

// cloneConditions folds an empty list to nil; both mean "no clause".
func cloneConditions(in []Condition) []Condition {
	if len(in) == 0 {
		return nil
	}
	out := make([]Condition, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

// Clone returns a deep copy of the condition set.
func (cs ConditionSet) Clone() ConditionSet {
	return ConditionSet{Or: cloneConditions(cs.Or), And: cloneConditions(cs.And)}
}

func CloneConditionSets(in map[string]ConditionSet) map[string]ConditionSet {
	out := make(map[string]ConditionSet, len(in))
	for id, cs := range in {
		out[id] = cs.Clone()
	}
	return out
}

// Clone returns a deep copy of the restrictions.
func (g GlobalRestrictions) Clone() GlobalRestrictions {
	return GlobalRestrictions{
		BannedEquipmentIDs: CloneStrings(g.BannedEquipmentIDs),
		BannedKeywords:     CloneStrings(g.BannedKeywords),
		BannedCategories:   CloneStrings(g.BannedCategories),
	}
}

// Clone returns a deep copy of the allowance.
func (a ExternalAllowance) Clone() ExternalAllowance {
	cats := make([]Category, len(a.Categories))
	copy(cats, a.Categories)
	return ExternalAllowance{
		SourceFactionID: a.SourceFactionID,
		MaxCount:        a.MaxCount,
		Categories:      cats,
		Keywords:        CloneStrings(a.Keywords),
	}
}

func CloneAllowances(in []ExternalAllowance) []ExternalAllowance {
	out := make([]ExternalAllowance, len(in))
	for i, a := range in {
		out[i] = a.Clone()
	}
	return out
}

// Clone returns a deep copy; nil stays nil.
func (m *MercenaryRules) Clone() *MercenaryRules {
	if m == nil {
		return nil
	}
	return &MercenaryRules{Costs: CloneCostMap(m.Costs), Limits: CloneIntMap(m.Limits)}
}

// Clone returns a deep copy of the requirement.
func (r Requirement) Clone() Requirement {
	return Requirement{
		MinCount:    cloneInt(r.MinCount),
		MaxCount:    cloneInt(r.MaxCount),
		TroopIDs:    CloneStrings(r.TroopIDs),
		Keywords:    CloneStrings(r.Keywords),
		Description: r.Description,
	}
}

func CloneRequirements(in []Requirement) []Requirement {
	out := make([]Requirement, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

// Clone returns a deep copy; nil stays nil.
func (b *ModelCostBound) Clone() *ModelCostBound {
	if b == nil {
		return nil
	}
	return &ModelCostBound{
		Amount:         b.Amount,
		Currency:       b.Currency,
		ExceptTroopIDs: CloneStrings(b.ExceptTroopIDs),
		ExceptKeywords: CloneStrings(b.ExceptKeywords),
	}
}

// Clone returns a deep copy; nil stays nil.
func (s *SpecialValidations) Clone() *SpecialValidations {
	if s == nil {
		return nil
	}
	checks := make([]CustomCheck, len(s.Checks))
	copy(checks, s.Checks)
	return &SpecialValidations{EnforcedPatronID: s.EnforcedPatronID, Checks: checks}
}

// Clone returns a fully-defaulted deep copy of the equipment rules.
func (e EquipmentRules) Clone() EquipmentRules {
	return EquipmentRules{
		Costs:              CloneCostMap(e.Costs),
		Limits:             CloneIntMap(e.Limits),
		TroopRestrictions:  CloneConditionSets(e.TroopRestrictions),
		GlobalRestrictions: e.GlobalRestrictions.Clone(),
		ExternalAllowances: CloneAllowances(e.ExternalAllowances),
		MercenaryRules:     e.MercenaryRules.Clone(),
	}
}

// Clone returns a fully-defaulted deep copy of the troop rules.
func (t TroopRules) Clone() TroopRules {
	return TroopRules{
		Costs:        CloneCostMap(t.Costs),
		Limits:       CloneIntMap(t.Limits),
		Availability: CloneBoolMap(t.Availability),
		Restrictions: TroopRestrictions{
			Requirements:     CloneRequirements(t.Restrictions.Requirements),
			MaxKeywordCounts: CloneIntMap(t.Restrictions.MaxKeywordCounts),
		},
		MinModelCost: t.MinModelCost.Clone(),
		MaxModelCost: t.MaxModelCost.Clone(),
		Abilities:    CloneStringsMap(t.Abilities),
	}
}
