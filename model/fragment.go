package model

// Rule fragments are sparse, partially-authored rule data owned by a faction
// or a variant. A nil map or slice means "not authored"; the compiler turns
// every fragment into a fully-populated rule set.

// Condition is one clause of a ConditionSet. All non-empty sub-clauses must
// hold for the condition to be satisfied.
type Condition struct {
	TroopIDs       []string `json:"troopIds,omitempty" yaml:"troopIds"`
	Keywords       []string `json:"keywords,omitempty" yaml:"keywords"`
	BannedKeywords []string `json:"bannedKeywords,omitempty" yaml:"bannedKeywords"`
}

// ConditionSet gates which troops may take an item. When both lists are
// populated, And takes precedence and Or is ignored.
type ConditionSet struct {
	Or  []Condition `json:"or,omitempty" yaml:"or"`
	And []Condition `json:"and,omitempty" yaml:"and"`
}

// Empty reports whether the set carries no conditions at all.
func (cs ConditionSet) Empty() bool {
	return len(cs.Or) == 0 && len(cs.And) == 0
}

// GlobalRestrictions ban equipment regardless of which troop carries it.
type GlobalRestrictions struct {
	BannedEquipmentIDs []string `json:"bannedEquipmentIds" yaml:"bannedEquipmentIds"`
	BannedKeywords     []string `json:"bannedKeywords" yaml:"bannedKeywords"`
	BannedCategories   []string `json:"bannedCategories" yaml:"bannedCategories"`
}

// ExternalAllowance lets a warband borrow equipment from another faction's
// list, up to MaxCount items. Categories and Keywords narrow which items
// qualify; empty filters admit everything from the source faction.
type ExternalAllowance struct {
	SourceFactionID string     `json:"sourceFactionId" yaml:"sourceFactionId"`
	MaxCount        int        `json:"maxCount" yaml:"maxCount"`
	Categories      []Category `json:"categories,omitempty" yaml:"categories"`
	Keywords        []string   `json:"keywords,omitempty" yaml:"keywords"`
}

// MercenaryRules price and cap hireable outside troops (or the equipment
// they may buy, when attached to an equipment fragment).
type MercenaryRules struct {
	Costs  map[string]Cost `json:"costs" yaml:"costs"`
	Limits map[string]int  `json:"limits" yaml:"limits"`
}

// EquipmentRules is the equipment half of a rule fragment.
type EquipmentRules struct {
	// Costs doubles as the list of purchasable items.
	Costs              map[string]Cost         `json:"costs" yaml:"costs"`
	Limits             map[string]int          `json:"limits" yaml:"limits"`
	TroopRestrictions  map[string]ConditionSet `json:"troopRestrictions" yaml:"troopRestrictions"`
	GlobalRestrictions GlobalRestrictions      `json:"globalRestrictions" yaml:"globalRestrictions"`
	// ExternalAllowances is replaced wholesale by a variant that authors it,
	// so nil (not authored) and empty (authored as none) differ.
	ExternalAllowances []ExternalAllowance `json:"externalEquipmentAllowances" yaml:"externalEquipmentAllowances"`
	MercenaryRules     *MercenaryRules     `json:"mercenaryRules,omitempty" yaml:"mercenaryRules"`
}

// Requirement is an army-composition constraint. A unit counts toward it
// when its troop id is listed or it bears any listed keyword.
type Requirement struct {
	MinCount    *int     `json:"minCount,omitempty" yaml:"minCount"`
	MaxCount    *int     `json:"maxCount,omitempty" yaml:"maxCount"`
	TroopIDs    []string `json:"troopIds,omitempty" yaml:"troopIds"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords"`
	Description string   `json:"description,omitempty" yaml:"description"`
}

// Forbids reports whether the requirement suppresses its listed troops
// outright (an explicit maximum of zero).
func (r Requirement) Forbids() bool {
	return r.MaxCount != nil && *r.MaxCount == 0 && len(r.TroopIDs) > 0
}

// TroopRestrictions hold army-wide composition constraints.
type TroopRestrictions struct {
	Requirements     []Requirement  `json:"requirements" yaml:"requirements"`
	MaxKeywordCounts map[string]int `json:"maxKeywordCounts" yaml:"maxKeywordCounts"`
}

// ModelCostBound is a per-model cost floor or ceiling. Troops listed in
// ExceptTroopIDs or bearing any of ExceptKeywords are exempt.
type ModelCostBound struct {
	Amount         int      `json:"amount" yaml:"amount"`
	Currency       Currency `json:"currency,omitempty" yaml:"currency"`
	ExceptTroopIDs []string `json:"exceptTroopIds,omitempty" yaml:"exceptTroopIds"`
	ExceptKeywords []string `json:"exceptKeywords,omitempty" yaml:"exceptKeywords"`
}

// CurrencyOrDefault returns the bound's currency, defaulting to ducats.
func (b ModelCostBound) CurrencyOrDefault() Currency {
	if b.Currency == "" {
		return CurrencyDucats
	}
	return b.Currency
}

// Exempts reports whether the troop is excused from the bound.
func (b ModelCostBound) Exempts(t Troop) bool {
	for _, id := range b.ExceptTroopIDs {
		if id == t.ID {
			return true
		}
	}
	for _, kw := range b.ExceptKeywords {
		if t.HasKeyword(kw) {
			return true
		}
	}
	return false
}

// TroopRules is the troop half of a rule fragment.
type TroopRules struct {
	Costs  map[string]Cost `json:"costs" yaml:"costs"`
	Limits map[string]int  `json:"limits" yaml:"limits"`
	// Availability is derived by the compiler and never authored.
	Availability map[string]bool   `json:"availability" yaml:"-"`
	Restrictions TroopRestrictions `json:"restrictions" yaml:"restrictions"`
	MinModelCost *ModelCostBound   `json:"minModelCost,omitempty" yaml:"minModelCost"`
	MaxModelCost *ModelCostBound   `json:"maxModelCost,omitempty" yaml:"maxModelCost"`
	// Abilities holds free-form per-troop notes such as extra equipment grants.
	Abilities map[string][]string `json:"troopAbilities" yaml:"troopAbilities"`
}

// CustomCheck is an authored army-wide rule written as an expression over
// the roster. The roster is legal only while Condition evaluates to true.
type CustomCheck struct {
	Name      string `json:"name" yaml:"name"`
	Condition string `json:"condition" yaml:"condition"`
	Message   string `json:"message,omitempty" yaml:"message"`
	// Warning downgrades a failed check from an error to a warning.
	Warning bool `json:"warning,omitempty" yaml:"warning"`
}

// SpecialValidations are extra army-wide checks such as an enforced patron.
type SpecialValidations struct {
	EnforcedPatronID string        `json:"enforcedPatronId,omitempty" yaml:"enforcedPatronId"`
	Checks           []CustomCheck `json:"checks,omitempty" yaml:"checks"`
}
