package model

import "testing"

func TestHandednessHands(t *testing.T) {
	tests := []struct {
		h    Handedness
		want int
	}{
		{OneHanded, 1},
		{OneHandRequired, 1},
		{TwoHanded, 2},
		{NoHands, 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := tt.h.Hands(); got != tt.want {
			t.Errorf("%q.Hands() = %d, want %d", tt.h, got, tt.want)
		}
	}
}

func TestEquipmentRoles(t *testing.T) {
	if !(Equipment{Category: CategoryShield}).IsShield() {
		t.Error("shield category should be a shield")
	}
	if !(Equipment{Category: CategoryMelee, Role: RoleShield}).IsShield() {
		t.Error("shield role should be a shield")
	}
	if (Equipment{Name: "Bayonet Charge Banner"}).IsBayonet() {
		t.Error("bayonet detection must not rely on the name")
	}
	if !(Equipment{Role: RoleBayonet}).IsBayonet() {
		t.Error("bayonet role should be a bayonet")
	}
}

func TestModelCostBoundExempts(t *testing.T) {
	b := ModelCostBound{Amount: 10, ExceptTroopIDs: []string{"yeoman"}, ExceptKeywords: []string{"ARTILLERY"}}
	if !b.Exempts(Troop{ID: "yeoman"}) {
		t.Error("yeoman should be exempt by id")
	}
	if !b.Exempts(Troop{ID: "cannon", Keywords: []string{"artillery"}}) {
		t.Error("artillery should be exempt by keyword")
	}
	if b.Exempts(Troop{ID: "infantryman"}) {
		t.Error("infantryman should not be exempt")
	}
	if b.CurrencyOrDefault() != CurrencyDucats {
		t.Errorf("CurrencyOrDefault() = %s, want ducats", b.CurrencyOrDefault())
	}
}

func TestRequirementForbids(t *testing.T) {
	zero, one := 0, 1
	tests := []struct {
		name string
		req  Requirement
		want bool
	}{
		{"zero max with troops", Requirement{MaxCount: &zero, TroopIDs: []string{"X"}}, true},
		{"zero max keywords only", Requirement{MaxCount: &zero, Keywords: []string{"ELITE"}}, false},
		{"non-zero max", Requirement{MaxCount: &one, TroopIDs: []string{"X"}}, false},
		{"no max", Requirement{TroopIDs: []string{"X"}}, false},
	}
	for _, tt := range tests {
		if got := tt.req.Forbids(); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTroopRulesCloneDefaults(t *testing.T) {
	c := TroopRules{}.Clone()
	if c.Costs == nil || c.Limits == nil || c.Availability == nil || c.Abilities == nil {
		t.Error("cloned maps should be non-nil")
	}
	if c.Restrictions.Requirements == nil || c.Restrictions.MaxKeywordCounts == nil {
		t.Error("cloned restrictions should be non-nil")
	}
	if c.MinModelCost != nil || c.MaxModelCost != nil {
		t.Error("absent bounds should stay nil")
	}
}

func TestConditionSetCloneFoldsEmptyClauses(t *testing.T) {
	cs := ConditionSet{Or: []Condition{}, And: []Condition{}}.Clone()
	if cs.Or != nil || cs.And != nil {
		t.Errorf("got %+v, want nil clauses", cs)
	}
	cs = ConditionSet{And: []Condition{{Keywords: []string{"ELITE"}}}}.Clone()
	if len(cs.And) != 1 || cs.Or != nil {
		t.Errorf("got %+v, want one and clause", cs)
	}
}
