package rules

import (
	"testing"

	"github.com/nstehr/muster/muster-core/model"
)

type mapLookup struct {
	troops    map[string]model.Troop
	equipment map[string]model.Equipment
	factions  map[string]model.Faction
}

func (l mapLookup) Troop(id string) (model.Troop, bool) {
	t, ok := l.troops[id]
	return t, ok
}

func (l mapLookup) Equipment(id string) (model.Equipment, bool) {
	e, ok := l.equipment[id]
	return e, ok
}

func (l mapLookup) Faction(id string) (model.Faction, bool) {
	f, ok := l.factions[id]
	return f, ok
}

func testLookup() mapLookup {
	l := mapLookup{
		troops: map[string]model.Troop{
			"captain":      {ID: "captain", Name: "Captain", Keywords: []string{"ELITE"}, Equipment: []string{"pistol"}},
			"infantryman":  {ID: "infantryman", Name: "Infantryman"},
			"priest":       {ID: "priest", Name: "Priest", Keywords: []string{"ELITE"}},
			"hedge-knight": {ID: "hedge-knight", Name: "Hedge Knight", Keywords: []string{"MERCENARY"}},
		},
		equipment: map[string]model.Equipment{},
		factions: map[string]model.Faction{
			"mercantile": {ID: "mercantile", Equipment: model.EquipmentRules{
				Costs: map[string]model.Cost{"frag": {model.CurrencyDucats: 8}},
			}},
		},
	}
	for _, eq := range []model.Equipment{rifle, pistol, bayonet, sword, frag, armour, maul} {
		l.equipment[eq.ID] = eq
	}
	return l
}

func rosterRules() *CompiledRuleSet {
	f := &model.Faction{
		ID: "principality",
		Equipment: model.EquipmentRules{
			Costs: map[string]model.Cost{
				"rifle":   {model.CurrencyDucats: 10},
				"pistol":  {model.CurrencyDucats: 6},
				"bayonet": {model.CurrencyDucats: 2},
				"sword":   {model.CurrencyDucats: 5},
				"armour":  {model.CurrencyDucats: 15},
			},
			Limits:             map[string]int{"sword": 1},
			ExternalAllowances: []model.ExternalAllowance{{SourceFactionID: "mercantile", MaxCount: 1, Categories: []model.Category{model.CategoryGrenade}}},
			MercenaryRules:     &model.MercenaryRules{Costs: map[string]model.Cost{"rifle": {model.CurrencyDucats: 14}}},
		},
		Troops: model.TroopRules{
			Costs: map[string]model.Cost{
				"captain":     {model.CurrencyDucats: 60},
				"infantryman": {model.CurrencyDucats: 30},
				"priest":      {model.CurrencyDucats: 50, model.CurrencyGlory: 1},
			},
			Limits: map[string]int{"captain": 1},
			Restrictions: model.TroopRestrictions{
				Requirements: []model.Requirement{
					{MinCount: intPtr(1), MaxCount: intPtr(1), TroopIDs: []string{"captain"}, Description: "one captain"},
				},
				MaxKeywordCounts: map[string]int{"ELITE": 2},
			},
			MaxModelCost: &model.ModelCostBound{Amount: 75, ExceptKeywords: []string{"MERCENARY"}},
		},
		Mercenaries: &model.MercenaryRules{
			Costs:  map[string]model.Cost{"hedge-knight": {model.CurrencyDucats: 90}},
			Limits: map[string]int{"hedge-knight": 1},
		},
	}
	return Compile(f, nil)
}

func TestValidateRosterValid(t *testing.T) {
	r := Roster{FactionID: "principality", Units: []Unit{
		{ID: "cpt", TroopID: "captain", Equipment: []string{"pistol", "sword"}},
		{TroopID: "infantryman", Equipment: []string{"rifle", "bayonet"}},
		{TroopID: "hedge-knight", Equipment: []string{"rifle"}},
	}}
	res := ValidateRoster(r, testLookup(), rosterRules())

	if !res.IsValid {
		t.Fatalf("errors = %+v, want none", res.Errors)
	}
	// captain 60 + sword 5 (pistol is standard issue), infantryman 30+10+2, knight 90+14.
	if got := res.Total.Amount(model.CurrencyDucats); got != 211 {
		t.Errorf("total = %d ducats, want 211", got)
	}
	if len(res.Units) != 3 {
		t.Fatalf("units = %+v, want 3", res.Units)
	}
	if res.Units[0].UnitID != "cpt" || res.Units[1].UnitID != "unit-2" {
		t.Errorf("unit ids = %s, %s", res.Units[0].UnitID, res.Units[1].UnitID)
	}
	if got := res.Units[2].Cost.Amount(model.CurrencyDucats); got != 104 {
		t.Errorf("mercenary cost = %d, want 104 (mercenary rifle price)", got)
	}
	if len(res.Notes) != 1 || res.Notes[0].Kind != KindCombo || res.Notes[0].UnitID != "unit-2" {
		t.Errorf("notes = %+v, want the bayonet combo on unit-2", res.Notes)
	}
}

func TestValidateRosterArmyRules(t *testing.T) {
	tests := []struct {
		name  string
		units []Unit
		kind  FindingKind
	}{
		{"missing captain", []Unit{{TroopID: "infantryman"}}, KindRequirement},
		{"two captains", []Unit{{TroopID: "captain"}, {TroopID: "captain"}}, KindLimitExceeded},
		{"army-wide sword limit", []Unit{
			{TroopID: "captain", Equipment: []string{"sword"}},
			{TroopID: "infantryman", Equipment: []string{"sword"}},
		}, KindLimitExceeded},
		{"keyword cap", []Unit{{TroopID: "captain"}, {TroopID: "priest"}, {TroopID: "priest"}}, KindKeywordCap},
		{"mercenary limit", []Unit{{TroopID: "captain"}, {TroopID: "hedge-knight"}, {TroopID: "hedge-knight"}}, KindLimitExceeded},
		{"external allowance", []Unit{
			{TroopID: "captain", Equipment: []string{"frag"}},
			{TroopID: "infantryman", Equipment: []string{"frag"}},
		}, KindExternalAllowance},
		{"model cost ceiling", []Unit{
			{TroopID: "captain", Equipment: []string{"sword", "armour"}},
		}, KindModelCost},
		{"unknown troop", []Unit{{TroopID: "captain"}, {TroopID: "ghost"}}, KindUnknownTroop},
		{"unknown equipment", []Unit{{TroopID: "captain", Equipment: []string{"lance"}}}, KindUnknownEquipment},
		{"equipment not offered", []Unit{{TroopID: "captain", Equipment: []string{"maul"}}}, KindEquipmentNotOffered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateRoster(Roster{Units: tt.units}, testLookup(), rosterRules())
			if res.IsValid {
				t.Error("IsValid = true, want false")
			}
			if !hasErrorKind(res.ValidationResult, tt.kind) {
				t.Errorf("errors = %+v, want %s", res.Errors, tt.kind)
			}
		})
	}
}

func TestValidateRosterBorrowedEquipmentIsPriced(t *testing.T) {
	r := Roster{Units: []Unit{{TroopID: "captain", Equipment: []string{"frag"}}}}
	res := ValidateRoster(r, testLookup(), rosterRules())
	if !res.IsValid {
		t.Fatalf("errors = %+v", res.Errors)
	}
	if got := res.Total.Amount(model.CurrencyDucats); got != 68 {
		t.Errorf("total = %d, want 68", got)
	}
}

func TestValidateRosterPatronAndCustomChecks(t *testing.T) {
	rs := rosterRules()
	rs.SpecialValidations = &model.SpecialValidations{
		EnforcedPatronID: "saint-ursula",
		Checks: []model.CustomCheck{
			{Name: "small-warband", Condition: `UnitCount() <= 1`, Message: "no more than one model", Warning: true},
			{Name: "broken", Condition: `UnitCount(`},
		},
	}
	r := Roster{PatronID: "black-grail", Units: []Unit{{TroopID: "captain"}, {TroopID: "infantryman"}}}
	res := ValidateRoster(r, testLookup(), rs)

	if !hasErrorKind(res.ValidationResult, KindPatron) {
		t.Errorf("errors = %+v, want patron", res.Errors)
	}
	if !hasWarningKind(res.ValidationResult, KindCustomCheck) {
		t.Errorf("warnings = %+v, want custom_check", res.Warnings)
	}
	if !hasWarningKind(res.ValidationResult, KindRuleError) {
		t.Errorf("warnings = %+v, want rule_error for the broken check", res.Warnings)
	}

	r.PatronID = "saint-ursula"
	r.Units = r.Units[:1]
	res = ValidateRoster(r, testLookup(), rs)
	if res.HasKind(KindPatron) || res.HasKind(KindCustomCheck) {
		t.Errorf("unexpected findings: errors %+v warnings %+v", res.Errors, res.Warnings)
	}
}

func TestUnitCost(t *testing.T) {
	rs := rosterRules()
	l := testLookup()

	tests := []struct {
		name string
		unit Unit
		want int
	}{
		{"standard issue is free", Unit{TroopID: "captain", Equipment: []string{"pistol"}}, 60},
		{"bought equipment", Unit{TroopID: "infantryman", Equipment: []string{"rifle", "bayonet"}}, 42},
		{"mercenary prices", Unit{TroopID: "hedge-knight", Equipment: []string{"rifle"}}, 104},
		{"unknown troop", Unit{TroopID: "ghost"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UnitCost(tt.unit, l, rs).Amount(model.CurrencyDucats); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCostsWithNilRules(t *testing.T) {
	if got := UnitCost(Unit{TroopID: "captain"}, testLookup(), nil); !got.Free() {
		t.Errorf("UnitCost = %v, want free", got)
	}
	r := Roster{Units: []Unit{{TroopID: "captain"}, {TroopID: "ghost"}}}
	if got := RosterCost(r, testLookup(), nil); !got.Free() {
		t.Errorf("RosterCost = %v, want free", got)
	}
}

func TestValidateRosterReportsLimitOnce(t *testing.T) {
	r := Roster{Units: []Unit{{TroopID: "captain", Equipment: []string{"sword", "sword"}}}}
	res := ValidateRoster(r, testLookup(), rosterRules())

	var limits, duplicates int
	for _, f := range res.Errors {
		switch f.Kind {
		case KindLimitExceeded:
			limits++
		case KindDuplicateItem:
			duplicates++
		}
	}
	if limits != 1 || duplicates != 1 {
		t.Errorf("errors = %+v, want one limit_exceeded and one duplicate_item", res.Errors)
	}
	if res.Units[0].IsValid {
		t.Error("unit carrying a duplicate should be invalid")
	}
}

func TestRosterCostMatchesValidation(t *testing.T) {
	r := Roster{Units: []Unit{
		{TroopID: "captain", Equipment: []string{"sword", "frag"}},
		{TroopID: "priest"},
		{TroopID: "ghost"},
	}}
	rs := rosterRules()
	got := RosterCost(r, testLookup(), rs)
	want := ValidateRoster(r, testLookup(), rs).Total
	if got.String() != want.String() {
		t.Errorf("got %v, want %v", got, want)
	}
	if got.Amount(model.CurrencyDucats) != 123 || got.Amount(model.CurrencyGlory) != 1 {
		t.Errorf("got %v, want 123 ducats, 1 glory", got)
	}
}

func TestCompileRosterRules(t *testing.T) {
	rules := CompileRosterRules(rosterRules())

	names := map[string]bool{}
	for _, r := range rules {
		names[r.Name] = true
		if err := CheckCondition(r.ConditionSrc); err != nil {
			t.Errorf("rule %s: %q does not compile: %v", r.Name, r.ConditionSrc, err)
		}
	}
	for _, want := range []string{
		"requirement-0-min", "requirement-0-max",
		"troop-limit-captain", "troop-limit-hedge-knight",
		"equipment-limit-sword", "keyword-cap-elite", "external-allowance-0",
	} {
		if !names[want] {
			t.Errorf("missing rule %s", want)
		}
	}
	if names["enforced-patron"] {
		t.Error("no patron rule expected without special validations")
	}
}
