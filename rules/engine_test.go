package rules

import (
	"testing"

	"github.com/nstehr/muster/muster-core/model"
)

func TestNewEngineSortsByPriority(t *testing.T) {
	e, err := NewEngine([]*Rule{
		{Name: "low", Priority: 100, ConditionSrc: "true"},
		{Name: "high", Priority: 700, ConditionSrc: "true"},
		{Name: "mid-a", Priority: 400, ConditionSrc: "true"},
		{Name: "mid-b", Priority: 400, ConditionSrc: "true"},
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	want := []string{"high", "mid-a", "mid-b", "low"}
	got := e.Rules()
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("rule %d = %s, want %s", i, got[i].Name, name)
		}
	}
}

func TestNewEngineRejectsBadCondition(t *testing.T) {
	_, err := NewEngine([]*Rule{{Name: "broken", ConditionSrc: "UnitCount() >"}})
	if err == nil {
		t.Fatal("expected a compile error")
	}
}

func TestNewEngineDoesNotMutateInput(t *testing.T) {
	in := []*Rule{{Name: "r", ConditionSrc: "true"}}
	if _, err := NewEngine(in); err != nil {
		t.Fatal(err)
	}
	if in[0].program != nil {
		t.Error("input rule should not be compiled in place")
	}
}

func TestEngineEvaluate(t *testing.T) {
	e, err := NewEngine([]*Rule{
		{Name: "needs-captain", Priority: 10, Kind: KindRequirement, ConditionSrc: `HasTroop("captain")`, Message: "a captain is required"},
		{Name: "small", Priority: 5, Kind: KindCustomCheck, Severity: SeverityWarning, ConditionSrc: `UnitCount() <= 1`, Message: "large warband"},
		{Name: "always", Priority: 1, ConditionSrc: "true"},
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	env := RosterEnv{Units: []RosterUnit{
		{Troop: model.Troop{ID: "infantryman"}},
		{Troop: model.Troop{ID: "infantryman"}},
	}}
	findings := e.Evaluate(env)
	if len(findings) != 2 {
		t.Fatalf("findings = %+v, want 2", findings)
	}
	if findings[0].Kind != KindRequirement || findings[0].Severity != SeverityError {
		t.Errorf("first finding = %+v, want requirement error", findings[0])
	}
	if findings[1].Kind != KindCustomCheck || findings[1].Severity != SeverityWarning {
		t.Errorf("second finding = %+v, want custom_check warning", findings[1])
	}

	env.Units = []RosterUnit{{Troop: model.Troop{ID: "captain"}}}
	if findings := e.Evaluate(env); len(findings) != 0 {
		t.Errorf("findings = %+v, want none", findings)
	}
}

func TestCheckCondition(t *testing.T) {
	tests := []struct {
		src     string
		wantErr bool
	}{
		{`TroopCount("captain") <= 1`, false},
		{`Count("troop:captain", "keyword:ELITE") >= 1`, false},
		{`TotalCost("ducats") <= 700`, false},
		{`Patron() == "saint-ursula" || UnitCount() == 0`, false},
		{`UnitCount()`, true},
		{`Missing()`, true},
		{`TroopCount(`, true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			err := CheckCondition(tt.src)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
