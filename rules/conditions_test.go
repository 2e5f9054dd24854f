package rules

import (
	"testing"

	"github.com/nstehr/muster/muster-core/model"
)

func TestSatisfies(t *testing.T) {
	elite := &model.Troop{ID: "sniper", Keywords: []string{"ELITE"}}
	plain := &model.Troop{ID: "X", Keywords: []string{}}

	tests := []struct {
		name  string
		troop *model.Troop
		cs    model.ConditionSet
		want  bool
	}{
		{"empty set", plain, model.ConditionSet{}, true},
		{"empty set nil troop", nil, model.ConditionSet{}, true},
		{"and keyword present", elite, model.ConditionSet{And: []model.Condition{{Keywords: []string{"ELITE"}}}}, true},
		{"and keyword missing", plain, model.ConditionSet{And: []model.Condition{{Keywords: []string{"ELITE"}}}}, false},
		{"and keyword case-insensitive", elite, model.ConditionSet{And: []model.Condition{{Keywords: []string{"elite"}}}}, true},
		{"or troop id matches regardless of keywords", plain,
			model.ConditionSet{Or: []model.Condition{{TroopIDs: []string{"X"}}, {Keywords: []string{"ELITE"}}}}, true},
		{"or keyword alternative", elite,
			model.ConditionSet{Or: []model.Condition{{TroopIDs: []string{"X"}}, {Keywords: []string{"ELITE"}}}}, true},
		{"or none match", &model.Troop{ID: "Y"},
			model.ConditionSet{Or: []model.Condition{{TroopIDs: []string{"X"}}, {Keywords: []string{"ELITE"}}}}, false},
		{"banned keyword", elite, model.ConditionSet{And: []model.Condition{{BannedKeywords: []string{"ELITE"}}}}, false},
		{"banned keyword absent", plain, model.ConditionSet{And: []model.Condition{{BannedKeywords: []string{"ELITE"}}}}, true},
		{"and over or", plain, model.ConditionSet{
			Or:  []model.Condition{{TroopIDs: []string{"X"}}},
			And: []model.Condition{{Keywords: []string{"ELITE"}}},
		}, false},
		{"empty troop list ignored", elite, model.ConditionSet{And: []model.Condition{{TroopIDs: []string{}, Keywords: []string{"ELITE"}}}}, true},
		{"nil troop with clauses", nil, model.ConditionSet{Or: []model.Condition{{Keywords: []string{"ELITE"}}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Satisfies(tt.troop, tt.cs); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDescribeConditions(t *testing.T) {
	cs := model.ConditionSet{Or: []model.Condition{
		{TroopIDs: []string{"captain", "sergeant"}},
		{Keywords: []string{"ELITE"}, BannedKeywords: []string{"MERCENARY"}},
	}}
	want := "troop in [captain, sergeant] or keywords ELITE, not MERCENARY"
	if got := describeConditions(cs); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
