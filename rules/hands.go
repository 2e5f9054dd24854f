package rules

import (
	"strings"

	"github.com/nstehr/muster/muster-core/model"
)

// handUse is one weapon's contribution to a hand budget.
type handUse struct {
	item  model.Equipment
	hands int
}

// checkHandedness adds warnings for loadouts that need more hands than a
// model has. A bayonet fitted to a lugged weapon and a shield carried with a
// shield-combo weapon use no hands; each recognised combo adds a note.
func checkHandedness(res *ValidationResult, loadout []model.Equipment) {
	lug, hasLug := firstWith(loadout, func(e model.Equipment) bool { return e.BayonetLug })
	combo, hasCombo := firstWith(loadout, func(e model.Equipment) bool { return e.ShieldCombo })

	var melee, ranged []handUse
	for _, eq := range loadout {
		switch {
		case eq.IsBayonet() && hasLug && eq.ID != lug.ID:
			res.notef(KindCombo, []string{eq.ID, lug.ID}, "%s is attached to %s and uses no hands", eq.DisplayName(), lug.DisplayName())
		case eq.IsShield() && hasCombo && eq.ID != combo.ID:
			res.notef(KindCombo, []string{eq.ID, combo.ID}, "%s is carried with %s and uses no hands", eq.DisplayName(), combo.DisplayName())
		case eq.IsShield():
			melee = append(melee, handUse{item: eq, hands: eq.Handedness.Hands()})
		case eq.Category == model.CategoryMelee:
			melee = append(melee, handUse{item: eq, hands: eq.Handedness.Hands()})
		case eq.Category == model.CategoryRanged:
			ranged = append(ranged, handUse{item: eq, hands: eq.Handedness.Hands()})
		}
	}

	checkHandBudget(res, melee, "melee", KindMeleeHands)
	checkHandBudget(res, ranged, "ranged", KindRangedHands)
}

func checkHandBudget(res *ValidationResult, uses []handUse, label string, kind FindingKind) {
	total := 0
	var ids, names []string
	var oneHanded, twoHanded []model.Equipment
	for _, u := range uses {
		total += u.hands
		ids = append(ids, u.item.ID)
		names = append(names, u.item.DisplayName())
		if u.item.IsShield() {
			continue
		}
		switch u.item.Handedness {
		case model.OneHanded:
			oneHanded = append(oneHanded, u.item)
		case model.TwoHanded:
			twoHanded = append(twoHanded, u.item)
		}
	}

	if total > 2 {
		res.warnf(kind, ids, "%s equipment needs %d hands: %s", label, total, strings.Join(names, ", "))
	}
	if len(twoHanded) > 0 && len(oneHanded) > 0 {
		mixed := append(append([]model.Equipment{}, twoHanded...), oneHanded...)
		res.warnf(KindMixedHandedness, equipmentIDs(mixed), "two-handed %s weapon combined with a one-handed %s weapon: %s", label, label, equipmentNames(mixed))
	}
	if len(twoHanded) > 1 {
		res.warnf(KindMultipleTwoHanded, equipmentIDs(twoHanded), "more than one two-handed %s weapon: %s", label, equipmentNames(twoHanded))
	}
}

func firstWith(loadout []model.Equipment, pred func(model.Equipment) bool) (model.Equipment, bool) {
	for _, eq := range loadout {
		if pred(eq) {
			return eq, true
		}
	}
	return model.Equipment{}, false
}

func equipmentIDs(items []model.Equipment) []string {
	out := make([]string, len(items))
	for i, eq := range items {
		out[i] = eq.ID
	}
	return out
}

func equipmentNames(items []model.Equipment) string {
	names := make([]string, len(items))
	for i, eq := range items {
		names[i] = eq.DisplayName()
	}
	return strings.Join(names, ", ")
}
