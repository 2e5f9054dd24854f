package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/nstehr/muster/muster-core/model"
)

// Catalog files live in one directory per entity kind. Each .yaml file holds
// a list of entities.
const (
	factionsDir  = "factions"
	variantsDir  = "variants"
	troopsDir    = "troops"
	equipmentDir = "equipment"
)

// LoadFS reads a catalog from fsys. Malformed entities are errors; dangling
// references between entities are logged and returned as warnings.
func LoadFS(fsys fs.FS) (*Catalog, []Warning, error) {
	factions, err := loadDir[model.Faction](fsys, factionsDir, validateFaction)
	if err != nil {
		return nil, nil, err
	}
	variants, err := loadDir[model.Variant](fsys, variantsDir, validateVariant)
	if err != nil {
		return nil, nil, err
	}
	troops, err := loadDir[model.Troop](fsys, troopsDir, validateTroop)
	if err != nil {
		return nil, nil, err
	}
	equipment, err := loadDir[model.Equipment](fsys, equipmentDir, validateEquipment)
	if err != nil {
		return nil, nil, err
	}

	c := New(factions, variants, troops, equipment)
	warnings := Check(c)
	for _, w := range warnings {
		slog.Warn("catalog reference", "kind", w.Kind, "owner", w.Owner, "id", w.ID, "message", w.Message)
	}
	slog.Info("catalog loaded",
		"factions", len(factions),
		"variants", len(variants),
		"troops", len(troops),
		"equipment", len(equipment),
		"warnings", len(warnings),
	)
	return c, warnings, nil
}

func loadDir[T any](fsys fs.FS, dir string, validate func(*T) error) ([]T, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}
	out := []T{}
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var items []T
		if err := yaml.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		for i := range items {
			if err := validate(&items[i]); err != nil {
				return nil, fmt.Errorf("%s entry %d: %w", name, i, err)
			}
		}
		out = append(out, items...)
	}
	return out, nil
}

func validateFaction(f *model.Faction) error {
	var errs []error
	if f.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	errs = append(errs, validateEquipmentRules(&f.Equipment)...)
	errs = append(errs, validateTroopRules(&f.Troops)...)
	errs = append(errs, validateMercenaries(f.Mercenaries)...)
	if len(errs) > 0 {
		return fmt.Errorf("faction %q: %w", f.ID, errors.Join(errs...))
	}
	return nil
}

func validateVariant(v *model.Variant) error {
	var errs []error
	if v.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if v.FactionID == "" {
		errs = append(errs, errors.New("factionId must not be empty"))
	}
	if v.Equipment != nil {
		errs = append(errs, validateEquipmentRules(v.Equipment)...)
	}
	if v.Troops != nil {
		errs = append(errs, validateTroopRules(v.Troops)...)
	}
	errs = append(errs, validateMercenaries(v.Mercenaries)...)
	if len(errs) > 0 {
		return fmt.Errorf("variant %q: %w", v.ID, errors.Join(errs...))
	}
	return nil
}

func validateTroop(t *model.Troop) error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if t.FactionID == "" {
		errs = append(errs, errors.New("factionId must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("troop %q: %w", t.ID, errors.Join(errs...))
	}
	return nil
}

var validCategories = map[model.Category]struct{}{
	model.CategoryMelee:     {},
	model.CategoryRanged:    {},
	model.CategoryArmour:    {},
	model.CategoryShield:    {},
	model.CategoryHeadgear:  {},
	model.CategoryGrenade:   {},
	model.CategoryEquipment: {},
}

var validHandedness = map[model.Handedness]struct{}{
	"":                    {},
	model.OneHanded:       {},
	model.TwoHanded:       {},
	model.OneHandRequired: {},
	model.NoHands:         {},
}

func validateEquipment(e *model.Equipment) error {
	var errs []error
	if e.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if _, ok := validCategories[e.Category]; !ok {
		errs = append(errs, fmt.Errorf("category %q is not valid", e.Category))
	}
	if _, ok := validHandedness[e.Handedness]; !ok {
		errs = append(errs, fmt.Errorf("handedness %q is not valid", e.Handedness))
	}
	switch e.Role {
	case model.RoleNone, model.RoleBayonet, model.RoleShield:
	default:
		errs = append(errs, fmt.Errorf("role %q is not valid", e.Role))
	}
	if len(errs) > 0 {
		return fmt.Errorf("equipment %q: %w", e.ID, errors.Join(errs...))
	}
	return nil
}

func validateEquipmentRules(r *model.EquipmentRules) []error {
	var errs []error
	errs = append(errs, validateCosts("equipment.costs", r.Costs)...)
	errs = append(errs, validateLimits("equipment.limits", r.Limits)...)
	for _, a := range r.ExternalAllowances {
		if a.SourceFactionID == "" {
			errs = append(errs, errors.New("external allowance needs a sourceFactionId"))
		}
		if a.MaxCount < 0 {
			errs = append(errs, fmt.Errorf("external allowance from %s: maxCount must be >= 0", a.SourceFactionID))
		}
	}
	errs = append(errs, validateMercenaries(r.MercenaryRules)...)
	return errs
}

func validateTroopRules(r *model.TroopRules) []error {
	var errs []error
	errs = append(errs, validateCosts("troops.costs", r.Costs)...)
	errs = append(errs, validateLimits("troops.limits", r.Limits)...)
	for i, req := range r.Restrictions.Requirements {
		if len(req.TroopIDs) == 0 && len(req.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("requirement %d names no troops or keywords", i))
		}
		if req.MinCount != nil && req.MaxCount != nil && *req.MinCount > *req.MaxCount {
			errs = append(errs, fmt.Errorf("requirement %d: minCount exceeds maxCount", i))
		}
	}
	for _, b := range []*model.ModelCostBound{r.MinModelCost, r.MaxModelCost} {
		if b != nil && b.Currency != "" && !b.Currency.Valid() {
			errs = append(errs, fmt.Errorf("model cost bound: unknown currency %q", b.Currency))
		}
	}
	return errs
}

func validateMercenaries(m *model.MercenaryRules) []error {
	if m == nil {
		return nil
	}
	var errs []error
	errs = append(errs, validateCosts("mercenaries.costs", m.Costs)...)
	errs = append(errs, validateLimits("mercenaries.limits", m.Limits)...)
	return errs
}

func validateCosts(field string, costs map[string]model.Cost) []error {
	var errs []error
	for id, c := range costs {
		for cur, amount := range c {
			if !cur.Valid() {
				errs = append(errs, fmt.Errorf("%s[%s]: unknown currency %q", field, id, cur))
			}
			if amount < 0 {
				errs = append(errs, fmt.Errorf("%s[%s]: negative amount", field, id))
			}
		}
	}
	return errs
}

func validateLimits(field string, limits map[string]int) []error {
	var errs []error
	for id, n := range limits {
		if n < 0 {
			errs = append(errs, fmt.Errorf("%s[%s]: limit must be >= 0", field, id))
		}
	}
	return errs
}
