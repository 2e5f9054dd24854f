// Package catalog holds the authored army data: factions, warband variants,
// troops and equipment, indexed by id.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nstehr/muster/muster-core/model"
)

var (
	ErrUnknownFaction = errors.New("unknown faction")
	ErrUnknownVariant = errors.New("unknown warband variant")
)

// Catalog is a read-only set of authored fragments. It is built once and
// shared; callers must not mutate the values it returns.
type Catalog struct {
	factions  map[string]model.Faction
	variants  map[string]model.Variant
	troops    map[string]model.Troop
	equipment map[string]model.Equipment
}

// New indexes the given entities. Later duplicates replace earlier ones.
func New(factions []model.Faction, variants []model.Variant, troops []model.Troop, equipment []model.Equipment) *Catalog {
	c := &Catalog{
		factions:  make(map[string]model.Faction, len(factions)),
		variants:  make(map[string]model.Variant, len(variants)),
		troops:    make(map[string]model.Troop, len(troops)),
		equipment: make(map[string]model.Equipment, len(equipment)),
	}
	for _, f := range factions {
		c.factions[f.ID] = f
	}
	for _, v := range variants {
		c.variants[v.ID] = v
	}
	for _, t := range troops {
		c.troops[t.ID] = t
	}
	for _, e := range equipment {
		c.equipment[e.ID] = e
	}
	return c
}

func (c *Catalog) Faction(id string) (model.Faction, bool) {
	f, ok := c.factions[id]
	return f, ok
}

func (c *Catalog) Variant(id string) (model.Variant, bool) {
	v, ok := c.variants[id]
	return v, ok
}

func (c *Catalog) Troop(id string) (model.Troop, bool) {
	t, ok := c.troops[id]
	return t, ok
}

func (c *Catalog) Equipment(id string) (model.Equipment, bool) {
	e, ok := c.equipment[id]
	return e, ok
}

// Factions lists every faction sorted by id.
func (c *Catalog) Factions() []model.Faction {
	out := make([]model.Faction, 0, len(c.factions))
	for _, f := range c.factions {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Variants lists the warband variants of one faction sorted by id.
func (c *Catalog) Variants(factionID string) []model.Variant {
	var out []model.Variant
	for _, v := range c.variants {
		if v.FactionID == factionID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Troops lists the troops belonging to one faction sorted by id.
func (c *Catalog) Troops(factionID string) []model.Troop {
	var out []model.Troop
	for _, t := range c.troops {
		if t.FactionID == factionID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Resolve returns the fragments to compile for a faction and an optional
// variant. An empty variantID means the base faction.
func (c *Catalog) Resolve(factionID, variantID string) (*model.Faction, *model.Variant, error) {
	f, ok := c.factions[factionID]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownFaction, factionID)
	}
	if variantID == "" {
		return &f, nil, nil
	}
	v, ok := c.variants[variantID]
	if !ok || v.FactionID != factionID {
		return nil, nil, fmt.Errorf("%w: %s for faction %s", ErrUnknownVariant, variantID, factionID)
	}
	return &f, &v, nil
}
