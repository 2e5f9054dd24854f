package model

import (
	"slices"
	"strings"
)

// Category is the broad equipment slot an item belongs to.
type Category string

const (
	CategoryMelee     Category = "melee"
	CategoryRanged    Category = "ranged"
	CategoryArmour    Category = "armour"
	CategoryShield    Category = "shield"
	CategoryHeadgear  Category = "headgear"
	CategoryGrenade   Category = "grenade"
	CategoryEquipment Category = "equipment"
)

// Handedness describes how many hands an item occupies when carried.
type Handedness string

const (
	OneHanded       Handedness = "one-handed"
	TwoHanded       Handedness = "two-handed"
	OneHandRequired Handedness = "one-hand-required" // e.g. a shield strapped to the off hand
	NoHands         Handedness = "no-hands"
)

// Hands returns the number of hands the item occupies on its own.
func (h Handedness) Hands() int {
	switch h {
	case OneHanded, OneHandRequired:
		return 1
	case TwoHanded:
		return 2
	}
	return 0
}

// Role marks items with special combination behaviour. It is set when the
// catalog is authored so nothing has to be inferred from display names.
type Role string

const (
	RoleNone    Role = ""
	RoleBayonet Role = "bayonet"
	RoleShield  Role = "shield"
)

// Equipment is a catalog item a troop may carry.
type Equipment struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Category   Category   `json:"category" yaml:"category"`
	Handedness Handedness `json:"handedness" yaml:"handedness"`
	Keywords   []string   `json:"keywords,omitempty" yaml:"keywords"`
	Rules      []string   `json:"rules,omitempty" yaml:"rules"`
	Role       Role       `json:"role,omitempty" yaml:"role"`
	// BayonetLug lets a co-equipped bayonet attach without using a hand.
	BayonetLug bool `json:"bayonetLug,omitempty" yaml:"bayonetLug"`
	// ShieldCombo lets a co-equipped shield be carried without using a hand.
	ShieldCombo bool `json:"shieldCombo,omitempty" yaml:"shieldCombo"`
}

// HasKeyword reports whether the item carries kw (case-insensitive).
func (e Equipment) HasKeyword(kw string) bool {
	return hasKeyword(e.Keywords, kw)
}

// IsShield reports whether the item is a shield, either by category or role.
func (e Equipment) IsShield() bool {
	return e.Category == CategoryShield || e.Role == RoleShield
}

// IsBayonet reports whether the item attaches to a lugged weapon.
func (e Equipment) IsBayonet() bool {
	return e.Role == RoleBayonet
}

// DisplayName falls back to the id when no name was authored.
func (e Equipment) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// Stats are the base characteristics of a troop template.
type Stats struct {
	Movement    string `json:"movement,omitempty" yaml:"movement"`
	RangedSkill int    `json:"rangedSkill,omitempty" yaml:"rangedSkill"`
	MeleeSkill  int    `json:"meleeSkill,omitempty" yaml:"meleeSkill"`
	Armour      int    `json:"armour,omitempty" yaml:"armour"`
	Base        string `json:"base,omitempty" yaml:"base"`
}

// Troop is an immutable template from which army units are built.
type Troop struct {
	ID        string   `json:"id" yaml:"id"`
	FactionID string   `json:"factionId" yaml:"factionId"`
	Name      string   `json:"name" yaml:"name"`
	Keywords  []string `json:"keywords,omitempty" yaml:"keywords"`
	Stats     Stats    `json:"stats" yaml:"stats"`
	// Equipment lists items the troop always carries for free.
	Equipment []string `json:"equipment,omitempty" yaml:"equipment"`
}

// HasKeyword reports whether the troop carries kw (case-insensitive).
func (t Troop) HasKeyword(kw string) bool {
	return hasKeyword(t.Keywords, kw)
}

// DisplayName falls back to the id when no name was authored.
func (t Troop) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

// Faction is a top-level playable army with its base rule fragment.
type Faction struct {
	ID           string          `json:"id" yaml:"id"`
	Name         string          `json:"name" yaml:"name"`
	SpecialRules []string        `json:"specialRules,omitempty" yaml:"specialRules"`
	Equipment    EquipmentRules  `json:"equipment" yaml:"equipment"`
	Troops       TroopRules      `json:"troops" yaml:"troops"`
	Mercenaries  *MercenaryRules `json:"mercenaries,omitempty" yaml:"mercenaries"`
	// SpecialValidations are army-wide checks the faction always enforces.
	SpecialValidations *SpecialValidations `json:"specialValidations,omitempty" yaml:"specialValidations"`
}

// Variant is a warband variant: a themed overlay on one faction's rules.
// Every fragment field is optional; absent fields leave the faction's rules
// untouched.
type Variant struct {
	ID                 string              `json:"id" yaml:"id"`
	FactionID          string              `json:"factionId" yaml:"factionId"`
	Name               string              `json:"name" yaml:"name"`
	SpecialRules       []string            `json:"specialRules,omitempty" yaml:"specialRules"`
	Equipment          *EquipmentRules     `json:"equipment,omitempty" yaml:"equipment"`
	Troops             *TroopRules         `json:"troops,omitempty" yaml:"troops"`
	Mercenaries        *MercenaryRules     `json:"mercenaries,omitempty" yaml:"mercenaries"`
	SpecialValidations *SpecialValidations `json:"specialValidations,omitempty" yaml:"specialValidations"`
}

func hasKeyword(keywords []string, kw string) bool {
	return slices.ContainsFunc(keywords, func(s string) bool {
		return strings.EqualFold(s, kw)
	})
}
