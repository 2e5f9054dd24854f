package ipc

import (
	"github.com/nstehr/muster/muster-core/rules"
)

// Message types. Requests flow from the client; every request gets exactly
// one reply, either its documented response type or TypeError.
const (
	TypeHello          = "hello"
	TypeAck            = "ack"
	TypeListFactions   = "list_factions"
	TypeFactions       = "factions"
	TypeCompile        = "compile"
	TypeRuleSet        = "rule_set"
	TypeValidate       = "validate"
	TypeValidation     = "validation"
	TypeValidateRoster = "validate_roster"
	TypeRosterResult   = "roster_validation"
	TypeError          = "error"
)

type HelloMessage struct {
	Client  string `json:"client"`
	Version string `json:"version,omitempty"`
}

type AckMessage struct {
	Status          string `json:"status"`
	RulebookVersion string `json:"rulebookVersion"`
}

// CompileRequest asks for the compiled rule set of a faction and optional
// warband variant.
type CompileRequest struct {
	FactionID string `json:"factionId"`
	VariantID string `json:"variantId,omitempty"`
}

type RuleSetMessage struct {
	Key   string                 `json:"key"`
	Rules *rules.CompiledRuleSet `json:"rules"`
}

// ValidateRequest checks one troop's loadout. Strategy is "compiled" (the
// default) or "legacy".
type ValidateRequest struct {
	FactionID    string   `json:"factionId"`
	VariantID    string   `json:"variantId,omitempty"`
	TroopID      string   `json:"troopId"`
	EquipmentIDs []string `json:"equipmentIds"`
	Strategy     string   `json:"strategy,omitempty"`
}

type ValidationMessage struct {
	Strategy string                 `json:"strategy"`
	Result   rules.ValidationResult `json:"result"`
}

type ValidateRosterRequest struct {
	Roster rules.Roster `json:"roster"`
}

type RosterResultMessage struct {
	Result rules.RosterResult `json:"result"`
}

type FactionSummary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Variants []string `json:"variants"`
}

type FactionsMessage struct {
	Factions []FactionSummary `json:"factions"`
}

type ErrorMessage struct {
	Request string `json:"request"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
