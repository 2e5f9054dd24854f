package rules

import "fmt"

// Severity grades a finding. Only errors make a result invalid.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// FindingKind identifies which check produced a finding.
type FindingKind string

const (
	KindTroopUnavailable    FindingKind = "troop_unavailable"
	KindDuplicateArmour     FindingKind = "duplicate_armour"
	KindDuplicateHeadgear   FindingKind = "duplicate_headgear"
	KindDuplicateGrenade    FindingKind = "duplicate_grenade"
	KindDuplicateItem       FindingKind = "duplicate_item"
	KindLimitExceeded       FindingKind = "limit_exceeded"
	KindBanned              FindingKind = "banned"
	KindTroopRestricted     FindingKind = "troop_restricted"
	KindMeleeHands          FindingKind = "melee_hands"
	KindRangedHands         FindingKind = "ranged_hands"
	KindMixedHandedness     FindingKind = "mixed_handedness"
	KindMultipleTwoHanded   FindingKind = "multiple_two_handed"
	KindCombo               FindingKind = "combo"
	KindUnknownTroop        FindingKind = "unknown_troop"
	KindUnknownEquipment    FindingKind = "unknown_equipment"
	KindEquipmentNotOffered FindingKind = "equipment_not_offered"
	KindRequirement         FindingKind = "requirement"
	KindKeywordCap          FindingKind = "keyword_cap"
	KindExternalAllowance   FindingKind = "external_allowance"
	KindModelCost           FindingKind = "model_cost"
	KindPatron              FindingKind = "patron"
	KindCustomCheck         FindingKind = "custom_check"
	KindRuleError           FindingKind = "rule_error"
)

// Finding is one validation outcome.
type Finding struct {
	Kind         FindingKind `json:"kind"`
	Severity     Severity    `json:"severity"`
	Message      string      `json:"message"`
	EquipmentIDs []string    `json:"equipmentIds,omitempty"`
	UnitID       string      `json:"unitId,omitempty"`
}

// ValidationResult collects findings by severity. Warnings and notes never
// affect IsValid.
type ValidationResult struct {
	IsValid  bool      `json:"isValid"`
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
	Notes    []Finding `json:"notes"`
}

func newResult() ValidationResult {
	return ValidationResult{Errors: []Finding{}, Warnings: []Finding{}, Notes: []Finding{}}
}

func (r *ValidationResult) add(f Finding) {
	switch f.Severity {
	case SeverityError:
		r.Errors = append(r.Errors, f)
	case SeverityWarning:
		r.Warnings = append(r.Warnings, f)
	default:
		r.Notes = append(r.Notes, f)
	}
}

func (r *ValidationResult) errorf(kind FindingKind, ids []string, format string, args ...any) {
	r.add(Finding{Kind: kind, Severity: SeverityError, Message: fmt.Sprintf(format, args...), EquipmentIDs: ids})
}

func (r *ValidationResult) warnf(kind FindingKind, ids []string, format string, args ...any) {
	r.add(Finding{Kind: kind, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...), EquipmentIDs: ids})
}

func (r *ValidationResult) notef(kind FindingKind, ids []string, format string, args ...any) {
	r.add(Finding{Kind: kind, Severity: SeverityInfo, Message: fmt.Sprintf(format, args...), EquipmentIDs: ids})
}

// merge folds o into r, tagging o's findings with unitID.
func (r *ValidationResult) merge(o ValidationResult, unitID string) {
	for _, list := range [][]Finding{o.Errors, o.Warnings, o.Notes} {
		for _, f := range list {
			f.UnitID = unitID
			r.add(f)
		}
	}
}

// without returns a copy of r with every finding of kind removed.
func (r ValidationResult) without(kind FindingKind) ValidationResult {
	out := newResult()
	for _, list := range [][]Finding{r.Errors, r.Warnings, r.Notes} {
		for _, f := range list {
			if f.Kind != kind {
				out.add(f)
			}
		}
	}
	out.finish()
	return out
}

func (r *ValidationResult) finish() {
	r.IsValid = len(r.Errors) == 0
}

// HasKind reports whether any finding of the given kind was produced.
func (r ValidationResult) HasKind(kind FindingKind) bool {
	for _, list := range [][]Finding{r.Errors, r.Warnings, r.Notes} {
		for _, f := range list {
			if f.Kind == kind {
				return true
			}
		}
	}
	return false
}
