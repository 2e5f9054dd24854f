package rules

import (
	"github.com/expr-lang/expr/vm"
)

// Rule is an army-wide constraint: the roster is legal while ConditionSrc
// evaluates to true. Rules are evaluated by priority; a failing rule becomes
// a finding of the rule's Kind and Severity.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	Kind         FindingKind // finding kind reported on failure
	Severity     Severity    // error unless the rule is advisory
	ConditionSrc string      // expr source (preserved for serialization)
	Message      string      // finding message on failure
	program      *vm.Program // compiled bytecode
}
