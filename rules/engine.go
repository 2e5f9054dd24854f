package rules

import (
	"fmt"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Engine runs compiled roster rules against a roster environment.
// Engines are immutable once built and safe for concurrent use.
type Engine struct {
	rules []*Rule
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled}, nil
}

// Rules returns the engine's rules in evaluation order.
func (e *Engine) Rules() []*Rule {
	out := make([]*Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Evaluate runs every rule against env and returns a finding for each rule
// that does not hold. A rule that fails at runtime yields a warning instead.
func (e *Engine) Evaluate(env RosterEnv) []Finding {
	var findings []Finding
	for _, r := range e.rules {
		result, err := vm.Run(r.program, env)
		if err != nil {
			findings = append(findings, Finding{
				Kind:     KindRuleError,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("rule %s could not be evaluated: %v", r.Name, err),
			})
			continue
		}

		match, ok := result.(bool)
		if ok && match {
			continue
		}

		severity := r.Severity
		if severity == "" {
			severity = SeverityError
		}
		findings = append(findings, Finding{Kind: r.Kind, Severity: severity, Message: r.Message})
	}
	return findings
}

// CheckCondition reports whether src compiles as a boolean roster condition.
func CheckCondition(src string) error {
	_, err := expr.Compile(src, expr.Env(RosterEnv{}), expr.AsBool())
	return err
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	out := make([]*Rule, 0, len(rules))
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(RosterEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		c := *r
		c.program = prog
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out, nil
}
