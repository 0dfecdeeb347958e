// Package pricing computes suggested sale prices over average cost.
// The markup is business policy, not a correctness-critical value: a plain
// multiplier by default, optionally a CEL expression for shops that want a
// tiered rule without redeploying.
package pricing

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"turbostock/internal/core/types"
)

// DefaultMarkup is the fallback multiplier over average cost.
const DefaultMarkup = "1.2"

// Policy produces a suggested sale price for a unit cost.
type Policy interface {
	SuggestedPrice(cost types.Money) (types.Money, error)
}

// MarkupPolicy multiplies average cost by a constant factor.
type MarkupPolicy struct {
	factor types.Money
}

// NewMarkupPolicy creates a constant-markup policy from a decimal string.
func NewMarkupPolicy(factor string) (*MarkupPolicy, error) {
	f, err := types.NewMoneyFromString(factor)
	if err != nil {
		return nil, fmt.Errorf("parse markup factor %q: %w", factor, err)
	}
	if !f.IsPositive() {
		return nil, fmt.Errorf("markup factor must be positive, got %s", factor)
	}
	return &MarkupPolicy{factor: f}, nil
}

// SuggestedPrice implements Policy.
func (p *MarkupPolicy) SuggestedPrice(cost types.Money) (types.Money, error) {
	return cost.Mul(p.factor), nil
}

// RulePolicy evaluates a CEL expression with the variable `cost` (double)
// that must yield the suggested price as a double. Example:
//
//	cost < 500.0 ? cost * 1.4 : cost * 1.2
type RulePolicy struct {
	program cel.Program
	rule    string
}

// NewRulePolicy compiles a CEL pricing rule.
func NewRulePolicy(rule string) (*RulePolicy, error) {
	env, err := cel.NewEnv(
		cel.Variable("cost", cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("create pricing environment: %w", err)
	}

	ast, issues := env.Compile(rule)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile pricing rule: %w", issues.Err())
	}
	if ast.OutputType() != cel.DoubleType {
		return nil, fmt.Errorf("pricing rule must return a number, got %s", ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build pricing program: %w", err)
	}

	return &RulePolicy{program: program, rule: rule}, nil
}

// SuggestedPrice implements Policy. The rule sees cost as a float; the
// result is rounded to 2 decimal places. Acceptable for a heuristic, not
// used for any ledger arithmetic.
func (p *RulePolicy) SuggestedPrice(cost types.Money) (types.Money, error) {
	out, _, err := p.program.Eval(map[string]any{
		"cost": cost.InexactFloat64(),
	})
	if err != nil {
		return types.ZeroMoney(), fmt.Errorf("evaluate pricing rule: %w", err)
	}

	price, ok := out.Value().(float64)
	if !ok {
		return types.ZeroMoney(), fmt.Errorf("pricing rule returned %T, want float64", out.Value())
	}

	return types.NewMoney(price).Round(2), nil
}

// FromConfig builds the policy: the CEL rule when set, the constant markup
// otherwise.
func FromConfig(markup, rule string) (Policy, error) {
	if rule != "" {
		return NewRulePolicy(rule)
	}
	if markup == "" {
		markup = DefaultMarkup
	}
	return NewMarkupPolicy(markup)
}
