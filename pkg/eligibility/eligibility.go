// Package eligibility decides whether an action seed applies to a computed
// signal. The primary gate is the structured min/max bounds on the seed;
// an authored CEL `when` expression, if present, must also hold. CEL
// evaluation fails closed: an expression that errors makes the seed
// ineligible rather than letting a bad predicate surface an action.
package eligibility

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/Hearthguard-Labs/hearthguard/pkg/content"
)

// Evaluator compiles and caches CEL `when` expressions. Safe for concurrent
// use.
type Evaluator struct {
	env   *cel.Env
	mu    sync.RWMutex
	cache map[string]cel.Program
}

// NewEvaluator builds the CEL environment the `when` expressions run in:
// `overall` (int) and `lenses` (map of lens name to int percentage).
func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("overall", cel.IntType),
		cel.Variable("lenses", cel.MapType(cel.StringType, cel.IntType)),
	)
	if err != nil {
		return nil, fmt.Errorf("eligibility env: %w", err)
	}
	return &Evaluator{
		env:   env,
		cache: make(map[string]cel.Program),
	}, nil
}

// Compile compiles an expression and caches the program. Used at pack
// finalization so authoring errors surface before any scoring happens.
func (e *Evaluator) Compile(expr string) error {
	_, err := e.program(expr)
	return err
}

// Eligible reports whether the seed's eligibility gate passes for the
// given overall score and lens percentages.
func (e *Evaluator) Eligible(el content.Eligibility, overall int, lenses map[content.Lens]int) (bool, error) {
	if overall < el.MinOverall || overall > el.MaxOverall {
		return false, nil
	}
	if el.Lens != "" {
		score, ok := lenses[el.Lens]
		if !ok {
			return false, nil
		}
		if score < el.MinLens || score > el.MaxLens {
			return false, nil
		}
	}
	if el.When == "" {
		return true, nil
	}
	return e.evaluate(el.When, overall, lenses)
}

func (e *Evaluator) evaluate(expr string, overall int, lenses map[content.Lens]int) (bool, error) {
	prg, err := e.program(expr)
	if err != nil {
		return false, err
	}

	lensInput := make(map[string]int, len(lenses))
	for l, v := range lenses {
		lensInput[string(l)] = v
	}
	out, _, err := prg.Eval(map[string]any{
		"overall": overall,
		"lenses":  lensInput,
	})
	if err != nil {
		return false, fmt.Errorf("eligibility eval %q: %w", expr, err)
	}
	allowed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("eligibility expr %q: result not bool", expr)
	}
	return allowed, nil
}

func (e *Evaluator) program(expr string) (cel.Program, error) {
	e.mu.RLock()
	prg, hit := e.cache[expr]
	e.mu.RUnlock()
	if hit {
		return prg, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if prg, hit = e.cache[expr]; hit {
		return prg, nil
	}
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("eligibility compile %q: %w", expr, issues.Err())
	}
	prg, err := e.env.Program(ast,
		cel.InterruptCheckFrequency(100),
		cel.CostLimit(10000),
	)
	if err != nil {
		return nil, fmt.Errorf("eligibility program %q: %w", expr, err)
	}
	e.cache[expr] = prg
	return prg, nil
}
