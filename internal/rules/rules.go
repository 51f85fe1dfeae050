// Package rules evaluates automation trigger conditions written as CEL
// expressions against a detected event and its resolved context.
package rules

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/clientpulse/clientpulse/internal/domain"
)

// Evaluator compiles and caches CEL programs for trigger conditions.
// Conditions see two variables: `event` (kind, entity_id, occurred_at,
// description) and `context` (the resolved placeholder map).
type Evaluator struct {
	env      *cel.Env
	mu       sync.RWMutex
	programs map[string]cel.Program
}

// NewEvaluator creates an Evaluator with the automation condition environment.
func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("event", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("context", cel.MapType(cel.StringType, cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return &Evaluator{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// Matches reports whether the condition holds for the event and context.
// An empty condition always matches.
func (e *Evaluator) Matches(condition string, event domain.Event, context map[string]string) (bool, error) {
	if condition == "" {
		return true, nil
	}

	prg, err := e.program(condition)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrInvalidCondition, err)
	}

	if context == nil {
		context = map[string]string{}
	}

	out, _, err := prg.Eval(map[string]any{
		"event": map[string]any{
			"kind":        string(event.Kind),
			"entity_id":   event.EntityID,
			"occurred_at": event.OccurredAt,
			"description": event.Description,
		},
		"context": context,
	})
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrInvalidCondition, err)
	}

	match, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: condition must return boolean, got %T", domain.ErrInvalidCondition, out.Value())
	}

	return match, nil
}

func (e *Evaluator) program(condition string) (cel.Program, error) {
	e.mu.RLock()
	prg, ok := e.programs[condition]
	e.mu.RUnlock()
	if ok {
		return prg, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if prg, ok := e.programs[condition]; ok {
		return prg, nil
	}

	ast, issues := e.env.Compile(condition)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, err
	}

	e.programs[condition] = prg
	return prg, nil
}
