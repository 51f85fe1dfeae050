package domain

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadAutomationsFromFile reads automation definitions from a JSON or
// YAML file. Definitions loaded this way carry no user id; the caller
// decides which account they are upserted into.
func LoadAutomationsFromFile(filename string) ([]*Automation, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read automations file: %w", err)
	}

	var automations []*Automation
	switch filepath.Ext(filename) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &automations); err != nil {
			return nil, fmt.Errorf("parse YAML automations: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &automations); err != nil {
			return nil, fmt.Errorf("parse JSON automations: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &automations); err != nil {
			if err := yaml.Unmarshal(data, &automations); err != nil {
				return nil, fmt.Errorf("parse automations (unknown format): %w", err)
			}
		}
	}

	for _, a := range automations {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("automation %q: %w", a.Name, err)
		}
	}

	return automations, nil
}

// Validate checks that the automation definition is internally consistent.
func (a *Automation) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidAction)
	}
	if !a.TriggerKind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTrigger, a.TriggerKind)
	}
	if len(a.Actions) == 0 {
		return fmt.Errorf("%w: at least one action is required", ErrInvalidAction)
	}
	for i, action := range a.Actions {
		if !action.Kind.IsValid() {
			return fmt.Errorf("%w: action %d has unknown type %q", ErrInvalidAction, i, action.Kind)
		}
	}
	if a.CoolDownHours < 0 {
		return fmt.Errorf("%w: cool_down_hours cannot be negative", ErrInvalidAction)
	}
	return nil
}
