package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clientpulse/clientpulse/internal/domain"
)

// SyncAutomations validates and upserts file-defined automations for a
// user. Definitions are keyed by name, so repeated startups converge on
// the file's contents instead of piling up duplicates. A single invalid
// definition fails the whole sync; a partially applied file is harder to
// reason about than a rejected one.
func SyncAutomations(ctx context.Context, store AutomationUpserter, userID string, automations []*domain.Automation) error {
	for _, automation := range automations {
		if err := automation.Validate(); err != nil {
			return fmt.Errorf("automation %q: %w", automation.Name, err)
		}
	}

	for _, automation := range automations {
		automation.UserID = userID
		if err := store.Upsert(ctx, automation); err != nil {
			return storeFailure(fmt.Sprintf("upsert automation %q", automation.Name), err)
		}
	}

	slog.Info("automations synced", "user_id", userID, "count", len(automations))
	return nil
}
