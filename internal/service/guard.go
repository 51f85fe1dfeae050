package service

import (
	"context"
	"time"

	"github.com/clientpulse/clientpulse/internal/domain"
)

// Guard decides whether an event was already notified inside the
// cool-down window. It is the sole enforcement point for the
// at-most-one-notification-per-window invariant: callers must consult it
// before dispatch and persist the run record promptly afterwards to keep
// the race window small.
type Guard struct {
	runs RunStore
}

// NewGuard creates a Guard over the run store.
func NewGuard(runs RunStore) *Guard {
	return &Guard{runs: runs}
}

// AlreadyNotified reports whether a run for the same (event kind, entity)
// pair exists inside the cool-down window. The store query filters
// coarsely by user, insight type and time; the exact entity match happens
// in memory because the store cannot index into the nested audit payload.
func (g *Guard) AlreadyNotified(ctx context.Context, userID string, kind domain.EventKind, entityID string, coolDown time.Duration) (bool, error) {
	since := time.Now().Add(-coolDown)

	runs, err := g.runs.ListRecent(ctx, userID, kind.InsightType(), since)
	if err != nil {
		return false, storeFailure("list recent runs", err)
	}

	for _, run := range runs {
		if run.DataPoints.Event.EntityID == entityID {
			return true, nil
		}
	}

	return false, nil
}
