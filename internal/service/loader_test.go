package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientpulse/clientpulse/internal/domain"
)

func TestSyncAutomations(t *testing.T) {
	store := &fakeUpserter{}
	automations := []*domain.Automation{
		{
			Name:        "thank-you",
			TriggerKind: domain.EventPaymentReceived,
			Actions:     []domain.Action{{Kind: domain.ActionCreateTask, Parameters: map[string]any{"title": "Say thanks"}}},
			IsActive:    true,
		},
		{
			Name:        "kickoff",
			TriggerKind: domain.EventContractSigned,
			Actions:     []domain.Action{{Kind: domain.ActionScheduleMeeting, Parameters: map[string]any{"title": "Kickoff"}}},
			IsActive:    true,
		},
	}

	err := SyncAutomations(context.Background(), store, "u1", automations)
	require.NoError(t, err)

	require.Len(t, store.upserted, 2)
	for _, automation := range store.upserted {
		assert.Equal(t, "u1", automation.UserID)
	}
}

func TestSyncAutomationsRejectsInvalidDefinition(t *testing.T) {
	store := &fakeUpserter{}
	automations := []*domain.Automation{
		{
			Name:        "valid",
			TriggerKind: domain.EventPaymentReceived,
			Actions:     []domain.Action{{Kind: domain.ActionCreateTask}},
		},
		{
			Name:        "bad-trigger",
			TriggerKind: domain.EventKind("invoice_exploded"),
			Actions:     []domain.Action{{Kind: domain.ActionCreateTask}},
		},
	}

	err := SyncAutomations(context.Background(), store, "u1", automations)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTrigger)
	// Validation happens up front, so nothing was applied.
	assert.Empty(t, store.upserted)
}

func TestSyncAutomationsStoreFailure(t *testing.T) {
	store := &fakeUpserter{err: errors.New("connection refused")}
	automations := []*domain.Automation{{
		Name:        "thank-you",
		TriggerKind: domain.EventPaymentReceived,
		Actions:     []domain.Action{{Kind: domain.ActionCreateTask}},
	}}

	err := SyncAutomations(context.Background(), store, "u1", automations)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
