package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientpulse/clientpulse/internal/domain"
)

func newTestDetector() (*Detector, *fakeContractSource, *fakeInvoiceSource, *fakeProjectSource, *fakeClientSource, *fakeMeetingSource) {
	contracts := &fakeContractSource{}
	invoices := &fakeInvoiceSource{}
	projects := &fakeProjectSource{}
	clients := &fakeClientSource{}
	meetings := &fakeMeetingSource{}
	return NewDetector(contracts, invoices, projects, clients, meetings), contracts, invoices, projects, clients, meetings
}

func TestDetectEventsKindOrder(t *testing.T) {
	detector, contracts, invoices, projects, clients, meetings := newTestDetector()
	now := time.Now()
	signedAt := now.Add(-time.Hour)
	paidAt := now.Add(-2 * time.Hour)
	completedAt := now.Add(-30 * time.Minute)

	meetings.upcoming = []*domain.Meeting{{ID: "m1", Title: "Kickoff", ScheduledAt: now.Add(3 * time.Hour)}}
	clients.created = []*domain.Client{{ID: "cl1", Name: "Acme", CreatedAt: now.Add(-4 * time.Hour)}}
	projects.completed = []*domain.Project{{ID: "p1", Name: "Redesign", CompletedAt: &completedAt}}
	invoices.paid = []*domain.Invoice{{ID: "i1", Number: "INV-7", PaidAt: &paidAt}}
	contracts.signed = []*domain.Contract{{ID: "c1", Title: "Retainer", SignedAt: &signedAt}}

	events, err := detector.DetectEvents(context.Background(), "u1", 24)
	require.NoError(t, err)
	require.Len(t, events, 5)

	kinds := make([]domain.EventKind, 0, len(events))
	for _, event := range events {
		kinds = append(kinds, event.Kind)
	}
	assert.Equal(t, []domain.EventKind{
		domain.EventContractSigned,
		domain.EventPaymentReceived,
		domain.EventProjectCompleted,
		domain.EventClientCreated,
		domain.EventMeetingUpcoming,
	}, kinds)

	assert.Equal(t, "c1", events[0].EntityID)
	assert.Equal(t, signedAt, events[0].OccurredAt)
	assert.Equal(t, `Contract "Retainer" was signed`, events[0].Description)
	assert.Equal(t, "Invoice INV-7 was paid", events[1].Description)
}

func TestDetectEventsWithinKindOrderPreserved(t *testing.T) {
	detector, contracts, _, _, _, _ := newTestDetector()
	now := time.Now()
	early := now.Add(-5 * time.Hour)
	late := now.Add(-time.Hour)

	contracts.signed = []*domain.Contract{
		{ID: "c1", Title: "First", SignedAt: &early},
		{ID: "c2", Title: "Second", SignedAt: &late},
	}

	events, err := detector.DetectEvents(context.Background(), "u1", 24)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "c1", events[0].EntityID)
	assert.Equal(t, "c2", events[1].EntityID)
	assert.True(t, events[0].OccurredAt.Before(events[1].OccurredAt))
}

func TestDetectEventsEmptyWindow(t *testing.T) {
	detector, _, _, _, _, _ := newTestDetector()

	events, err := detector.DetectEvents(context.Background(), "u1", 24)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDetectEventsIdempotent(t *testing.T) {
	detector, contracts, _, _, _, _ := newTestDetector()
	now := time.Now()
	contracts.signed = []*domain.Contract{{ID: "c1", Title: "Retainer", SignedAt: &now}}

	first, err := detector.DetectEvents(context.Background(), "u1", 24)
	require.NoError(t, err)
	second, err := detector.DetectEvents(context.Background(), "u1", 24)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDetectEventsInvalidLookback(t *testing.T) {
	detector, _, _, _, _, _ := newTestDetector()

	for _, hours := range []int{0, -1} {
		_, err := detector.DetectEvents(context.Background(), "u1", hours)
		assert.ErrorIs(t, err, domain.ErrInvalidLookback)
	}
}

func TestDetectEventsStoreFailure(t *testing.T) {
	detector, _, invoices, _, _, _ := newTestDetector()
	invoices.err = errors.New("connection refused")

	_, err := detector.DetectEvents(context.Background(), "u1", 24)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestDetectEventsFallsBackToCreatedAt(t *testing.T) {
	detector, contracts, _, _, _, _ := newTestDetector()
	createdAt := time.Now().Add(-2 * time.Hour)
	contracts.signed = []*domain.Contract{{ID: "c1", Title: "Retainer", CreatedAt: createdAt}}

	events, err := detector.DetectEvents(context.Background(), "u1", 24)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, createdAt, events[0].OccurredAt)
}
