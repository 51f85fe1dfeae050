package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/clientpulse/clientpulse/internal/action"
	"github.com/clientpulse/clientpulse/internal/config"
	"github.com/clientpulse/clientpulse/internal/delivery"
	"github.com/clientpulse/clientpulse/internal/domain"
	"github.com/clientpulse/clientpulse/internal/rules"
	"github.com/clientpulse/clientpulse/internal/template"
)

// OutcomeStatus classifies what happened to one detected event.
type OutcomeStatus string

const (
	// OutcomeDispatched means the event was rendered, dispatched and a run
	// record was written (dispatch itself may still have failed; see the
	// outcome's Error).
	OutcomeDispatched OutcomeStatus = "dispatched"
	// OutcomeSuppressed means the dedup guard found a prior run inside the
	// cool-down window.
	OutcomeSuppressed OutcomeStatus = "suppressed"
	// OutcomeSkipped means a referenced entity vanished between detection
	// and resolution; a benign race.
	OutcomeSkipped OutcomeStatus = "skipped"
	// OutcomeDetected means the event was only detected (preview mode).
	OutcomeDetected OutcomeStatus = "detected"
)

// EventOutcome summarizes the handling of one event in a batch.
type EventOutcome struct {
	Event    domain.Event
	Status   OutcomeStatus
	Provider string
	RunID    string
	Error    string
}

// RunParams identifies the account and scope of one orchestrator batch.
// Exactly one of UserID or UserEmail must be set.
type RunParams struct {
	UserID        string
	UserEmail     string
	LookbackHours int
	SendMessages  bool
}

// RunSummary is the terminal state of one batch.
type RunSummary struct {
	UserID         string
	ProcessedCount int
	Events         []EventOutcome
}

// Orchestrator ties the engine together: detection, dedup, context
// resolution, rendering, dispatch and run persistence. Events inside a
// batch are processed strictly sequentially; the dedup check-then-write
// is not atomic, so parallelism would reopen the duplicate-notification
// race the guard exists to close.
type Orchestrator struct {
	users       UserSource
	detector    *Detector
	guard       *Guard
	resolver    *Resolver
	automations AutomationSource
	evaluator   *rules.Evaluator
	dispatcher  ActionExecutor
	sender      action.Sender
	runs        RunStore
	coolDown    time.Duration
}

// NewOrchestrator creates an Orchestrator with the default cool-down.
func NewOrchestrator(
	users UserSource,
	detector *Detector,
	guard *Guard,
	resolver *Resolver,
	automations AutomationSource,
	evaluator *rules.Evaluator,
	dispatcher ActionExecutor,
	sender action.Sender,
	runs RunStore,
) *Orchestrator {
	return &Orchestrator{
		users:       users,
		detector:    detector,
		guard:       guard,
		resolver:    resolver,
		automations: automations,
		evaluator:   evaluator,
		dispatcher:  dispatcher,
		sender:      sender,
		runs:        runs,
		coolDown:    config.DefaultCoolDownHours * time.Hour,
	}
}

// Run executes one batch: detect, then per event dedup, resolve, render,
// dispatch and persist. Per-event failures are recorded in the run's
// data points and never abort the batch; only store or identity failures
// do. A run record is written after dispatch whether or not dispatch
// succeeded, so dedup reflects "we attempted this" and a permanently
// failing provider cannot cause a hot loop inside the cool-down window.
func (o *Orchestrator) Run(ctx context.Context, params RunParams) (*RunSummary, error) {
	user, err := o.lookupUser(ctx, params)
	if err != nil {
		return nil, err
	}

	lookback := params.LookbackHours
	if lookback <= 0 {
		lookback = config.DefaultLookbackHours
	}

	events, err := o.detector.DetectEvents(ctx, user.ID, lookback)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{UserID: user.ID, Events: []EventOutcome{}}

	for _, event := range events {
		outcome, err := o.processEvent(ctx, user, event, params.SendMessages)
		if err != nil {
			return nil, err
		}
		summary.Events = append(summary.Events, outcome)
		if outcome.Status == OutcomeDispatched {
			summary.ProcessedCount++
		}
	}

	slog.Info("automation batch completed",
		"user_id", user.ID,
		"detected", len(events),
		"processed", summary.ProcessedCount,
	)

	return summary, nil
}

// Preview detects events without consulting the guard or dispatching
// anything. Used by the read-only trigger endpoint.
func (o *Orchestrator) Preview(ctx context.Context, params RunParams) (*RunSummary, error) {
	user, err := o.lookupUser(ctx, params)
	if err != nil {
		return nil, err
	}

	lookback := params.LookbackHours
	if lookback <= 0 {
		lookback = config.DefaultLookbackHours
	}

	events, err := o.detector.DetectEvents(ctx, user.ID, lookback)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{UserID: user.ID, Events: make([]EventOutcome, 0, len(events))}
	for _, event := range events {
		summary.Events = append(summary.Events, EventOutcome{Event: event, Status: OutcomeDetected})
	}
	return summary, nil
}

func (o *Orchestrator) lookupUser(ctx context.Context, params RunParams) (*domain.User, error) {
	switch {
	case params.UserID != "":
		return o.users.GetByID(ctx, params.UserID)
	case params.UserEmail != "":
		return o.users.GetByEmail(ctx, params.UserEmail)
	default:
		return nil, domain.ErrUserNotFound
	}
}

// processEvent runs one event through the guard, resolver, renderer and
// dispatcher, then persists the run record. The returned error is only
// non-nil for store-level failures, which abort the batch.
func (o *Orchestrator) processEvent(ctx context.Context, user *domain.User, event domain.Event, sendMessages bool) (EventOutcome, error) {
	outcome := EventOutcome{Event: event}

	automations, err := o.automations.ListActiveByTrigger(ctx, user.ID, event.Kind)
	if err != nil {
		return outcome, storeFailure("list automations", err)
	}

	coolDown := o.coolDown
	for _, automation := range automations {
		if automation.CoolDownHours > 0 {
			coolDown = time.Duration(automation.CoolDownHours) * time.Hour
			break
		}
	}

	notified, err := o.guard.AlreadyNotified(ctx, user.ID, event.Kind, event.EntityID, coolDown)
	if err != nil {
		return outcome, err
	}
	if notified {
		outcome.Status = OutcomeSuppressed
		slog.Debug("event suppressed by cool-down",
			"user_id", user.ID,
			"event_kind", event.Kind,
			"entity_id", event.EntityID,
		)
		return outcome, nil
	}

	eventContext, refs, err := o.resolver.Resolve(ctx, event, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrEntityNotFound) {
			outcome.Status = OutcomeSkipped
			outcome.Error = err.Error()
			return outcome, nil
		}
		return outcome, storeFailure("resolve event context", err)
	}

	run := o.buildRun(user.ID, event, eventContext)

	if sendMessages {
		result := o.sendNotification(ctx, user, event, eventContext)
		run.DataPoints.Delivery = &result
		outcome.Provider = result.Provider
		if !result.Success {
			run.DataPoints.Errors = append(run.DataPoints.Errors,
				fmt.Sprintf("%s: %s", domain.ErrDeliveryFailed, result.Error))
			outcome.Error = result.Error
		}
	}

	input := &action.Input{
		UserID:  user.ID,
		Event:   event,
		Context: eventContext,
		Refs:    refs,
	}
	for _, automation := range automations {
		matched, err := o.evaluator.Matches(automation.TriggerCondition, event, eventContext)
		if err != nil {
			run.DataPoints.Errors = append(run.DataPoints.Errors,
				fmt.Sprintf("automation %q: %s", automation.Name, err))
			continue
		}
		if !matched {
			continue
		}
		for _, act := range automation.Actions {
			result := o.dispatcher.Execute(ctx, input, act)
			run.DataPoints.Actions = append(run.DataPoints.Actions, result)
			if !result.Success {
				run.DataPoints.Errors = append(run.DataPoints.Errors,
					fmt.Sprintf("automation %q action %s: %s", automation.Name, act.Kind, result.Error))
			}
		}
	}

	if err := o.runs.Create(ctx, run); err != nil {
		return outcome, storeFailure("persist automation run", err)
	}

	outcome.Status = OutcomeDispatched
	outcome.RunID = run.ID
	return outcome, nil
}

// buildRun assembles the audit record for an event before dispatch
// results are folded in.
func (o *Orchestrator) buildRun(userID string, event domain.Event, eventContext map[string]string) *domain.AutomationRun {
	profile := profileFor(event.Kind)

	title := event.Description
	if tmpl, ok := NotificationTemplate(event.Kind); ok {
		title = template.Render(tmpl.Subject, eventContext)
	}

	recommendations := make([]string, 0, len(profile.Recommendations))
	for _, recommendation := range profile.Recommendations {
		recommendations = append(recommendations, template.Render(recommendation, eventContext))
	}

	return &domain.AutomationRun{
		UserID:             userID,
		InsightType:        event.Kind.InsightType(),
		Category:           event.Kind.Category(),
		Title:              title,
		Description:        event.Description,
		DataPoints:         domain.RunDataPoints{Event: event},
		ConfidenceScore:    profile.Confidence,
		ImpactScore:        profile.Impact,
		ActionabilityScore: profile.Actionability,
		Recommendations:    recommendations,
	}
}

// sendNotification renders the built-in notification for the event kind
// and sends it to the account owner through the channel chain.
func (o *Orchestrator) sendNotification(ctx context.Context, user *domain.User, event domain.Event, eventContext map[string]string) domain.DeliveryResult {
	tmpl, ok := NotificationTemplate(event.Kind)
	if !ok {
		return domain.DeliveryResult{
			Success: false,
			Error:   fmt.Sprintf("no notification template for event kind %q", event.Kind),
		}
	}

	return o.sender.Send(ctx, delivery.Message{
		To:      user.Email,
		Subject: template.Render(tmpl.Subject, eventContext),
		HTML:    template.Render(tmpl.Body, eventContext),
	})
}
