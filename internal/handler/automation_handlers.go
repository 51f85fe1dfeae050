package handler

import (
	"encoding/json"
	"net/http"

	"github.com/clientpulse/clientpulse/internal/domain"
	"github.com/clientpulse/clientpulse/internal/handler/dto"
	"github.com/clientpulse/clientpulse/internal/service"
)

// handleRunAutomation triggers one detection and dispatch batch.
// @Summary Run the automation engine
// @Description Detects recent business events for a user, deduplicates them against prior runs, dispatches notifications and automation actions, and records the outcome.
// @Tags automation
// @Accept json
// @Produce json
// @Param request body dto.RunAutomationRequest true "Run request"
// @Success 200 {object} dto.RunSummaryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /automation/run [post]
func (h *Handler) handleRunAutomation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.RunAutomationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.UserID == "" && req.UserEmail == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "user_id or user_email is required")
		return
	}
	if req.LookbackHours < 0 {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "lookback_hours must be positive")
		return
	}

	summary, err := h.engine.Run(ctx, service.RunParams{
		UserID:        req.UserID,
		UserEmail:     req.UserEmail,
		LookbackHours: req.LookbackHours,
		SendMessages:  req.SendMessages,
	})
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToRunSummaryResponse(summary))
}

// handleEventsPreview lists detectable events without dispatching anything.
// @Summary Preview detectable events
// @Description Detects recent business events for a user without deduplication, notifications, or run records.
// @Tags automation
// @Produce json
// @Param user_id query string false "User ID"
// @Param user_email query string false "User email (alternative to user_id)"
// @Param lookback_hours query int false "Detection window in hours (default 24)"
// @Success 200 {object} dto.EventsPreviewResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /automation/events [get]
func (h *Handler) handleEventsPreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var filters dto.EventsPreviewFilters
	if err := queryDecoder.Decode(&filters, r.URL.Query()); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid query parameters")
		return
	}

	if filters.UserID == "" && filters.UserEmail == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "user_id or user_email is required")
		return
	}
	if filters.LookbackHours < 0 {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "lookback_hours must be positive")
		return
	}

	summary, err := h.engine.Preview(ctx, service.RunParams{
		UserID:        filters.UserID,
		UserEmail:     filters.UserEmail,
		LookbackHours: filters.LookbackHours,
	})
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToEventsPreviewResponse(summary))
}

// handleListRuns returns the latest automation runs for a user.
// @Summary List automation runs
// @Description Get the latest persisted automation runs for a user, newest first.
// @Tags automation
// @Produce json
// @Param user_id query string true "User ID"
// @Param limit query int false "Page size (1-200, default 50)"
// @Success 200 {object} dto.RunsListResponse
// @Security BearerAuth
// @Router /automation/runs [get]
func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var filters dto.ListRunsFilters
	if err := queryDecoder.Decode(&filters, r.URL.Query()); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid query parameters")
		return
	}

	if filters.UserID == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "user_id is required")
		return
	}

	limit := filters.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	runs, err := h.runs.List(ctx, filters.UserID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list runs")
		return
	}

	records := make([]dto.RunRecordResponse, len(runs))
	for i, run := range runs {
		records[i] = dto.ToRunRecordResponse(run)
	}

	respondJSON(w, http.StatusOK, dto.RunsListResponse{
		Runs:  records,
		Total: len(records),
	})
}

// handleListAutomations returns all automation definitions for a user.
// @Summary List automations
// @Description Get all automation definitions for a user, newest first.
// @Tags automations
// @Produce json
// @Param user_id query string true "User ID"
// @Success 200 {object} dto.AutomationsListResponse
// @Security BearerAuth
// @Router /automations [get]
func (h *Handler) handleListAutomations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var filters dto.ListAutomationsFilters
	if err := queryDecoder.Decode(&filters, r.URL.Query()); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid query parameters")
		return
	}

	if filters.UserID == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "user_id is required")
		return
	}

	automations, err := h.automations.List(ctx, filters.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list automations")
		return
	}

	responses := make([]dto.AutomationResponse, len(automations))
	for i, automation := range automations {
		responses[i] = dto.ToAutomationResponse(automation)
	}

	respondJSON(w, http.StatusOK, dto.AutomationsListResponse{
		Automations: responses,
		Total:       len(responses),
	})
}

// handleCreateAutomation creates a new automation definition.
// @Summary Create an automation
// @Description Creates a new automation definition reacting to one event type, with an optional CEL condition over the event and its resolved context.
// @Tags automations
// @Accept json
// @Produce json
// @Param request body dto.CreateAutomationRequest true "Automation definition"
// @Success 201 {object} dto.AutomationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /automations [post]
func (h *Handler) handleCreateAutomation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateAutomationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.UserID == "" {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "user_id is required")
		return
	}

	actions := make([]domain.Action, len(req.Actions))
	for i, action := range req.Actions {
		actions[i] = domain.Action{
			Kind:       domain.ActionKind(action.Type),
			Parameters: action.Parameters,
		}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	automation := &domain.Automation{
		UserID:           req.UserID,
		Name:             req.Name,
		TriggerKind:      domain.EventKind(req.TriggerType),
		TriggerCondition: req.TriggerCondition,
		Actions:          actions,
		CoolDownHours:    req.CoolDownHours,
		IsActive:         isActive,
	}

	if err := automation.Validate(); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	created, err := h.automations.Create(ctx, automation)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create automation")
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToAutomationResponse(created))
}
