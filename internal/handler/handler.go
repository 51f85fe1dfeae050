package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/jackc/pgx/v5/pgxpool"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/clientpulse/clientpulse/docs" // Import generated docs
	"github.com/clientpulse/clientpulse/internal/action"
	"github.com/clientpulse/clientpulse/internal/delivery"
	"github.com/clientpulse/clientpulse/internal/domain"
	"github.com/clientpulse/clientpulse/internal/handler/dto"
	"github.com/clientpulse/clientpulse/internal/middleware"
	"github.com/clientpulse/clientpulse/internal/repository"
	"github.com/clientpulse/clientpulse/internal/rules"
	"github.com/clientpulse/clientpulse/internal/service"
)

// AutomationEngine runs detection batches and previews.
type AutomationEngine interface {
	Run(ctx context.Context, params service.RunParams) (*service.RunSummary, error)
	Preview(ctx context.Context, params service.RunParams) (*service.RunSummary, error)
}

// AutomationStore reads and writes automation definitions.
type AutomationStore interface {
	List(ctx context.Context, userID string) ([]*domain.Automation, error)
	Create(ctx context.Context, automation *domain.Automation) (*domain.Automation, error)
}

// RunLister reads persisted automation runs.
type RunLister interface {
	List(ctx context.Context, userID string, limit int) ([]*domain.AutomationRun, error)
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool           *pgxpool.Pool
	engine         AutomationEngine
	automations    AutomationStore
	runs           RunLister
	authMiddleware *middleware.AuthMiddleware
}

// New creates a new Handler instance with all dependencies.
func New(pool *pgxpool.Pool, chain *delivery.Chain, apiToken string) (*Handler, error) {
	// Create repositories
	userRepo := repository.NewUserRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	contractRepo := repository.NewContractRepository(pool)
	invoiceRepo := repository.NewInvoiceRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	meetingRepo := repository.NewMeetingRepository(pool)
	followUpRepo := repository.NewFollowUpRepository(pool)
	proposalRepo := repository.NewProposalRepository(pool)
	automationRepo := repository.NewAutomationRepository(pool)
	runRepo := repository.NewRunRepository(pool)

	// Create services
	evaluator, err := rules.NewEvaluator()
	if err != nil {
		return nil, fmt.Errorf("create condition evaluator: %w", err)
	}

	dispatcher := action.NewDispatcher(chain, followUpRepo, invoiceRepo, projectRepo, meetingRepo, proposalRepo)

	orchestrator := service.NewOrchestrator(
		userRepo,
		service.NewDetector(contractRepo, invoiceRepo, projectRepo, clientRepo, meetingRepo),
		service.NewGuard(runRepo),
		service.NewResolver(userRepo, clientRepo, contractRepo, invoiceRepo, projectRepo, meetingRepo),
		automationRepo,
		evaluator,
		dispatcher,
		chain,
		runRepo,
	)

	return &Handler{
		pool:           pool,
		engine:         orchestrator,
		automations:    automationRepo,
		runs:           runRepo,
		authMiddleware: middleware.NewAuthMiddleware(apiToken),
	}, nil
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	// API v1 routes with authentication
	mux.Handle("POST /api/v1/automation/run", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleRunAutomation)))
	mux.Handle("GET /api/v1/automation/events", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleEventsPreview)))
	mux.Handle("GET /api/v1/automation/runs", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleListRuns)))
	mux.Handle("GET /api/v1/automations", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleListAutomations)))
	mux.Handle("POST /api/v1/automations", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleCreateAutomation)))
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.pool == nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// Engine exposes the wired automation engine for one-shot CLI batches.
func (h *Handler) Engine() AutomationEngine {
	return h.engine
}

// queryDecoder decodes URL query parameters into filter structs.
var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return decoder
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}
