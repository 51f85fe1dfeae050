package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clientpulse/clientpulse/internal/domain"
)

var automationColumns = []string{
	"id", "user_id", "name", "trigger_type", "trigger_condition",
	"actions", "cool_down_hours", "is_active", "created_at",
}

// AutomationRepository handles database operations for automation definitions.
type AutomationRepository struct {
	pool *pgxpool.Pool
}

// NewAutomationRepository creates a new AutomationRepository.
func NewAutomationRepository(pool *pgxpool.Pool) *AutomationRepository {
	return &AutomationRepository{pool: pool}
}

func scanAutomation(row pgx.Row) (*domain.Automation, error) {
	var automation domain.Automation
	var actions []byte
	err := row.Scan(
		&automation.ID,
		&automation.UserID,
		&automation.Name,
		&automation.TriggerKind,
		&automation.TriggerCondition,
		&actions,
		&automation.CoolDownHours,
		&automation.IsActive,
		&automation.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAutomationNotFound
		}
		return nil, fmt.Errorf("scan automation: %w", err)
	}

	if err := json.Unmarshal(actions, &automation.Actions); err != nil {
		return nil, fmt.Errorf("decode automation actions: %w", err)
	}

	return &automation, nil
}

func scanAutomations(rows pgx.Rows) ([]*domain.Automation, error) {
	defer rows.Close()

	var automations []*domain.Automation
	for rows.Next() {
		automation, err := scanAutomation(rows)
		if err != nil {
			return nil, err
		}
		automations = append(automations, automation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return automations, nil
}

// List retrieves all automations for a user, newest first.
func (r *AutomationRepository) List(ctx context.Context, userID string) ([]*domain.Automation, error) {
	query, args, err := psql.
		Select(automationColumns...).
		From("automations").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query for automations: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query automations: %w", err)
	}

	return scanAutomations(rows)
}

// ListActiveByTrigger retrieves active automations for one trigger kind.
func (r *AutomationRepository) ListActiveByTrigger(ctx context.Context, userID string, kind domain.EventKind) ([]*domain.Automation, error) {
	query, args, err := psql.
		Select(automationColumns...).
		From("automations").
		Where(sq.Eq{
			"user_id":      userID,
			"trigger_type": kind,
			"is_active":    true,
		}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListActiveByTrigger query for automations: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query active automations: %w", err)
	}

	return scanAutomations(rows)
}

// Create inserts a new automation definition.
// Returns the automation with ID and CreatedAt populated.
func (r *AutomationRepository) Create(ctx context.Context, automation *domain.Automation) (*domain.Automation, error) {
	actions, err := json.Marshal(automation.Actions)
	if err != nil {
		return nil, fmt.Errorf("encode automation actions: %w", err)
	}

	query, args, err := psql.
		Insert("automations").
		Columns("user_id", "name", "trigger_type", "trigger_condition", "actions", "cool_down_hours", "is_active").
		Values(
			automation.UserID,
			automation.Name,
			automation.TriggerKind,
			automation.TriggerCondition,
			actions,
			automation.CoolDownHours,
			automation.IsActive,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for automation: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&automation.ID, &automation.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create automation: %w", err)
	}

	return automation, nil
}

// Upsert inserts an automation or refreshes the definition with the same
// (user, name). Used by the startup file loader.
func (r *AutomationRepository) Upsert(ctx context.Context, automation *domain.Automation) error {
	actions, err := json.Marshal(automation.Actions)
	if err != nil {
		return fmt.Errorf("encode automation actions: %w", err)
	}

	query, args, err := psql.
		Insert("automations").
		Columns("user_id", "name", "trigger_type", "trigger_condition", "actions", "cool_down_hours", "is_active").
		Values(
			automation.UserID,
			automation.Name,
			automation.TriggerKind,
			automation.TriggerCondition,
			actions,
			automation.CoolDownHours,
			automation.IsActive,
		).
		Suffix(`ON CONFLICT (user_id, name) DO UPDATE SET
			trigger_type = EXCLUDED.trigger_type,
			trigger_condition = EXCLUDED.trigger_condition,
			actions = EXCLUDED.actions,
			cool_down_hours = EXCLUDED.cool_down_hours,
			is_active = EXCLUDED.is_active
			RETURNING id, created_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Upsert query for automation: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&automation.ID, &automation.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert automation: %w", err)
	}

	return nil
}
