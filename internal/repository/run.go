package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clientpulse/clientpulse/internal/domain"
)

var runColumns = []string{
	"id", "user_id", "insight_type", "category", "title", "description",
	"data_points", "confidence_score", "impact_score", "actionability_score",
	"recommendations", "created_at",
}

// RunRepository handles database operations for automation runs. Runs are
// append-only: this repository exposes no update or delete.
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository creates a new RunRepository.
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

func scanRun(row pgx.Row) (*domain.AutomationRun, error) {
	var run domain.AutomationRun
	var dataPoints []byte
	err := row.Scan(
		&run.ID,
		&run.UserID,
		&run.InsightType,
		&run.Category,
		&run.Title,
		&run.Description,
		&dataPoints,
		&run.ConfidenceScore,
		&run.ImpactScore,
		&run.ActionabilityScore,
		&run.Recommendations,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan automation run: %w", err)
	}

	if err := json.Unmarshal(dataPoints, &run.DataPoints); err != nil {
		return nil, fmt.Errorf("decode run data points: %w", err)
	}

	return &run, nil
}

func scanRuns(rows pgx.Rows) ([]*domain.AutomationRun, error) {
	defer rows.Close()

	var runs []*domain.AutomationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return runs, nil
}

// Create appends a new automation run record.
// Returns the run with ID and CreatedAt populated.
func (r *RunRepository) Create(ctx context.Context, run *domain.AutomationRun) error {
	dataPoints, err := json.Marshal(run.DataPoints)
	if err != nil {
		return fmt.Errorf("encode run data points: %w", err)
	}

	if run.Recommendations == nil {
		run.Recommendations = []string{}
	}

	query, args, err := psql.
		Insert("automation_runs").
		Columns(
			"user_id", "insight_type", "category", "title", "description",
			"data_points", "confidence_score", "impact_score",
			"actionability_score", "recommendations",
		).
		Values(
			run.UserID,
			run.InsightType,
			run.Category,
			run.Title,
			run.Description,
			dataPoints,
			run.ConfidenceScore,
			run.ImpactScore,
			run.ActionabilityScore,
			run.Recommendations,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for automation run: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return fmt.Errorf("create automation run: %w", err)
	}

	return nil
}

// ListRecent retrieves runs of one insight type created since the given
// time. The dedup guard inspects the embedded event entity id in memory
// because the store cannot efficiently index into the audit payload.
func (r *RunRepository) ListRecent(ctx context.Context, userID, insightType string, since time.Time) ([]*domain.AutomationRun, error) {
	query, args, err := psql.
		Select(runColumns...).
		From("automation_runs").
		Where(sq.Eq{
			"user_id":      userID,
			"insight_type": insightType,
		}).
		Where(sq.GtOrEq{"created_at": since}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListRecent query for automation runs: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent automation runs: %w", err)
	}

	return scanRuns(rows)
}

// List retrieves the latest runs for a user, newest first.
func (r *RunRepository) List(ctx context.Context, userID string, limit int) ([]*domain.AutomationRun, error) {
	if limit <= 0 {
		limit = 50
	}

	query, args, err := psql.
		Select(runColumns...).
		From("automation_runs").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query for automation runs: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query automation runs: %w", err)
	}

	return scanRuns(rows)
}
