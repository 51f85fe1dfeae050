package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clientpulse/clientpulse/internal/domain"
)

var meetingColumns = []string{"id", "user_id", "client_id", "title", "scheduled_at", "created_at"}

// MeetingRepository handles database operations for meetings.
type MeetingRepository struct {
	pool *pgxpool.Pool
}

// NewMeetingRepository creates a new MeetingRepository.
func NewMeetingRepository(pool *pgxpool.Pool) *MeetingRepository {
	return &MeetingRepository{pool: pool}
}

func scanMeeting(row pgx.Row) (*domain.Meeting, error) {
	var meeting domain.Meeting
	err := row.Scan(
		&meeting.ID,
		&meeting.UserID,
		&meeting.ClientID,
		&meeting.Title,
		&meeting.ScheduledAt,
		&meeting.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntityNotFound
		}
		return nil, fmt.Errorf("scan meeting: %w", err)
	}
	return &meeting, nil
}

// GetByID retrieves a meeting by ID.
func (r *MeetingRepository) GetByID(ctx context.Context, meetingID string) (*domain.Meeting, error) {
	query, args, err := psql.
		Select(meetingColumns...).
		From("meetings").
		Where(sq.Eq{"id": meetingID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for meeting: %w", err)
	}

	return scanMeeting(r.pool.QueryRow(ctx, query, args...))
}

// ListUpcomingBetween retrieves meetings scheduled inside the given
// window, earliest first.
func (r *MeetingRepository) ListUpcomingBetween(ctx context.Context, userID string, from, to time.Time) ([]*domain.Meeting, error) {
	query, args, err := psql.
		Select(meetingColumns...).
		From("meetings").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"scheduled_at": from}).
		Where(sq.Lt{"scheduled_at": to}).
		OrderBy("scheduled_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListUpcomingBetween query for meetings: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query upcoming meetings: %w", err)
	}
	defer rows.Close()

	var meetings []*domain.Meeting
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return meetings, nil
}

// Schedule inserts a meeting created by an automation action.
// Returns the meeting with ID and CreatedAt populated.
func (r *MeetingRepository) Schedule(ctx context.Context, meeting *domain.Meeting) (*domain.Meeting, error) {
	query, args, err := psql.
		Insert("meetings").
		Columns("user_id", "client_id", "title", "scheduled_at").
		Values(meeting.UserID, meeting.ClientID, meeting.Title, meeting.ScheduledAt).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Schedule query for meeting: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&meeting.ID, &meeting.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("schedule meeting: %w", err)
	}

	return meeting, nil
}
