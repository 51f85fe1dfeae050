package delivery

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/clientpulse/clientpulse/internal/domain"
)

// Log is the always-configured terminal channel. It only logs the
// message and reports a simulated success, flagged so audit records are
// never mistaken for real delivery confirmations. Intended for
// non-production contexts where no provider credentials are set.
type Log struct{}

// NewLog creates a Log channel.
func NewLog() *Log { return &Log{} }

// Name implements Channel.
func (l *Log) Name() string { return "log" }

// Configured implements Channel.
func (l *Log) Configured() bool { return true }

// Send implements Channel.
func (l *Log) Send(_ context.Context, msg Message) domain.DeliveryResult {
	id := uuid.NewString()

	slog.Info("simulated message delivery",
		"delivery_id", id,
		"to", msg.To,
		"subject", msg.Subject,
	)

	return domain.DeliveryResult{
		Success:   true,
		Provider:  l.Name(),
		ID:        id,
		Simulated: true,
	}
}
