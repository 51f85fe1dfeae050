package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/clientpulse/clientpulse/internal/domain"
)

// relayEnvelope is the wire format published for an external mailer worker.
type relayEnvelope struct {
	ID       string    `json:"id"`
	To       string    `json:"to"`
	Subject  string    `json:"subject"`
	HTML     string    `json:"html"`
	QueuedAt time.Time `json:"queued_at"`
}

// Relay hands messages off to an external mailer worker over NATS. The
// worker owns the actual SMTP transport; the channel only confirms the
// publish reached the server.
type Relay struct {
	conn    *nats.Conn
	subject string
}

// NewRelay creates a Relay channel. A nil connection leaves the channel
// unconfigured.
func NewRelay(conn *nats.Conn, subject string) *Relay {
	return &Relay{conn: conn, subject: subject}
}

// Name implements Channel.
func (r *Relay) Name() string { return "relay" }

// Configured implements Channel.
func (r *Relay) Configured() bool {
	return r.conn != nil && r.subject != ""
}

// Send implements Channel.
func (r *Relay) Send(ctx context.Context, msg Message) domain.DeliveryResult {
	envelope := relayEnvelope{
		ID:       uuid.NewString(),
		To:       msg.To,
		Subject:  msg.Subject,
		HTML:     msg.HTML,
		QueuedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return failure(r.Name(), fmt.Errorf("encode envelope: %w", err))
	}

	if err := r.conn.Publish(r.subject, data); err != nil {
		return failure(r.Name(), fmt.Errorf("publish message: %w", err))
	}

	// Flush confirms the publish reached the server before reporting success.
	if err := r.conn.FlushWithContext(ctx); err != nil {
		return failure(r.Name(), fmt.Errorf("flush connection: %w", err))
	}

	return domain.DeliveryResult{Success: true, Provider: r.Name(), ID: envelope.ID}
}
