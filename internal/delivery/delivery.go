// Package delivery sends rendered messages through interchangeable
// channels. Channels are tried strictly in priority order: the first
// channel whose credentials are configured handles the message, and the
// chain never retries a message against a different provider.
package delivery

import (
	"context"
	"log/slog"

	"github.com/clientpulse/clientpulse/internal/domain"
)

// Message is a rendered notification ready for transport.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Channel is one delivery backend wrapping an external transport.
type Channel interface {
	// Name identifies the provider in delivery results and audit records.
	Name() string
	// Configured reports whether the channel's credentials are present.
	Configured() bool
	// Send transmits the message. Transport errors are reported in the
	// result, never panicked; the caller decides whether they are fatal.
	Send(ctx context.Context, msg Message) domain.DeliveryResult
}

// Chain selects the first configured channel and delegates to it.
type Chain struct {
	channels []Channel
}

// NewChain creates a Chain trying channels in the given priority order.
func NewChain(channels ...Channel) *Chain {
	return &Chain{channels: channels}
}

// Send delivers the message through the first configured channel. Later
// channels are never attempted for the same message, even on failure:
// providers are assumed equally capable and a cross-provider retry risks
// duplicate delivery.
func (c *Chain) Send(ctx context.Context, msg Message) domain.DeliveryResult {
	for _, channel := range c.channels {
		if !channel.Configured() {
			continue
		}
		result := channel.Send(ctx, msg)
		if !result.Success {
			slog.Warn("message delivery failed",
				"provider", result.Provider,
				"to", msg.To,
				"error", result.Error,
			)
		}
		return result
	}

	return domain.DeliveryResult{
		Success: false,
		Error:   "no delivery channel configured",
	}
}
