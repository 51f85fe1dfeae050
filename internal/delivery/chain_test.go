package delivery_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clientpulse/clientpulse/internal/delivery"
	"github.com/clientpulse/clientpulse/internal/domain"
)

// fakeChannel records whether it was attempted.
type fakeChannel struct {
	name       string
	configured bool
	result     domain.DeliveryResult
	attempts   int
}

func (f *fakeChannel) Name() string     { return f.name }
func (f *fakeChannel) Configured() bool { return f.configured }
func (f *fakeChannel) Send(_ context.Context, _ delivery.Message) domain.DeliveryResult {
	f.attempts++
	return f.result
}

func testMessage() delivery.Message {
	return delivery.Message{To: "freelancer@example.com", Subject: "hi", HTML: "<p>hi</p>"}
}

func TestChainSelectsFirstConfigured(t *testing.T) {
	first := &fakeChannel{name: "a", configured: true, result: domain.DeliveryResult{Success: true, Provider: "a", ID: "1"}}
	second := &fakeChannel{name: "b", configured: true, result: domain.DeliveryResult{Success: true, Provider: "b"}}

	chain := delivery.NewChain(first, second)
	result := chain.Send(context.Background(), testMessage())

	assert.True(t, result.Success)
	assert.Equal(t, "a", result.Provider)
	assert.Equal(t, 1, first.attempts)
	assert.Zero(t, second.attempts)
}

func TestChainSkipsUnconfiguredChannels(t *testing.T) {
	// Only the last provider has credentials: the earlier ones must never
	// see the message.
	a := &fakeChannel{name: "a"}
	b := &fakeChannel{name: "b"}
	c := &fakeChannel{name: "c"}
	d := &fakeChannel{name: "d", configured: true, result: domain.DeliveryResult{Success: true, Provider: "d", ID: "42"}}

	chain := delivery.NewChain(a, b, c, d)
	result := chain.Send(context.Background(), testMessage())

	assert.True(t, result.Success)
	assert.Equal(t, "d", result.Provider)
	assert.Zero(t, a.attempts)
	assert.Zero(t, b.attempts)
	assert.Zero(t, c.attempts)
	assert.Equal(t, 1, d.attempts)
}

func TestChainDoesNotFallThroughOnFailure(t *testing.T) {
	failing := &fakeChannel{
		name:       "a",
		configured: true,
		result:     domain.DeliveryResult{Success: false, Provider: "a", Error: "timeout"},
	}
	backup := &fakeChannel{name: "b", configured: true, result: domain.DeliveryResult{Success: true, Provider: "b"}}

	chain := delivery.NewChain(failing, backup)
	result := chain.Send(context.Background(), testMessage())

	// A transport failure is returned as-is; retrying across providers
	// risks duplicate delivery.
	assert.False(t, result.Success)
	assert.Equal(t, "a", result.Provider)
	assert.Equal(t, "timeout", result.Error)
	assert.Zero(t, backup.attempts)
}

func TestChainNothingConfigured(t *testing.T) {
	chain := delivery.NewChain(&fakeChannel{name: "a"}, &fakeChannel{name: "b"})
	result := chain.Send(context.Background(), testMessage())

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestChainLogFallbackIsSimulated(t *testing.T) {
	chain := delivery.NewChain(delivery.NewResend("", ""), delivery.NewLog())
	result := chain.Send(context.Background(), testMessage())

	assert.True(t, result.Success)
	assert.True(t, result.Simulated)
	assert.Equal(t, "log", result.Provider)
	assert.NotEmpty(t, result.ID)
}
