package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/clientpulse/clientpulse/internal/domain"
)

const defaultResendBaseURL = "https://api.resend.com"

// Resend delivers messages through the Resend HTTP API.
type Resend struct {
	apiKey  string
	from    string
	baseURL string
	client  *http.Client
}

// NewResend creates a Resend channel. An empty apiKey leaves the channel
// unconfigured.
func NewResend(apiKey, from string) *Resend {
	return &Resend{
		apiKey:  apiKey,
		from:    from,
		baseURL: defaultResendBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewResendWithBaseURL creates a Resend channel against a custom endpoint.
// Used by tests.
func NewResendWithBaseURL(apiKey, from, baseURL string) *Resend {
	r := NewResend(apiKey, from)
	r.baseURL = baseURL
	return r
}

// Name implements Channel.
func (r *Resend) Name() string { return "resend" }

// Configured implements Channel.
func (r *Resend) Configured() bool { return r.apiKey != "" && r.from != "" }

// Send implements Channel.
func (r *Resend) Send(ctx context.Context, msg Message) domain.DeliveryResult {
	payload, err := json.Marshal(map[string]any{
		"from":    r.from,
		"to":      []string{msg.To},
		"subject": msg.Subject,
		"html":    msg.HTML,
	})
	if err != nil {
		return failure(r.Name(), fmt.Errorf("encode payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return failure(r.Name(), fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return failure(r.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return failure(r.Name(), fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return failure(r.Name(), fmt.Errorf("decode response: %w", err))
	}

	return domain.DeliveryResult{Success: true, Provider: r.Name(), ID: result.ID}
}

// failure builds a failed delivery result for a provider.
func failure(provider string, err error) domain.DeliveryResult {
	return domain.DeliveryResult{
		Success:  false,
		Provider: provider,
		Error:    err.Error(),
	}
}
