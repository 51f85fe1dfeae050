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

const defaultSendGridBaseURL = "https://api.sendgrid.com"

// SendGrid delivers messages through the SendGrid v3 mail API.
type SendGrid struct {
	apiKey  string
	from    string
	baseURL string
	client  *http.Client
}

// NewSendGrid creates a SendGrid channel. An empty apiKey leaves the
// channel unconfigured.
func NewSendGrid(apiKey, from string) *SendGrid {
	return &SendGrid{
		apiKey:  apiKey,
		from:    from,
		baseURL: defaultSendGridBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewSendGridWithBaseURL creates a SendGrid channel against a custom
// endpoint. Used by tests.
func NewSendGridWithBaseURL(apiKey, from, baseURL string) *SendGrid {
	s := NewSendGrid(apiKey, from)
	s.baseURL = baseURL
	return s
}

// Name implements Channel.
func (s *SendGrid) Name() string { return "sendgrid" }

// Configured implements Channel.
func (s *SendGrid) Configured() bool { return s.apiKey != "" && s.from != "" }

// Send implements Channel.
func (s *SendGrid) Send(ctx context.Context, msg Message) domain.DeliveryResult {
	payload, err := json.Marshal(map[string]any{
		"personalizations": []map[string]any{
			{"to": []map[string]string{{"email": msg.To}}},
		},
		"from":    map[string]string{"email": s.from},
		"subject": msg.Subject,
		"content": []map[string]string{
			{"type": "text/html", "value": msg.HTML},
		},
	})
	if err != nil {
		return failure(s.Name(), fmt.Errorf("encode payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v3/mail/send", bytes.NewReader(payload))
	if err != nil {
		return failure(s.Name(), fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return failure(s.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return failure(s.Name(), fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body))
	}

	return domain.DeliveryResult{
		Success:  true,
		Provider: s.Name(),
		ID:       resp.Header.Get("X-Message-Id"),
	}
}
