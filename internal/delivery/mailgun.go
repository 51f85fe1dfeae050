package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clientpulse/clientpulse/internal/domain"
)

const defaultMailgunBaseURL = "https://api.mailgun.net/v3"

// Mailgun delivers messages through the Mailgun HTTP API.
type Mailgun struct {
	apiKey  string
	domain  string
	from    string
	baseURL string
	client  *http.Client
}

// NewMailgun creates a Mailgun channel. Missing credentials leave the
// channel unconfigured.
func NewMailgun(apiKey, mailDomain, from string) *Mailgun {
	return &Mailgun{
		apiKey:  apiKey,
		domain:  mailDomain,
		from:    from,
		baseURL: defaultMailgunBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewMailgunWithBaseURL creates a Mailgun channel against a custom
// endpoint. Used by tests.
func NewMailgunWithBaseURL(apiKey, mailDomain, from, baseURL string) *Mailgun {
	m := NewMailgun(apiKey, mailDomain, from)
	m.baseURL = baseURL
	return m
}

// Name implements Channel.
func (m *Mailgun) Name() string { return "mailgun" }

// Configured implements Channel.
func (m *Mailgun) Configured() bool {
	return m.apiKey != "" && m.domain != "" && m.from != ""
}

// Send implements Channel.
func (m *Mailgun) Send(ctx context.Context, msg Message) domain.DeliveryResult {
	form := url.Values{}
	form.Set("from", m.from)
	form.Set("to", msg.To)
	form.Set("subject", msg.Subject)
	form.Set("html", msg.HTML)

	endpoint := fmt.Sprintf("%s/%s/messages", m.baseURL, m.domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return failure(m.Name(), fmt.Errorf("build request: %w", err))
	}
	req.SetBasicAuth("api", m.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return failure(m.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return failure(m.Name(), fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body))
	}

	var result struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return failure(m.Name(), fmt.Errorf("decode response: %w", err))
	}

	return domain.DeliveryResult{Success: true, Provider: m.Name(), ID: result.ID}
}
