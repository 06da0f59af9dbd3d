// Package notify publishes high-priority ticket alerts to a webhook through
// Upstash QStash. Unconfigured deployments get the no-op notifier.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
)

type Config struct {
	URL        string        `envconfig:"URL" split_words:"true" default:"https://qstash.upstash.io"`
	Token      string        `envconfig:"TOKEN" split_words:"true"`
	WebhookURL string        `envconfig:"WEBHOOK_URL" split_words:"true"`
	Timeout    time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// Enabled reports whether both the QStash token and a webhook destination
// are configured.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Token) != "" && strings.TrimSpace(c.WebhookURL) != ""
}

type Client struct {
	baseURL    string
	token      string
	webhookURL string
	httpClient *http.Client
}

func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("qstash url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("qstash token is required")
	}
	webhookURL := strings.TrimSpace(cfg.WebhookURL)
	if webhookURL == "" {
		return nil, errors.New("webhook url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type ticketAlert struct {
	TicketID   int64  `json:"ticket_id"`
	CustomerID int64  `json:"customer_id"`
	Issue      string `json:"issue"`
	Priority   string `json:"priority"`
	CreatedAt  string `json:"created_at"`
}

// NotifyTicket publishes the ticket to the configured webhook.
func (c *Client) NotifyTicket(ctx context.Context, ticket *statex.Ticket) error {
	if ticket == nil {
		return errors.New("ticket is nil")
	}

	payload, err := json.Marshal(ticketAlert{
		TicketID:   ticket.ID,
		CustomerID: ticket.CustomerID,
		Issue:      ticket.Issue,
		Priority:   ticket.Priority,
		CreatedAt:  ticket.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal ticket alert: %w", err)
	}

	endpoint := c.baseURL + "/v2/publish/" + c.webhookURL
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build qstash request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("publish ticket alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("qstash http status=%d body=%s", resp.StatusCode, string(raw))
	}
	return nil
}

// Noop is the disabled notifier.
type Noop struct{}

func (Noop) NotifyTicket(context.Context, *statex.Ticket) error {
	return nil
}
