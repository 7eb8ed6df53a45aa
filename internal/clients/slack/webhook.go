package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/skywardclean/ordering-backend/internal/logger"
)

// WebhookClient posts Block Kit messages to an incoming webhook URL.
type WebhookClient interface {
	Post(ctx context.Context, msg Message) error
}

type Message struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks,omitempty"`
}

type Block struct {
	Type     string      `json:"type"`
	Text     *TextObject `json:"text,omitempty"`
	Fields   []TextObject `json:"fields,omitempty"`
	Elements []TextObject `json:"elements,omitempty"`
}

type TextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type webhookClient struct {
	log        *logger.Logger
	webhookURL string
	httpClient *http.Client
}

func NewWebhookClient(log *logger.Logger, webhookURL string) (WebhookClient, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	webhookURL = strings.TrimSpace(webhookURL)
	if webhookURL == "" {
		return nil, fmt.Errorf("missing slack webhook URL")
	}
	return &webhookClient{
		log:        log.With("client", "SlackWebhookClient"),
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (c *webhookClient) Post(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("slack: encode message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("slack: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return nil
}
