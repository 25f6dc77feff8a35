package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Discord posts messages to a Discord webhook.
type Discord struct {
	client *http.Client
}

// NewDiscord returns a notifier using client, or a client with a 10s timeout
// when client is nil.
func NewDiscord(client *http.Client) *Discord {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Discord{client: client}
}

// Send posts msg to webhookURL. An empty URL disables delivery.
func (d *Discord) Send(ctx context.Context, webhookURL, msg string) error {
	if webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(struct {
		Content string `json:"content"`
	}{Content: msg})
	if err != nil {
		return fmt.Errorf("encode discord message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post discord webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("discord webhook returned %s", resp.Status)
	}
	return nil
}
