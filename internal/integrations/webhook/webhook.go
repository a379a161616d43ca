// Package webhook sends outbound HTTP requests for the send_webhook
// action. Unlike the other adapters it needs no access token.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dukex/integrail/internal/integrations"
)

const timeout = 10 * time.Second

// Client posts arbitrary JSON payloads to outbound webhook URLs.
type Client struct {
	HTTPClient *http.Client
}

// New returns a Client bound to the fixed 10s timeout from spec.md §4.10.
func New() *Client {
	return &Client{HTTPClient: &http.Client{Timeout: timeout}}
}

// Send posts payload (already wrapped per the Slack-URL rule by the
// caller) to url and returns the response status code.
func (c *Client) Send(ctx context.Context, url string, payload any) (int, error) {
	body, err := marshalPayload(payload)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if kind := integrations.Classify(resp, err); kind != "" {
		return 0, integrations.BuildErr(kind, resp, err)
	}

	defer resp.Body.Close()

	return resp.StatusCode, nil
}

// WrapForSlack implements the rule: if url is Slack-hosted and payload is
// a raw string, wrap it as {"text": payload}.
func WrapForSlack(url string, payload any) any {
	if str, ok := payload.(string); ok && strings.Contains(url, "hooks.slack.com") {
		return map[string]any{"text": str}
	}

	return payload
}

func marshalPayload(payload any) ([]byte, error) {
	if str, ok := payload.(string); ok {
		return []byte(str), nil
	}

	return json.Marshal(payload)
}
