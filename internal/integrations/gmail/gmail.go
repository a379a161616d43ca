// Package gmail is a thin adapter over the Gmail REST API. It holds no
// credentials; every method takes the caller's access token directly.
package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dukex/integrail/internal/integrations"
)

const baseURL = "https://gmail.googleapis.com/gmail/v1/users/me"

const bodyTruncateLen = 500

// Client is a stateless Gmail adapter. Swap HTTPClient in tests.
type Client struct {
	HTTPClient *http.Client
}

// New returns a Client with a sane default timeout.
func New() *Client {
	return &Client{HTTPClient: &http.Client{Timeout: 15 * time.Second}}
}

// Message is the normalized shape returned by GetMessage.
type Message struct {
	ID           string
	ThreadID     string
	InternalDate time.Time
	From         string
	Subject      string
	Body         string
	LabelIDs     []string
}

// ListMessages returns message ids matching query, per Gmail's list API.
func (c *Client) ListMessages(ctx context.Context, token, query string, maxResults int) ([]string, error) {
	url := fmt.Sprintf("%s/messages?q=%s&maxResults=%d", baseURL, escapeQuery(query), maxResults)

	var out struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}

	if err := c.doJSON(ctx, http.MethodGet, url, token, nil, &out); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(out.Messages))
	for _, m := range out.Messages {
		ids = append(ids, m.ID)
	}

	return ids, nil
}

// GetMessage fetches and normalizes a single message: decodes the body
// from base64url, prefers the text/plain part, and truncates to 500 chars.
func (c *Client) GetMessage(ctx context.Context, token, id string) (*Message, error) {
	url := fmt.Sprintf("%s/messages/%s?format=full", baseURL, id)

	var raw struct {
		ID           string `json:"id"`
		ThreadID     string `json:"threadId"`
		InternalDate string `json:"internalDate"`
		LabelIDs     []string `json:"labelIds"`
		Payload      struct {
			MimeType string `json:"mimeType"`
			Headers  []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"headers"`
			Body struct {
				Data string `json:"data"`
			} `json:"body"`
			Parts []struct {
				MimeType string `json:"mimeType"`
				Body     struct {
					Data string `json:"data"`
				} `json:"body"`
			} `json:"parts"`
		} `json:"payload"`
	}

	if err := c.doJSON(ctx, http.MethodGet, url, token, nil, &raw); err != nil {
		return nil, err
	}

	msg := &Message{ID: raw.ID, ThreadID: raw.ThreadID, LabelIDs: raw.LabelIDs}

	for _, h := range raw.Payload.Headers {
		switch h.Name {
		case "From":
			msg.From = h.Value
		case "Subject":
			msg.Subject = h.Value
		}
	}

	if ms, err := parseInternalDate(raw.InternalDate); err == nil {
		msg.InternalDate = ms
	}

	body := extractTextPlain(raw.Payload.MimeType, raw.Payload.Body.Data, raw.Payload.Parts)
	if r := []rune(body); len(r) > bodyTruncateLen {
		body = string(r[:bodyTruncateLen])
	}

	msg.Body = body

	return msg, nil
}

// SendMessage sends a plain-text email, optionally as a threaded reply
// when inReplyTo/threadID are non-empty.
func (c *Client) SendMessage(ctx context.Context, token, to, subject, body, inReplyTo, threadID string) error {
	var raw strings.Builder

	fmt.Fprintf(&raw, "To: %s\r\n", to)
	fmt.Fprintf(&raw, "Subject: %s\r\n", subject)

	if inReplyTo != "" {
		fmt.Fprintf(&raw, "In-Reply-To: %s\r\n", inReplyTo)
		fmt.Fprintf(&raw, "References: %s\r\n", inReplyTo)
	}

	raw.WriteString("\r\n")
	raw.WriteString(body)

	encoded := base64.URLEncoding.EncodeToString([]byte(raw.String()))

	payload := map[string]any{"raw": encoded}
	if threadID != "" {
		payload["threadId"] = threadID
	}

	url := baseURL + "/messages/send"

	return c.doJSON(ctx, http.MethodPost, url, token, payload, nil)
}

// ModifyLabels adds and removes labels on a message.
func (c *Client) ModifyLabels(ctx context.Context, token, messageID string, add, remove []string) error {
	url := fmt.Sprintf("%s/messages/%s/modify", baseURL, messageID)

	payload := map[string]any{"addLabelIds": add, "removeLabelIds": remove}

	return c.doJSON(ctx, http.MethodPost, url, token, payload, nil)
}

// ListLabels returns the user's Gmail labels. On the dispatcher's
// cacheable read-only list (5 min TTL).
func (c *Client) ListLabels(ctx context.Context, token string) ([]string, error) {
	var out struct {
		Labels []struct {
			ID string `json:"id"`
		} `json:"labels"`
	}

	if err := c.doJSON(ctx, http.MethodGet, baseURL+"/labels", token, nil, &out); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(out.Labels))
	for _, l := range out.Labels {
		ids = append(ids, l.ID)
	}

	return ids, nil
}

// GetProfile returns the authenticated user's email address. On the
// dispatcher's cacheable read-only list (10 min TTL).
func (c *Client) GetProfile(ctx context.Context, token string) (string, error) {
	var out struct {
		EmailAddress string `json:"emailAddress"`
	}

	if err := c.doJSON(ctx, http.MethodGet, baseURL+"/profile", token, nil, &out); err != nil {
		return "", err
	}

	return out.EmailAddress, nil
}

func (c *Client) doJSON(ctx context.Context, method, url, token string, body any, out any) error {
	var reader io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}

		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if kind := integrations.Classify(resp, err); kind != "" {
		return integrations.BuildErr(kind, resp, err)
	}

	defer resp.Body.Close()

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func escapeQuery(q string) string {
	return strings.ReplaceAll(q, " ", "+")
}

func parseInternalDate(ms string) (time.Time, error) {
	var millis int64

	_, err := fmt.Sscanf(ms, "%d", &millis)
	if err != nil {
		return time.Time{}, err
	}

	return time.UnixMilli(millis).UTC(), nil
}

func extractTextPlain(topMime, topData string, parts []struct {
	MimeType string `json:"mimeType"`
	Body     struct {
		Data string `json:"data"`
	} `json:"body"`
}) string {
	if topMime == "text/plain" && topData != "" {
		return decodeBase64URL(topData)
	}

	for _, p := range parts {
		if p.MimeType == "text/plain" && p.Body.Data != "" {
			return decodeBase64URL(p.Body.Data)
		}
	}

	return ""
}

func decodeBase64URL(s string) string {
	b, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(s)
	if err != nil {
		return ""
	}

	return string(b)
}
