// Package slack is a thin adapter over the Slack Web API.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dukex/integrail/internal/errkind"
	"github.com/dukex/integrail/internal/integrations"
)

const baseURL = "https://slack.com/api"

// Client is a stateless Slack adapter.
type Client struct {
	HTTPClient *http.Client
}

// New returns a Client with a sane default timeout.
func New() *Client {
	return &Client{HTTPClient: &http.Client{Timeout: 15 * time.Second}}
}

// Message is one channel message as returned by conversations.history.
type Message struct {
	TS      string
	User    string
	Text    string
	Channel string
	Time    time.Time
}

// ListMessages returns the latest messages in channel, newest first.
func (c *Client) ListMessages(ctx context.Context, token, channel string, limit int) ([]Message, error) {
	url := fmt.Sprintf("%s/conversations.history?channel=%s&limit=%d", baseURL, channel, limit)

	var out struct {
		OK       bool   `json:"ok"`
		Error    string `json:"error"`
		Messages []struct {
			TS   string `json:"ts"`
			User string `json:"user"`
			Text string `json:"text"`
		} `json:"messages"`
	}

	if err := c.doJSON(ctx, http.MethodGet, url, token, nil, &out); err != nil {
		return nil, err
	}

	if !out.OK {
		return nil, errkind.New(errkind.ProviderError, fmt.Errorf("slack: %s", out.Error))
	}

	msgs := make([]Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		msgs = append(msgs, Message{TS: m.TS, User: m.User, Text: m.Text, Channel: channel, Time: tsToTime(m.TS)})
	}

	return msgs, nil
}

// PostMessage posts text to channel.
func (c *Client) PostMessage(ctx context.Context, token, channel, text string) (string, error) {
	var out struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
		TS    string `json:"ts"`
	}

	payload := map[string]any{"channel": channel, "text": text}

	if err := c.doJSON(ctx, http.MethodPost, baseURL+"/chat.postMessage", token, payload, &out); err != nil {
		return "", err
	}

	if !out.OK {
		return "", errkind.New(errkind.ProviderError, fmt.Errorf("slack: %s", out.Error))
	}

	return out.TS, nil
}

// PostDirectMessage opens (or reuses) a DM with userID and posts text.
func (c *Client) PostDirectMessage(ctx context.Context, token, userID, text string) (string, error) {
	var open struct {
		OK      bool   `json:"ok"`
		Error   string `json:"error"`
		Channel struct {
			ID string `json:"id"`
		} `json:"channel"`
	}

	if err := c.doJSON(ctx, http.MethodPost, baseURL+"/conversations.open", token, map[string]any{"users": userID}, &open); err != nil {
		return "", err
	}

	if !open.OK {
		return "", errkind.New(errkind.ProviderError, fmt.Errorf("slack: %s", open.Error))
	}

	return c.PostMessage(ctx, token, open.Channel.ID, text)
}

// UpdateMessage edits an existing message.
func (c *Client) UpdateMessage(ctx context.Context, token, channel, ts, text string) error {
	var out struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}

	payload := map[string]any{"channel": channel, "ts": ts, "text": text}

	if err := c.doJSON(ctx, http.MethodPost, baseURL+"/chat.update", token, payload, &out); err != nil {
		return err
	}

	if !out.OK {
		return errkind.New(errkind.ProviderError, fmt.Errorf("slack: %s", out.Error))
	}

	return nil
}

// AddReaction adds an emoji reaction to a message.
func (c *Client) AddReaction(ctx context.Context, token, channel, ts, reaction string) error {
	var out struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}

	payload := map[string]any{"channel": channel, "timestamp": ts, "name": reaction}

	if err := c.doJSON(ctx, http.MethodPost, baseURL+"/reactions.add", token, payload, &out); err != nil {
		return err
	}

	if !out.OK {
		return errkind.New(errkind.ProviderError, fmt.Errorf("slack: %s", out.Error))
	}

	return nil
}

// ListChannels is on the dispatcher's cacheable list (5 min TTL).
func (c *Client) ListChannels(ctx context.Context, token string) ([]string, error) {
	var out struct {
		OK       bool `json:"ok"`
		Channels []struct {
			ID string `json:"id"`
		} `json:"channels"`
	}

	if err := c.doJSON(ctx, http.MethodGet, baseURL+"/conversations.list", token, nil, &out); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(out.Channels))
	for _, ch := range out.Channels {
		ids = append(ids, ch.ID)
	}

	return ids, nil
}

// ListUsers is on the dispatcher's cacheable list (5 min TTL).
func (c *Client) ListUsers(ctx context.Context, token string) ([]string, error) {
	var out struct {
		Members []struct {
			ID string `json:"id"`
		} `json:"members"`
	}

	if err := c.doJSON(ctx, http.MethodGet, baseURL+"/users.list", token, nil, &out); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(out.Members))
	for _, m := range out.Members {
		ids = append(ids, m.ID)
	}

	return ids, nil
}

// GetWorkspaceInfo is on the dispatcher's cacheable list (10 min TTL).
func (c *Client) GetWorkspaceInfo(ctx context.Context, token string) (string, error) {
	var out struct {
		Team struct {
			Name string `json:"name"`
		} `json:"team"`
	}

	if err := c.doJSON(ctx, http.MethodGet, baseURL+"/team.info", token, nil, &out); err != nil {
		return "", err
	}

	return out.Team.Name, nil
}

// GetCurrentUser is on the dispatcher's cacheable list (10 min TTL).
func (c *Client) GetCurrentUser(ctx context.Context, token string) (string, error) {
	var out struct {
		UserID string `json:"user_id"`
	}

	if err := c.doJSON(ctx, http.MethodGet, baseURL+"/auth.test", token, nil, &out); err != nil {
		return "", err
	}

	return out.UserID, nil
}

func (c *Client) doJSON(ctx context.Context, method, url, token string, body any, out any) error {
	var reader *bytes.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}

		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.HTTPClient.Do(req)
	if kind := integrations.Classify(resp, err); kind != "" {
		return integrations.BuildErr(kind, resp, err)
	}

	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}

func tsToTime(ts string) time.Time {
	var sec, nsec int64

	_, err := fmt.Sscanf(ts, "%d.%d", &sec, &nsec)
	if err != nil {
		return time.Time{}
	}

	return time.Unix(sec, nsec*1000).UTC()
}
