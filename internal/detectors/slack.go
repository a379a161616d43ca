package detectors

import (
	"context"

	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/integrations/slack"
)

const channelMessageLimit = 10

// NewChannelMessage implements the new_channel_message trigger: requires
// "channel"; a missing channel yields an empty list, not a failure.
type NewChannelMessage struct{}

// Fetch lists up to 10 recent messages in the configured channel.
func (NewChannelMessage) Fetch(ctx context.Context, caller Caller, userID string, config map[string]any) ([]Candidate, error) {
	channel := configStr(config, "channel")
	if channel == "" {
		return nil, nil
	}

	raw, err := caller.Call(ctx, userID, domain.AppSlack, "listMessages", map[string]any{
		"channel": channel, "limit": channelMessageLimit,
	})
	if err != nil {
		return nil, err
	}

	msgs, _ := raw.([]slack.Message)

	candidates := make([]Candidate, 0, len(msgs))
	for _, m := range msgs {
		candidates = append(candidates, Candidate{
			ExternalID: m.TS,
			Timestamp:  m.Time,
			Data: map[string]any{
				"ts":      m.TS,
				"user":    m.User,
				"text":    m.Text,
				"channel": m.Channel,
			},
		})
	}

	return sortNewestFirst(candidates), nil
}
