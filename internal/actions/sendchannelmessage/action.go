// Package sendchannelmessage implements the send_channel_message action
// (spec.md §4.10): posts a message to a Slack channel.
package sendchannelmessage

import (
	"context"
	"fmt"

	"github.com/dukex/integrail/internal/actions/actionutil"
	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/registry"
)

// ActionType is the action_id string used in workflow step config.
const ActionType = "send_channel_message"

var schema = map[string]any{
	"type":     "object",
	"required": []any{"channel"},
	"properties": map[string]any{
		"channel":     map[string]any{"type": "string"},
		"message":     map[string]any{"type": "string"},
		"text":        map[string]any{"type": "string"},
		"description": map[string]any{"type": "string"},
	},
	"anyOf": []any{
		map[string]any{"required": []any{"message"}},
		map[string]any{"required": []any{"text"}},
		map[string]any{"required": []any{"description"}},
	},
}

// Spec registers this action with its JSON schema and factory.
func Spec() registry.ActionSpec {
	return registry.ActionSpec{
		Type:    ActionType,
		App:     domain.AppSlack,
		Schema:  schema,
		Factory: execute,
	}
}

func execute(ctx context.Context, call registry.Caller, userID string, app domain.App, config map[string]any) (map[string]any, error) {
	channel := actionutil.Str(config, "channel")
	text := actionutil.FirstStr(config, "message", "text", "description")

	if channel == "" || text == "" {
		return actionutil.ConfigFailure(fmt.Sprintf("%s: channel and one of message/text/description are required", ActionType)), nil
	}

	result, err := call(ctx, userID, app, "postMessage", map[string]any{"channel": channel, "text": text})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ActionType, err)
	}

	ts, _ := result.(string)

	return actionutil.Success("sent", map[string]any{"ts": ts}), nil
}
