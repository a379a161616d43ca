// Package updatemessage implements the update_message action
// (spec.md §4.10): edits a previously posted Slack message.
package updatemessage

import (
	"context"
	"fmt"

	"github.com/dukex/integrail/internal/actions/actionutil"
	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/registry"
)

// ActionType is the action_id string used in workflow step config.
const ActionType = "update_message"

var schema = map[string]any{
	"type":     "object",
	"required": []any{"channel", "messageTs", "text"},
	"properties": map[string]any{
		"channel":   map[string]any{"type": "string"},
		"messageTs": map[string]any{"type": "string"},
		"text":      map[string]any{"type": "string"},
	},
}

// Spec registers this action with its JSON schema and factory.
func Spec() registry.ActionSpec {
	return registry.ActionSpec{Type: ActionType, App: domain.AppSlack, Schema: schema, Factory: execute}
}

func execute(ctx context.Context, call registry.Caller, userID string, app domain.App, config map[string]any) (map[string]any, error) {
	channel := actionutil.Str(config, "channel")
	ts := actionutil.Str(config, "messageTs")
	text := actionutil.Str(config, "text")

	if channel == "" || ts == "" {
		return actionutil.ConfigFailure(fmt.Sprintf("%s: channel and messageTs are required", ActionType)), nil
	}

	if _, err := call(ctx, userID, app, "updateMessage", map[string]any{
		"channel": channel, "messageTs": ts, "text": text,
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", ActionType, err)
	}

	return actionutil.Success("updated", nil), nil
}
