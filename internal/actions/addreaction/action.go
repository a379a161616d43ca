// Package addreaction implements the add_reaction action (spec.md
// §4.10): adds an emoji reaction to a Slack message.
package addreaction

import (
	"context"
	"fmt"

	"github.com/dukex/integrail/internal/actions/actionutil"
	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/registry"
)

// ActionType is the action_id string used in workflow step config.
const ActionType = "add_reaction"

var schema = map[string]any{
	"type":     "object",
	"required": []any{"channel", "messageTs", "reactionName"},
	"properties": map[string]any{
		"channel":      map[string]any{"type": "string"},
		"messageTs":    map[string]any{"type": "string"},
		"reactionName": map[string]any{"type": "string"},
	},
}

// Spec registers this action with its JSON schema and factory.
func Spec() registry.ActionSpec {
	return registry.ActionSpec{Type: ActionType, App: domain.AppSlack, Schema: schema, Factory: execute}
}

func execute(ctx context.Context, call registry.Caller, userID string, app domain.App, config map[string]any) (map[string]any, error) {
	channel := actionutil.Str(config, "channel")
	ts := actionutil.Str(config, "messageTs")
	reaction := actionutil.Str(config, "reactionName")

	if channel == "" || ts == "" || reaction == "" {
		return actionutil.ConfigFailure(fmt.Sprintf("%s: channel, messageTs and reactionName are required", ActionType)), nil
	}

	if _, err := call(ctx, userID, app, "addReaction", map[string]any{
		"channel": channel, "messageTs": ts, "reactionName": reaction,
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", ActionType, err)
	}

	return actionutil.Success("reacted", nil), nil
}
