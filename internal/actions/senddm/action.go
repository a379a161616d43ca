// Package senddm implements the send_dm action (spec.md §4.10): sends a
// Slack direct message to a user.
package senddm

import (
	"context"
	"fmt"

	"github.com/dukex/integrail/internal/actions/actionutil"
	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/registry"
)

// ActionType is the action_id string used in workflow step config.
const ActionType = "send_dm"

var schema = map[string]any{
	"type":     "object",
	"required": []any{"text"},
	"properties": map[string]any{
		"userId":  map[string]any{"type": "string"},
		"user_id": map[string]any{"type": "string"},
		"text":    map[string]any{"type": "string"},
	},
}

// Spec registers this action with its JSON schema and factory.
func Spec() registry.ActionSpec {
	return registry.ActionSpec{Type: ActionType, App: domain.AppSlack, Schema: schema, Factory: execute}
}

// execute sends a DM to userId/user_id when given; per spec.md §4.10,
// that field is optional and falls back to the installing user recorded
// in the Slack credential's metadata at connect time.
func execute(ctx context.Context, call registry.Caller, userID string, app domain.App, config map[string]any) (map[string]any, error) {
	target := actionutil.FirstStr(config, "userId", "user_id")
	text := actionutil.Str(config, "text")

	if text == "" {
		return actionutil.ConfigFailure(fmt.Sprintf("%s: text is required", ActionType)), nil
	}

	if target == "" {
		var err error

		target, err = installingUserID(ctx, call, userID, app)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ActionType, err)
		}

		if target == "" {
			return actionutil.ConfigFailure(fmt.Sprintf("%s: userId is required and no installing user is on record", ActionType)), nil
		}
	}

	result, err := call(ctx, userID, app, "postDirectMessage", map[string]any{"userId": target, "text": text})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ActionType, err)
	}

	channel, _ := result.(string)

	return actionutil.Success("sent", map[string]any{"channel": channel}), nil
}

func installingUserID(ctx context.Context, call registry.Caller, userID string, app domain.App) (string, error) {
	raw, err := call(ctx, userID, app, registry.MethodCredentialMetadata, nil)
	if err != nil {
		return "", err
	}

	metadata, _ := raw.(map[string]any)

	return actionutil.FirstStr(metadata, "user_id", "installing_user_id"), nil
}
