// Package sendemail implements the send_email action (spec.md §4.10):
// sends a new Gmail message.
package sendemail

import (
	"context"
	"fmt"

	"github.com/dukex/integrail/internal/actions/actionutil"
	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/registry"
)

// ActionType is the action_id string used in workflow step config.
const ActionType = "send_email"

var schema = map[string]any{
	"type":     "object",
	"required": []any{"to", "subject", "body"},
	"properties": map[string]any{
		"to":      map[string]any{"type": "string"},
		"subject": map[string]any{"type": "string"},
		"body":    map[string]any{"type": "string"},
	},
}

// Spec registers this action with its JSON schema and factory.
func Spec() registry.ActionSpec {
	return registry.ActionSpec{Type: ActionType, App: domain.AppGmail, Schema: schema, Factory: execute}
}

func execute(ctx context.Context, call registry.Caller, userID string, app domain.App, config map[string]any) (map[string]any, error) {
	to := actionutil.Str(config, "to")
	subject := actionutil.Str(config, "subject")
	body := actionutil.Str(config, "body")

	if to == "" || subject == "" {
		return actionutil.ConfigFailure(fmt.Sprintf("%s: to and subject are required", ActionType)), nil
	}

	if _, err := call(ctx, userID, app, "sendMessage", map[string]any{
		"to": to, "subject": subject, "body": body,
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", ActionType, err)
	}

	return actionutil.Success("sent", nil), nil
}
