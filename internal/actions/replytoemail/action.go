// Package replytoemail implements the reply_to_email action
// (spec.md §4.10): replies within an existing Gmail thread.
package replytoemail

import (
	"context"
	"fmt"

	"github.com/dukex/integrail/internal/actions/actionutil"
	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/registry"
)

// ActionType is the action_id string used in workflow step config.
const ActionType = "reply_to_email"

var schema = map[string]any{
	"type":     "object",
	"required": []any{"to", "subject", "body", "messageId", "threadId"},
	"properties": map[string]any{
		"to":        map[string]any{"type": "string"},
		"subject":   map[string]any{"type": "string"},
		"body":      map[string]any{"type": "string"},
		"messageId": map[string]any{"type": "string"},
		"threadId":  map[string]any{"type": "string"},
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
	messageID := actionutil.Str(config, "messageId")
	threadID := actionutil.Str(config, "threadId")

	if to == "" || messageID == "" {
		return actionutil.ConfigFailure(fmt.Sprintf("%s: to and messageId are required", ActionType)), nil
	}

	if _, err := call(ctx, userID, app, "sendMessage", map[string]any{
		"to": to, "subject": subject, "body": body, "inReplyTo": messageID, "threadId": threadID,
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", ActionType, err)
	}

	return actionutil.Success("sent", nil), nil
}
