// Package addlabeltoemail implements the add_label_to_email action
// (spec.md §4.10): applies a Gmail label to a message.
package addlabeltoemail

import (
	"context"
	"fmt"

	"github.com/dukex/integrail/internal/actions/actionutil"
	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/registry"
)

// ActionType is the action_id string used in workflow step config.
const ActionType = "add_label_to_email"

var schema = map[string]any{
	"type":     "object",
	"required": []any{"messageId", "label"},
	"properties": map[string]any{
		"messageId": map[string]any{"type": "string"},
		"label":     map[string]any{"type": "string"},
	},
}

// Spec registers this action with its JSON schema and factory.
func Spec() registry.ActionSpec {
	return registry.ActionSpec{Type: ActionType, App: domain.AppGmail, Schema: schema, Factory: execute}
}

func execute(ctx context.Context, call registry.Caller, userID string, app domain.App, config map[string]any) (map[string]any, error) {
	messageID := actionutil.Str(config, "messageId")
	label := actionutil.Str(config, "label")

	if messageID == "" || label == "" {
		return actionutil.ConfigFailure(fmt.Sprintf("%s: messageId and label are required", ActionType)), nil
	}

	if _, err := call(ctx, userID, app, "modifyLabels", map[string]any{
		"messageId": messageID, "addLabelIds": []string{label}, "removeLabelIds": []string{},
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", ActionType, err)
	}

	return actionutil.Success("labeled", nil), nil
}
