// Package sendwebhook implements the send_webhook action (spec.md
// §4.10): posts a payload to an arbitrary URL. Unlike the other
// actions, this one needs no OAuth credential, so it talks to
// internal/integrations/webhook directly instead of going through the
// dispatcher.
package sendwebhook

import (
	"context"
	"fmt"

	"github.com/dukex/integrail/internal/actions/actionutil"
	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/integrations/webhook"
	"github.com/dukex/integrail/internal/registry"
)

// ActionType is the action_id string used in workflow step config.
const ActionType = "send_webhook"

var schema = map[string]any{
	"type":     "object",
	"required": []any{"url"},
	"properties": map[string]any{
		"url":     map[string]any{"type": "string"},
		"payload": map[string]any{},
	},
}

var client = webhook.New()

// Spec registers this action with its JSON schema and factory.
func Spec() registry.ActionSpec {
	return registry.ActionSpec{Type: ActionType, App: domain.AppWebhook, Schema: schema, Factory: execute}
}

func execute(ctx context.Context, _ registry.Caller, _ string, _ domain.App, config map[string]any) (map[string]any, error) {
	url := actionutil.Str(config, "url")
	if url == "" {
		return actionutil.ConfigFailure(fmt.Sprintf("%s: url is required", ActionType)), nil
	}

	var payload any = config["payload"]
	if payload == nil {
		payload = config
	}

	payload = webhook.WrapForSlack(url, payload)

	statusCode, err := client.Send(ctx, url, payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ActionType, err)
	}

	return actionutil.Success("sent", map[string]any{"status_code": statusCode}), nil
}
