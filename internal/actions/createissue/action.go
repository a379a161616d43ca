// Package createissue implements the create_issue action (spec.md
// §4.10): opens a new GitHub issue.
package createissue

import (
	"context"
	"fmt"

	"github.com/dukex/integrail/internal/actions/actionutil"
	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/registry"
)

// ActionType is the action_id string used in workflow step config.
const ActionType = "create_issue"

var schema = map[string]any{
	"type":     "object",
	"required": []any{"owner", "repo", "title"},
	"properties": map[string]any{
		"owner": map[string]any{"type": "string"},
		"repo":  map[string]any{"type": "string"},
		"title": map[string]any{"type": "string"},
		"body":  map[string]any{"type": "string"},
	},
}

// Spec registers this action with its JSON schema and factory.
func Spec() registry.ActionSpec {
	return registry.ActionSpec{Type: ActionType, App: domain.AppGitHub, Schema: schema, Factory: execute}
}

func execute(ctx context.Context, call registry.Caller, userID string, app domain.App, config map[string]any) (map[string]any, error) {
	owner := actionutil.Str(config, "owner")
	repo := actionutil.Str(config, "repo")
	title := actionutil.Str(config, "title")
	body := actionutil.Str(config, "body")

	if owner == "" || repo == "" || title == "" {
		return actionutil.ConfigFailure(fmt.Sprintf("%s: owner, repo and title are required", ActionType)), nil
	}

	result, err := call(ctx, userID, app, "createIssue", map[string]any{
		"owner": owner, "repo": repo, "title": title, "body": body,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ActionType, err)
	}

	issueNumber, _ := result.(string)

	return actionutil.Success("created", map[string]any{"issue_number": issueNumber}), nil
}
