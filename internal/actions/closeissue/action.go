// Package closeissue implements the close_issue action (spec.md
// §4.10): closes a GitHub issue.
package closeissue

import (
	"context"
	"fmt"

	"github.com/dukex/integrail/internal/actions/actionutil"
	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/registry"
)

// ActionType is the action_id string used in workflow step config.
const ActionType = "close_issue"

var schema = map[string]any{
	"type":     "object",
	"required": []any{"owner", "repo", "issueNumber"},
	"properties": map[string]any{
		"owner":       map[string]any{"type": "string"},
		"repo":        map[string]any{"type": "string"},
		"issueNumber": map[string]any{"type": "string"},
	},
}

// Spec registers this action with its JSON schema and factory.
func Spec() registry.ActionSpec {
	return registry.ActionSpec{Type: ActionType, App: domain.AppGitHub, Schema: schema, Factory: execute}
}

func execute(ctx context.Context, call registry.Caller, userID string, app domain.App, config map[string]any) (map[string]any, error) {
	owner := actionutil.Str(config, "owner")
	repo := actionutil.Str(config, "repo")
	issueNumber := actionutil.Str(config, "issueNumber")

	if owner == "" || repo == "" || issueNumber == "" {
		return actionutil.ConfigFailure(fmt.Sprintf("%s: owner, repo and issueNumber are required", ActionType)), nil
	}

	if _, err := call(ctx, userID, app, "closeIssue", map[string]any{
		"owner": owner, "repo": repo, "issueNumber": issueNumber,
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", ActionType, err)
	}

	return actionutil.Success("closed", nil), nil
}
