// Package assignissue implements the assign_issue action (spec.md
// §4.10): assigns users to a GitHub issue.
package assignissue

import (
	"context"
	"fmt"

	"github.com/dukex/integrail/internal/actions/actionutil"
	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/registry"
)

// ActionType is the action_id string used in workflow step config.
const ActionType = "assign_issue"

var schema = map[string]any{
	"type":     "object",
	"required": []any{"owner", "repo", "issueNumber", "assignees"},
	"properties": map[string]any{
		"owner":       map[string]any{"type": "string"},
		"repo":        map[string]any{"type": "string"},
		"issueNumber": map[string]any{"type": "string"},
		"assignees":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
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
	assignees := actionutil.StrSlice(config, "assignees")

	if owner == "" || repo == "" || issueNumber == "" || len(assignees) == 0 {
		return actionutil.ConfigFailure(fmt.Sprintf("%s: owner, repo, issueNumber and assignees are required", ActionType)), nil
	}

	if _, err := call(ctx, userID, app, "assignIssue", map[string]any{
		"owner": owner, "repo": repo, "issueNumber": issueNumber, "assignees": assignees,
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", ActionType, err)
	}

	return actionutil.Success("assigned", nil), nil
}
