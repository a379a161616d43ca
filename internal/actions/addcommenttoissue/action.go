// Package addcommenttoissue implements the add_comment_to_issue action
// (spec.md §4.10): posts a comment on a GitHub issue or pull request.
package addcommenttoissue

import (
	"context"
	"fmt"

	"github.com/dukex/integrail/internal/actions/actionutil"
	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/registry"
)

// ActionType is the action_id string used in workflow step config.
const ActionType = "add_comment_to_issue"

var schema = map[string]any{
	"type":     "object",
	"required": []any{"owner", "repo", "issueNumber", "comment"},
	"properties": map[string]any{
		"owner":       map[string]any{"type": "string"},
		"repo":        map[string]any{"type": "string"},
		"issueNumber": map[string]any{"type": "string"},
		"comment":     map[string]any{"type": "string"},
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
	comment := actionutil.Str(config, "comment")

	if owner == "" || repo == "" || issueNumber == "" {
		return actionutil.ConfigFailure(fmt.Sprintf("%s: owner, repo and issueNumber are required", ActionType)), nil
	}

	if _, err := call(ctx, userID, app, "addComment", map[string]any{
		"owner": owner, "repo": repo, "issueNumber": issueNumber, "comment": comment,
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", ActionType, err)
	}

	return actionutil.Success("commented", nil), nil
}
