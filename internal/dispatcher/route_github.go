package dispatcher

import (
	"context"
	"fmt"

	"github.com/dukex/integrail/internal/errkind"
)

func (d *Dispatcher) routeGitHub(ctx context.Context, method, token string, args map[string]any) (any, error) {
	switch method {
	case "listRepos":
		return d.github.ListRepos(ctx, token)
	case "getCurrentUser":
		return d.github.GetCurrentUser(ctx, token)
	case "listIssues":
		return d.github.ListIssues(ctx, token, str(args, "owner"), str(args, "repo"))
	case "listPullRequests":
		return d.github.ListPullRequests(ctx, token, str(args, "owner"), str(args, "repo"))
	case "listComments":
		return d.github.ListComments(ctx, token, str(args, "owner"), str(args, "repo"), str(args, "issueNumber"))
	case "listCommits":
		return d.github.ListCommits(ctx, token, str(args, "owner"), str(args, "repo"), str(args, "branch"))
	case "createIssue":
		return d.github.CreateIssue(ctx, token, str(args, "owner"), str(args, "repo"), str(args, "title"), str(args, "body"))
	case "addComment":
		return nil, d.github.AddComment(ctx, token, str(args, "owner"), str(args, "repo"), str(args, "issueNumber"), str(args, "comment"))
	case "closeIssue":
		return nil, d.github.CloseIssue(ctx, token, str(args, "owner"), str(args, "repo"), str(args, "issueNumber"))
	case "assignIssue":
		return nil, d.github.AssignIssue(ctx, token, str(args, "owner"), str(args, "repo"), str(args, "issueNumber"), strSlice(args, "assignees"))
	default:
		return nil, errkind.New(errkind.InvalidRequest, fmt.Errorf("dispatcher: unknown github method %q", method))
	}
}
