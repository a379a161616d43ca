package detectors

import (
	"context"

	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/integrations/github"
)

func requireOwnerRepo(config map[string]any) (owner, repo string, ok bool) {
	owner = configStr(config, "owner")
	repo = configStr(config, "repo")

	return owner, repo, owner != "" && repo != ""
}

// NewIssue implements the new_issue trigger: requires owner/repo; state
// filter is open, pull requests excluded.
type NewIssue struct{}

// Fetch lists open issues for owner/repo, excluding pull requests.
func (NewIssue) Fetch(ctx context.Context, caller Caller, userID string, config map[string]any) ([]Candidate, error) {
	owner, repo, ok := requireOwnerRepo(config)
	if !ok {
		return nil, nil
	}

	raw, err := caller.Call(ctx, userID, domain.AppGitHub, "listIssues", map[string]any{"owner": owner, "repo": repo})
	if err != nil {
		return nil, err
	}

	issues, _ := raw.([]github.Issue)

	candidates := make([]Candidate, 0, len(issues))

	for _, i := range issues {
		if i.IsPR {
			continue
		}

		candidates = append(candidates, issueCandidate(i))
	}

	return sortNewestFirst(candidates), nil
}

// PullRequestOpened implements the pull_request_opened trigger: requires
// owner/repo; state filter is open.
type PullRequestOpened struct{}

// Fetch lists open pull requests for owner/repo.
func (PullRequestOpened) Fetch(ctx context.Context, caller Caller, userID string, config map[string]any) ([]Candidate, error) {
	owner, repo, ok := requireOwnerRepo(config)
	if !ok {
		return nil, nil
	}

	raw, err := caller.Call(ctx, userID, domain.AppGitHub, "listPullRequests", map[string]any{"owner": owner, "repo": repo})
	if err != nil {
		return nil, err
	}

	prs, _ := raw.([]github.Issue)

	candidates := make([]Candidate, 0, len(prs))
	for _, pr := range prs {
		candidates = append(candidates, issueCandidate(pr))
	}

	return sortNewestFirst(candidates), nil
}

func issueCandidate(i github.Issue) Candidate {
	return Candidate{
		ExternalID: i.Number,
		Timestamp:  i.CreatedAt,
		Data: map[string]any{
			"number": i.Number,
			"title":  i.Title,
			"body":   i.Body,
			"user":   i.User,
		},
	}
}

// IssueCommented implements the issue_commented trigger: requires
// owner/repo; fans out across open issues and pull requests.
type IssueCommented struct{}

// Fetch lists comments across every open issue/PR for owner/repo.
func (IssueCommented) Fetch(ctx context.Context, caller Caller, userID string, config map[string]any) ([]Candidate, error) {
	owner, repo, ok := requireOwnerRepo(config)
	if !ok {
		return nil, nil
	}

	issuesRaw, err := caller.Call(ctx, userID, domain.AppGitHub, "listIssues", map[string]any{"owner": owner, "repo": repo})
	if err != nil {
		return nil, err
	}

	issues, _ := issuesRaw.([]github.Issue)

	var candidates []Candidate

	for _, issue := range issues {
		commentsRaw, err := caller.Call(ctx, userID, domain.AppGitHub, "listComments", map[string]any{
			"owner": owner, "repo": repo, "issueNumber": issue.Number,
		})
		if err != nil {
			return nil, err
		}

		comments, _ := commentsRaw.([]github.Comment)

		for _, c := range comments {
			candidates = append(candidates, Candidate{
				ExternalID: c.ID,
				Timestamp:  c.CreatedAt,
				Data: map[string]any{
					"id":           c.ID,
					"body":         c.Body,
					"user":         c.User,
					"issue_number": issue.Number,
				},
			})
		}
	}

	return sortNewestFirst(candidates), nil
}

// CommitPushed implements the commit_pushed trigger: requires owner/repo;
// branch is optional (omitting it means the repo's default branch).
type CommitPushed struct{}

// Fetch lists recent commits on the configured branch, or the repo's
// default branch when omitted.
func (CommitPushed) Fetch(ctx context.Context, caller Caller, userID string, config map[string]any) ([]Candidate, error) {
	owner, repo, ok := requireOwnerRepo(config)
	if !ok {
		return nil, nil
	}

	branch := configStr(config, "branch")

	raw, err := caller.Call(ctx, userID, domain.AppGitHub, "listCommits", map[string]any{
		"owner": owner, "repo": repo, "branch": branch,
	})
	if err != nil {
		return nil, err
	}

	commits, _ := raw.([]github.Commit)

	candidates := make([]Candidate, 0, len(commits))
	for _, c := range commits {
		candidates = append(candidates, Candidate{
			ExternalID: c.SHA,
			Timestamp:  c.Timestamp,
			Data: map[string]any{
				"sha":     c.SHA,
				"message": c.Message,
				"author":  c.Author,
			},
		})
	}

	return sortNewestFirst(candidates), nil
}
