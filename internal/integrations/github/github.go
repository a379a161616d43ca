// Package github is a thin adapter over the GitHub REST API.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dukex/integrail/internal/integrations"
)

const baseURL = "https://api.github.com"

// Client is a stateless GitHub adapter.
type Client struct {
	HTTPClient *http.Client
}

// New returns a Client with a sane default timeout.
func New() *Client {
	return &Client{HTTPClient: &http.Client{Timeout: 15 * time.Second}}
}

// Issue is the normalized shape for both issues and pull requests (GitHub
// represents PRs as issues with a pull_request field).
type Issue struct {
	Number    string
	Title     string
	Body      string
	User      string
	CreatedAt time.Time
	IsPR      bool
}

// Commit is a normalized commit in a branch's history.
type Commit struct {
	SHA       string
	Message   string
	Author    string
	Timestamp time.Time
}

// Comment is a normalized issue/PR comment.
type Comment struct {
	ID        string
	Body      string
	User      string
	CreatedAt time.Time
}

// ListIssues lists open issues for owner/repo (PRs excluded by the caller
// filtering IsPR, since GitHub's issues endpoint includes both).
func (c *Client) ListIssues(ctx context.Context, token, owner, repo string) ([]Issue, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/issues?state=open&sort=created&direction=desc", baseURL, owner, repo)

	var raw []struct {
		Number      int    `json:"number"`
		Title       string `json:"title"`
		Body        string `json:"body"`
		CreatedAt   time.Time `json:"created_at"`
		User        struct {
			Login string `json:"login"`
		} `json:"user"`
		PullRequest *struct{} `json:"pull_request"`
	}

	if err := c.doJSON(ctx, http.MethodGet, url, token, nil, &raw); err != nil {
		return nil, err
	}

	issues := make([]Issue, 0, len(raw))
	for _, r := range raw {
		issues = append(issues, Issue{
			Number:    strconv.Itoa(r.Number),
			Title:     r.Title,
			Body:      r.Body,
			User:      r.User.Login,
			CreatedAt: r.CreatedAt,
			IsPR:      r.PullRequest != nil,
		})
	}

	return issues, nil
}

// ListPullRequests lists open pull requests for owner/repo.
func (c *Client) ListPullRequests(ctx context.Context, token, owner, repo string) ([]Issue, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls?state=open&sort=created&direction=desc", baseURL, owner, repo)

	var raw []struct {
		Number    int       `json:"number"`
		Title     string    `json:"title"`
		Body      string    `json:"body"`
		CreatedAt time.Time `json:"created_at"`
		User      struct {
			Login string `json:"login"`
		} `json:"user"`
	}

	if err := c.doJSON(ctx, http.MethodGet, url, token, nil, &raw); err != nil {
		return nil, err
	}

	prs := make([]Issue, 0, len(raw))
	for _, r := range raw {
		prs = append(prs, Issue{
			Number:    strconv.Itoa(r.Number),
			Title:     r.Title,
			Body:      r.Body,
			User:      r.User.Login,
			CreatedAt: r.CreatedAt,
			IsPR:      true,
		})
	}

	return prs, nil
}

// ListComments lists the comments on a single issue or pull request of
// owner/repo, in the API's default order (no sort parameter is sent);
// detectors call it once per issue.
func (c *Client) ListComments(ctx context.Context, token, owner, repo, issueNumber string) ([]Comment, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%s/comments", baseURL, owner, repo, issueNumber)

	var raw []struct {
		ID        int64     `json:"id"`
		Body      string    `json:"body"`
		CreatedAt time.Time `json:"created_at"`
		User      struct {
			Login string `json:"login"`
		} `json:"user"`
	}

	if err := c.doJSON(ctx, http.MethodGet, url, token, nil, &raw); err != nil {
		return nil, err
	}

	comments := make([]Comment, 0, len(raw))
	for _, r := range raw {
		comments = append(comments, Comment{
			ID:        strconv.FormatInt(r.ID, 10),
			Body:      r.Body,
			User:      r.User.Login,
			CreatedAt: r.CreatedAt,
		})
	}

	return comments, nil
}

// ListCommits lists commits on branch (empty branch means the repo's
// default branch).
func (c *Client) ListCommits(ctx context.Context, token, owner, repo, branch string) ([]Commit, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/commits", baseURL, owner, repo)
	if branch != "" {
		url += "?sha=" + branch
	}

	var raw []struct {
		SHA    string `json:"sha"`
		Commit struct {
			Message string `json:"message"`
			Author  struct {
				Name string    `json:"name"`
				Date time.Time `json:"date"`
			} `json:"author"`
		} `json:"commit"`
	}

	if err := c.doJSON(ctx, http.MethodGet, url, token, nil, &raw); err != nil {
		return nil, err
	}

	commits := make([]Commit, 0, len(raw))
	for _, r := range raw {
		commits = append(commits, Commit{
			SHA:       r.SHA,
			Message:   r.Commit.Message,
			Author:    r.Commit.Author.Name,
			Timestamp: r.Commit.Author.Date,
		})
	}

	return commits, nil
}

// CreateIssue opens a new issue.
func (c *Client) CreateIssue(ctx context.Context, token, owner, repo, title, body string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/issues", baseURL, owner, repo)

	var out struct {
		Number int `json:"number"`
	}

	payload := map[string]any{"title": title, "body": body}

	if err := c.doJSON(ctx, http.MethodPost, url, token, payload, &out); err != nil {
		return "", err
	}

	return strconv.Itoa(out.Number), nil
}

// AddComment posts a comment on an issue or PR.
func (c *Client) AddComment(ctx context.Context, token, owner, repo, issueNumber, body string) error {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%s/comments", baseURL, owner, repo, issueNumber)

	return c.doJSON(ctx, http.MethodPost, url, token, map[string]any{"body": body}, nil)
}

// CloseIssue sets an issue's state to closed.
func (c *Client) CloseIssue(ctx context.Context, token, owner, repo, issueNumber string) error {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%s", baseURL, owner, repo, issueNumber)

	return c.doJSON(ctx, http.MethodPatch, url, token, map[string]any{"state": "closed"}, nil)
}

// AssignIssue assigns users to an issue.
func (c *Client) AssignIssue(ctx context.Context, token, owner, repo, issueNumber string, assignees []string) error {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%s/assignees", baseURL, owner, repo, issueNumber)

	return c.doJSON(ctx, http.MethodPost, url, token, map[string]any{"assignees": assignees}, nil)
}

// ListRepos is on the dispatcher's cacheable list (5 min TTL).
func (c *Client) ListRepos(ctx context.Context, token string) ([]string, error) {
	var raw []struct {
		FullName string `json:"full_name"`
	}

	if err := c.doJSON(ctx, http.MethodGet, baseURL+"/user/repos", token, nil, &raw); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(raw))
	for _, r := range raw {
		names = append(names, r.FullName)
	}

	return names, nil
}

// GetCurrentUser is on the dispatcher's cacheable list (10 min TTL).
func (c *Client) GetCurrentUser(ctx context.Context, token string) (string, error) {
	var out struct {
		Login string `json:"login"`
	}

	if err := c.doJSON(ctx, http.MethodGet, baseURL+"/user", token, nil, &out); err != nil {
		return "", err
	}

	return out.Login, nil
}

func (c *Client) doJSON(ctx context.Context, method, url, token string, body any, out any) error {
	var reader *bytes.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}

		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.HTTPClient.Do(req)
	if kind := integrations.Classify(resp, err); kind != "" {
		return integrations.BuildErr(kind, resp, err)
	}

	defer resp.Body.Close()

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
