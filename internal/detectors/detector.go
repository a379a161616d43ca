// Package detectors implements the Trigger Detectors (C4): one "fetch
// latest items" routine per trigger type, returning normalized candidates
// with stable external ids sorted newest-first.
package detectors

import (
	"context"
	"time"

	"github.com/dukex/integrail/internal/domain"
)

// Caller is the subset of the Dispatcher detectors depend on, accepted as
// an interface so detectors can be tested without a real dispatcher.
type Caller interface {
	Call(ctx context.Context, userID string, app domain.App, method string, args map[string]any) (any, error)
}

// Candidate is one normalized external event a detector surfaced.
type Candidate struct {
	ExternalID string
	Timestamp  time.Time
	Data       map[string]any
}

// Detector fetches a normalized, newest-first list of candidate events
// for one trigger type. A detector missing required config returns an
// empty list, not an error.
type Detector interface {
	Fetch(ctx context.Context, caller Caller, userID string, config map[string]any) ([]Candidate, error)
}

// Registry maps trigger_id to its Detector implementation.
var Registry = map[string]Detector{
	"new_email":            NewEmail{},
	"email_starred":        EmailStarred{},
	"new_channel_message":  NewChannelMessage{},
	"new_issue":            NewIssue{},
	"pull_request_opened":  PullRequestOpened{},
	"issue_commented":      IssueCommented{},
	"commit_pushed":        CommitPushed{},
}

func configStr(config map[string]any, key string) string {
	v, _ := config[key].(string)

	return v
}

func sortNewestFirst(candidates []Candidate) []Candidate {
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].Timestamp.After(candidates[j-1].Timestamp); j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	return candidates
}
