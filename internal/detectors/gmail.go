package detectors

import (
	"context"

	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/integrations/gmail"
)

const (
	gmailListCap      = 10
	gmailHydrateCap   = 5
	defaultNewEmailQ  = "is:unread newer_than:2d"
	starredEmailQuery = "is:starred"
)

// NewEmail implements the new_email trigger: Gmail query defaults to
// "is:unread newer_than:2d" unless overridden.
type NewEmail struct{}

// Fetch lists up to 10 message ids and hydrates the first 5 (the Gmail
// adapter's per-poll detail-fetch cap).
func (NewEmail) Fetch(ctx context.Context, caller Caller, userID string, config map[string]any) ([]Candidate, error) {
	query := configStr(config, "query")
	if query == "" {
		query = defaultNewEmailQ
	}

	return fetchGmailMessages(ctx, caller, userID, query)
}

// EmailStarred implements the email_starred trigger: the query is forced
// to "is:starred" regardless of config.
type EmailStarred struct{}

// Fetch lists up to 10 starred message ids and hydrates the first 5.
func (EmailStarred) Fetch(ctx context.Context, caller Caller, userID string, config map[string]any) ([]Candidate, error) {
	return fetchGmailMessages(ctx, caller, userID, starredEmailQuery)
}

func fetchGmailMessages(ctx context.Context, caller Caller, userID, query string) ([]Candidate, error) {
	raw, err := caller.Call(ctx, userID, domain.AppGmail, "listMessages", map[string]any{
		"query": query, "maxResults": gmailListCap,
	})
	if err != nil {
		return nil, err
	}

	ids, _ := raw.([]string)

	hydrateCount := len(ids)
	if hydrateCount > gmailHydrateCap {
		hydrateCount = gmailHydrateCap
	}

	candidates := make([]Candidate, 0, hydrateCount)

	for _, id := range ids[:hydrateCount] {
		msgAny, err := caller.Call(ctx, userID, domain.AppGmail, "getMessage", map[string]any{"id": id})
		if err != nil {
			return nil, err
		}

		msg, ok := msgAny.(*gmail.Message)
		if !ok {
			continue
		}

		candidates = append(candidates, Candidate{
			ExternalID: msg.ID,
			Timestamp:  msg.InternalDate,
			Data: map[string]any{
				"id":        msg.ID,
				"thread_id": msg.ThreadID,
				"from":      msg.From,
				"subject":   msg.Subject,
				"body":      msg.Body,
				"label_ids": msg.LabelIDs,
			},
		})
	}

	return sortNewestFirst(candidates), nil
}
