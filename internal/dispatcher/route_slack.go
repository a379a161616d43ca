package dispatcher

import (
	"context"
	"fmt"

	"github.com/dukex/integrail/internal/errkind"
)

func (d *Dispatcher) routeSlack(ctx context.Context, method, token string, args map[string]any) (any, error) {
	switch method {
	case "listChannels":
		return d.slack.ListChannels(ctx, token)
	case "listUsers":
		return d.slack.ListUsers(ctx, token)
	case "getWorkspaceInfo":
		return d.slack.GetWorkspaceInfo(ctx, token)
	case "getCurrentUser":
		return d.slack.GetCurrentUser(ctx, token)
	case "listMessages":
		return d.slack.ListMessages(ctx, token, str(args, "channel"), intArg(args, "limit", 10))
	case "postMessage":
		return d.slack.PostMessage(ctx, token, str(args, "channel"), str(args, "text"))
	case "postDirectMessage":
		return d.slack.PostDirectMessage(ctx, token, str(args, "userId"), str(args, "text"))
	case "updateMessage":
		return nil, d.slack.UpdateMessage(ctx, token, str(args, "channel"), str(args, "messageTs"), str(args, "text"))
	case "addReaction":
		return nil, d.slack.AddReaction(ctx, token, str(args, "channel"), str(args, "messageTs"), str(args, "reactionName"))
	default:
		return nil, errkind.New(errkind.InvalidRequest, fmt.Errorf("dispatcher: unknown slack method %q", method))
	}
}
