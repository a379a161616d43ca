package dispatcher

import (
	"context"
	"fmt"

	"github.com/dukex/integrail/internal/errkind"
)

func (d *Dispatcher) routeGmail(ctx context.Context, method, token string, args map[string]any) (any, error) {
	switch method {
	case "listLabels":
		return d.gmail.ListLabels(ctx, token)
	case "getProfile":
		return d.gmail.GetProfile(ctx, token)
	case "listMessages":
		return d.gmail.ListMessages(ctx, token, str(args, "query"), intArg(args, "maxResults", 10))
	case "getMessage":
		return d.gmail.GetMessage(ctx, token, str(args, "id"))
	case "sendMessage":
		return nil, d.gmail.SendMessage(ctx, token, str(args, "to"), str(args, "subject"), str(args, "body"),
			str(args, "inReplyTo"), str(args, "threadId"))
	case "modifyLabels":
		return nil, d.gmail.ModifyLabels(ctx, token, str(args, "messageId"), strSlice(args, "addLabelIds"), strSlice(args, "removeLabelIds"))
	default:
		return nil, errkind.New(errkind.InvalidRequest, fmt.Errorf("dispatcher: unknown gmail method %q", method))
	}
}
