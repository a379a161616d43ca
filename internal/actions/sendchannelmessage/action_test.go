package sendchannelmessage

import (
	"context"
	"errors"
	"testing"

	"github.com/dukex/integrail/internal/domain"
)

func TestExecute(t *testing.T) {
	caller := func(ctx context.Context, userID string, app domain.App, method string, args map[string]any) (any, error) {
		if method != "postMessage" {
			t.Fatalf("method = %q, want postMessage", method)
		}

		return map[string]any{"ts": "123.456"}, nil
	}

	result, err := execute(context.Background(), caller, "user-1", domain.AppSlack, map[string]any{
		"channel": "#general", "text": "hello",
	})
	if err != nil {
		t.Fatalf("execute() unexpected error: %v", err)
	}

	if result["status"] != "success" {
		t.Fatalf("result = %+v, want status success", result)
	}
}

func TestExecuteMissingFields(t *testing.T) {
	result, err := execute(context.Background(), nil, "user-1", domain.AppSlack, map[string]any{"channel": "#general"})
	if err != nil {
		t.Fatalf("execute() unexpected error for missing text: %v", err)
	}

	if result["status"] != "failed" {
		t.Fatalf("result = %+v, want status failed for missing text", result)
	}
}

func TestExecutePropagatesCallerError(t *testing.T) {
	caller := func(ctx context.Context, userID string, app domain.App, method string, args map[string]any) (any, error) {
		return nil, errors.New("not connected")
	}

	if _, err := execute(context.Background(), caller, "user-1", domain.AppSlack, map[string]any{
		"channel": "#general", "text": "hi",
	}); err == nil {
		t.Fatal("execute() expected error propagated from caller")
	}
}
