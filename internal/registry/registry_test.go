package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/dukex/integrail/internal/domain"
)

func echoFactory(_ context.Context, _ Caller, userID string, app domain.App, config map[string]any) (map[string]any, error) {
	return map[string]any{"user_id": userID, "app": string(app), "config": config}, nil
}

func testSpec() ActionSpec {
	return ActionSpec{
		Type: "send_channel_message",
		App:  domain.AppSlack,
		Schema: map[string]any{
			"type":     "object",
			"required": []any{"channel", "text"},
			"properties": map[string]any{
				"channel": map[string]any{"type": "string"},
				"text":    map[string]any{"type": "string"},
			},
		},
		Factory: echoFactory,
	}
}

func TestRegistryValidateConfig(t *testing.T) {
	r := New()
	r.RegisterAction(testSpec())

	if err := r.ValidateConfig("send_channel_message", map[string]any{"channel": "#general", "text": "hi"}); err != nil {
		t.Fatalf("ValidateConfig() unexpected error: %v", err)
	}

	if err := r.ValidateConfig("send_channel_message", map[string]any{"channel": "#general"}); err == nil {
		t.Fatal("ValidateConfig() expected error for missing required field")
	}
}

func TestRegistryValidateConfigUnknownAction(t *testing.T) {
	r := New()

	err := r.ValidateConfig("does_not_exist", map[string]any{})
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("ValidateConfig() error = %v, want wrapping ErrUnknownAction", err)
	}
}

func TestRegistryCall(t *testing.T) {
	r := New()
	r.RegisterAction(testSpec())

	var called bool

	caller := func(ctx context.Context, userID string, app domain.App, method string, args map[string]any) (any, error) {
		called = true
		return nil, nil
	}

	result, err := r.Call(context.Background(), caller, "user-1", "send_channel_message", map[string]any{"channel": "#x", "text": "y"})
	if err != nil {
		t.Fatalf("Call() unexpected error: %v", err)
	}

	if result["user_id"] != "user-1" || result["app"] != string(domain.AppSlack) {
		t.Fatalf("Call() result = %+v", result)
	}

	if called {
		t.Fatal("echoFactory should not have invoked the Caller")
	}
}

func TestRegistryCallUnknownAction(t *testing.T) {
	r := New()

	_, err := r.Call(context.Background(), nil, "user-1", "does_not_exist", nil)
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("Call() error = %v, want wrapping ErrUnknownAction", err)
	}
}

func TestRegistryApp(t *testing.T) {
	r := New()
	r.RegisterAction(testSpec())

	app, ok := r.App("send_channel_message")
	if !ok || app != domain.AppSlack {
		t.Fatalf("App() = (%v, %v), want (%v, true)", app, ok, domain.AppSlack)
	}

	if _, ok := r.App("missing"); ok {
		t.Fatal("App() expected ok=false for unregistered action")
	}
}
