package sendwebhook

import (
	"context"
	"testing"

	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/registry"
)

func TestExecuteMissingURL(t *testing.T) {
	spec := Spec()

	result, err := spec.Factory(context.Background(), nil, "user-1", domain.AppWebhook, map[string]any{"payload": "x"})
	if err != nil {
		t.Fatalf("Factory() unexpected error for missing url: %v", err)
	}

	if result["status"] != "failed" {
		t.Fatalf("result = %+v, want status failed for missing url", result)
	}
}

func TestSpecSchemaValidation(t *testing.T) {
	reg := registry.New()
	reg.RegisterAction(Spec())

	if err := reg.ValidateConfig(ActionType, map[string]any{"url": "https://example.com/hook"}); err != nil {
		t.Fatalf("ValidateConfig() unexpected error: %v", err)
	}

	if err := reg.ValidateConfig(ActionType, map[string]any{}); err == nil {
		t.Fatal("ValidateConfig() expected error for missing url")
	}
}
