package createissue

import (
	"context"
	"testing"

	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/registry"
)

func TestExecute(t *testing.T) {
	var gotMethod string

	var gotArgs map[string]any

	caller := func(ctx context.Context, userID string, app domain.App, method string, args map[string]any) (any, error) {
		gotMethod = method
		gotArgs = args

		return map[string]any{"number": 42}, nil
	}

	spec := Spec()

	result, err := spec.Factory(context.Background(), caller, "user-1", domain.AppGitHub, map[string]any{
		"owner": "acme", "repo": "widgets", "title": "bug found",
	})
	if err != nil {
		t.Fatalf("Factory() unexpected error: %v", err)
	}

	if gotMethod != "createIssue" {
		t.Fatalf("method = %q, want createIssue", gotMethod)
	}

	if gotArgs["owner"] != "acme" || gotArgs["repo"] != "widgets" || gotArgs["title"] != "bug found" {
		t.Fatalf("args = %+v", gotArgs)
	}

	if result["status"] != "success" {
		t.Fatalf("result = %+v, want status success", result)
	}
}

func TestExecuteMissingRequiredField(t *testing.T) {
	spec := Spec()

	result, err := spec.Factory(context.Background(), nil, "user-1", domain.AppGitHub, map[string]any{"owner": "acme"})
	if err != nil {
		t.Fatalf("Factory() unexpected error for missing repo/title: %v", err)
	}

	if result["status"] != "failed" {
		t.Fatalf("result = %+v, want status failed for missing repo/title", result)
	}
}

func TestSpecSchemaValidation(t *testing.T) {
	reg := registry.New()
	reg.RegisterAction(Spec())

	if err := reg.ValidateConfig(ActionType, map[string]any{"owner": "a", "repo": "b", "title": "c"}); err != nil {
		t.Fatalf("ValidateConfig() unexpected error: %v", err)
	}

	if err := reg.ValidateConfig(ActionType, map[string]any{"owner": "a"}); err == nil {
		t.Fatal("ValidateConfig() expected error for missing repo/title")
	}
}
