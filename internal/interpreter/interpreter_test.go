package interpreter

import (
	"context"
	"errors"
	"testing"

	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/registry"
)

func strPtr(s string) *string { return &s }

func newTestRegistry(t *testing.T, fail bool) *registry.Registry {
	t.Helper()

	reg := registry.New()
	reg.RegisterAction(registry.ActionSpec{
		Type: "send_channel_message",
		App:  domain.AppSlack,
		Factory: func(ctx context.Context, call registry.Caller, userID string, app domain.App, config map[string]any) (map[string]any, error) {
			if fail {
				return nil, errors.New("boom")
			}

			return map[string]any{"text": config["text"]}, nil
		},
	})

	return reg
}

func noopCaller(ctx context.Context, userID string, app domain.App, method string, args map[string]any) (any, error) {
	return nil, nil
}

func branchingWorkflow() *domain.Workflow {
	return &domain.Workflow{
		ID: "wf-1",
		Steps: []domain.Step{
			{ID: "1", Type: domain.StepTrigger, Trigger: &domain.TriggerStep{AppName: domain.AppGmail, TriggerID: "new_email"}},
			{
				ID:   "2",
				Type: domain.StepCondition,
				Condition: &domain.ConditionStep{
					Conditions: []domain.ConditionClause{
						{If: "{{data.subject}} contains 'urgent'", Then: strPtr("3")},
						{Else: strPtr("4")},
					},
				},
			},
			{
				ID:   "3",
				Type: domain.StepAction,
				Action: &domain.ActionStep{
					ActionID: "send_channel_message",
					Config:   map[string]any{"text": "urgent: {{data.subject}}"},
				},
			},
			{
				ID:   "4",
				Type: domain.StepAction,
				Action: &domain.ActionStep{
					ActionID: "send_channel_message",
					Config:   map[string]any{"text": "normal: {{data.subject}}"},
				},
			},
		},
	}
}

func TestInterpreterExecuteThenBranch(t *testing.T) {
	in := New(newTestRegistry(t, false), noopCaller, nil)

	log, err := in.Execute(context.Background(), "user-1", branchingWorkflow(), map[string]any{
		"data": map[string]any{"subject": "urgent: server down"},
	}, "run-1")
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}

	if len(log) != 2 {
		t.Fatalf("len(log) = %d, want 2", len(log))
	}

	if log[0].NextID != "3" {
		t.Fatalf("condition next id = %q, want 3", log[0].NextID)
	}

	if log[1].StepID != "3" || log[1].Result["text"] != "urgent: urgent: server down" {
		t.Fatalf("action log entry = %+v", log[1])
	}
}

func TestInterpreterExecuteElseBranch(t *testing.T) {
	in := New(newTestRegistry(t, false), noopCaller, nil)

	log, err := in.Execute(context.Background(), "user-1", branchingWorkflow(), map[string]any{
		"data": map[string]any{"subject": "weekly report"},
	}, "run-1")
	if err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}

	if log[0].NextID != "4" {
		t.Fatalf("condition next id = %q, want 4", log[0].NextID)
	}

	if log[1].StepID != "4" {
		t.Fatalf("action step id = %q, want 4", log[1].StepID)
	}
}

func TestInterpreterExecuteActionErrorStopsWalk(t *testing.T) {
	in := New(newTestRegistry(t, true), noopCaller, nil)

	log, err := in.Execute(context.Background(), "user-1", branchingWorkflow(), map[string]any{
		"data": map[string]any{"subject": "urgent: fire"},
	}, "run-1")
	if err == nil {
		t.Fatal("Execute() expected error from failing action")
	}

	if len(log) != 2 || log[1].Result != nil {
		t.Fatalf("log = %+v, want failed action entry with no result", log)
	}
}

func TestInterpreterExecuteUnknownStep(t *testing.T) {
	in := New(newTestRegistry(t, false), noopCaller, nil)

	w := branchingWorkflow()
	w.StartStepID = "missing-step"

	if _, err := in.Execute(context.Background(), "user-1", w, nil, "run-1"); err == nil {
		t.Fatal("Execute() expected error for unresolvable start step")
	}
}

func TestInterpreterExecuteCycleGuard(t *testing.T) {
	in := New(newTestRegistry(t, false), noopCaller, nil)

	w := &domain.Workflow{
		Steps: []domain.Step{
			{ID: "1", Type: domain.StepTrigger, Trigger: &domain.TriggerStep{AppName: domain.AppGmail, TriggerID: "new_email"}},
			{
				ID:   "2",
				Type: domain.StepCondition,
				Condition: &domain.ConditionStep{
					Conditions: []domain.ConditionClause{{Else: strPtr("2")}},
				},
			},
		},
	}

	if _, err := in.Execute(context.Background(), "user-1", w, nil, "run-1"); err == nil {
		t.Fatal("Execute() expected cycle-guard error")
	}
}
