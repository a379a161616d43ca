// Package interpreter walks a workflow's step graph (C9): starting at
// EffectiveStartStepID, it evaluates condition steps with condexpr and
// executes action steps through the action registry, following branch
// targets until it reaches a terminal step or a cycle guard trips.
// Grounded on the teacher's internal/workflow executor loop, generalized
// from its Action/Conditional step union to the config-map driven model
// in internal/domain.
package interpreter

import (
	"context"
	"fmt"

	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/eventlog"
	"github.com/dukex/integrail/internal/interpreter/condexpr"
	"github.com/dukex/integrail/internal/interpreter/template"
	"github.com/dukex/integrail/internal/registry"
)

// maxSteps bounds the walk so a cyclic step graph cannot hang a worker
// forever; Workflow.Validate does not currently reject cycles.
const maxSteps = 1000

// Interpreter executes a workflow's step graph against one trigger
// event.
type Interpreter struct {
	registry *registry.Registry
	call     registry.Caller
	events   *eventlog.Log
}

// New wires an Interpreter to its action registry, dispatcher caller,
// and event log (action_started/action_completed/action_failed entries,
// spec.md §4.9).
func New(reg *registry.Registry, call registry.Caller, events *eventlog.Log) *Interpreter {
	return &Interpreter{registry: reg, call: call, events: events}
}

// Execute walks workflow's step graph starting at its effective start
// step, using triggerData as the template/condition evaluation context.
// runID identifies the WorkflowRun the walk belongs to, for the event
// log; it may be empty for ad hoc test-runs with no persisted run.
// Execute returns the accumulated execution log and the first action
// error encountered, if any — the caller decides whether that error
// fails the run.
func (in *Interpreter) Execute(
	ctx context.Context,
	userID string,
	workflow *domain.Workflow,
	triggerData map[string]any,
	runID string,
) ([]domain.LogEntryDetail, error) {
	steps := workflow.StepMap()
	log := make([]domain.LogEntryDetail, 0, len(steps))

	stepID := workflow.EffectiveStartStepID()

	for i := 0; i < maxSteps; i++ {
		if stepID == "" {
			return log, nil
		}

		step, ok := steps[stepID]
		if !ok {
			return log, fmt.Errorf("interpreter: step %q not found", stepID)
		}

		switch step.Type {
		case domain.StepCondition:
			next, detail := in.evalCondition(step, triggerData)
			log = append(log, detail)
			stepID = next

		case domain.StepAction:
			detail, err := in.execAction(ctx, userID, workflow, runID, step, triggerData)
			log = append(log, detail)

			if err != nil {
				return log, err
			}

			stepID = ""

		case domain.StepTrigger:
			return log, fmt.Errorf("interpreter: step %q: trigger step cannot appear mid-graph", stepID)

		default:
			return log, fmt.Errorf("interpreter: step %q: unknown step type %q", stepID, step.Type)
		}
	}

	return log, fmt.Errorf("interpreter: exceeded %d steps, possible cycle", maxSteps)
}

func (in *Interpreter) evalCondition(step *domain.Step, data map[string]any) (string, domain.LogEntryDetail) {
	for _, clause := range step.Condition.Conditions {
		if clause.If == "" {
			if clause.Else != nil {
				return *clause.Else, domain.LogEntryDetail{
					StepID: step.ID, Type: domain.StepCondition, Detail: "else branch", NextID: *clause.Else,
				}
			}

			continue
		}

		expr, err := condexpr.Parse(clause.If)
		if err != nil {
			return "", domain.LogEntryDetail{StepID: step.ID, Type: domain.StepCondition, Detail: "malformed clause: " + err.Error()}
		}

		if expr.Eval(data) && clause.Then != nil {
			return *clause.Then, domain.LogEntryDetail{
				StepID: step.ID, Type: domain.StepCondition, Detail: "matched: " + clause.If, NextID: *clause.Then,
			}
		}
	}

	return "", domain.LogEntryDetail{StepID: step.ID, Type: domain.StepCondition, Detail: "no clause matched"}
}

func (in *Interpreter) execAction(
	ctx context.Context,
	userID string,
	workflow *domain.Workflow,
	runID string,
	step *domain.Step,
	data map[string]any,
) (domain.LogEntryDetail, error) {
	actionID := step.Action.ResolvedActionID()
	config := template.SubstituteConfig(step.Action.Config, data)

	refs := []eventlog.RefOption{eventlog.WithWorkflow(workflow.ID), eventlog.WithUser(userID)}
	if runID != "" {
		refs = append(refs, eventlog.WithRun(runID))
	}

	in.emit(ctx, domain.EventActionStarted, map[string]any{"step_id": step.ID, "action_id": actionID}, refs)

	result, err := in.registry.Call(ctx, in.call, userID, actionID, config)
	if err != nil {
		in.emit(ctx, domain.EventActionFailed, map[string]any{"step_id": step.ID, "action_id": actionID, "error": err.Error()}, refs)

		return domain.LogEntryDetail{
			StepID: step.ID, Type: domain.StepAction, Detail: "failed: " + err.Error(),
		}, fmt.Errorf("step %q action %q: %w", step.ID, actionID, err)
	}

	// Config-level failures (missing/invalid fields) come back as a
	// {status: failed, detail} result rather than a raised error, per
	// spec.md §4.10/§7: they terminate the walk without the executor
	// treating it as a retryable run failure.
	if status, _ := result["status"].(string); status == "failed" {
		detail, _ := result["detail"].(string)

		in.emit(ctx, domain.EventActionFailed, map[string]any{"step_id": step.ID, "action_id": actionID, "error": detail}, refs)

		return domain.LogEntryDetail{
			StepID: step.ID, Type: domain.StepAction, Detail: "failed: " + detail, Result: result,
		}, nil
	}

	in.emit(ctx, domain.EventActionCompleted, map[string]any{"step_id": step.ID, "action_id": actionID}, refs)

	return domain.LogEntryDetail{
		StepID: step.ID, Type: domain.StepAction, Detail: "succeeded", Result: result,
	}, nil
}

// emit writes an event-log entry if an event log is wired; the
// Interpreter tolerates a nil one for unit tests that exercise the walk
// without a persistence layer.
func (in *Interpreter) emit(ctx context.Context, eventType domain.EventType, details map[string]any, refs []eventlog.RefOption) {
	if in.events == nil {
		return
	}

	_ = in.events.Create(ctx, eventType, details, refs...)
}
