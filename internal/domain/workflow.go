package domain

import (
	"fmt"
	"time"

	"github.com/dukex/integrail/internal/interpreter/condexpr"
)

// DefaultStartStepID is the fixed convention step "1" is always the trigger
// and step "2" is always the first post-trigger step.
const DefaultStartStepID = "2"

// PollingInterval derives a per-app poll cadence at activation time.
func PollingInterval(app App) time.Duration {
	switch app {
	case AppGmail:
		return 60 * time.Second
	case AppSlack:
		return 30 * time.Second
	case AppGitHub:
		return 60 * time.Second
	case AppWebhook:
		return 0
	default:
		return 60 * time.Second
	}
}

// Workflow is a named step graph owned by a user.
type Workflow struct {
	ID                     string     `json:"id"`
	UserID                 string     `json:"user_id" validate:"required"`
	Name                   string     `json:"name" validate:"required,min=3"`
	Description            string     `json:"description"`
	IsActive               bool       `json:"is_active"`
	PollingIntervalSeconds int        `json:"polling_interval_seconds"`
	StartStepID            string     `json:"start_step_id,omitempty"`
	LastRunAt              *time.Time `json:"last_run_at,omitempty"`
	Steps                  []Step     `json:"steps" validate:"required,min=2,dive"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// StepGraphError names the step that violates a structural invariant.
type StepGraphError struct {
	StepID string
	Reason string
}

func (e *StepGraphError) Error() string {
	return fmt.Sprintf("step %q: %s", e.StepID, e.Reason)
}

// StepMap indexes Steps by id for O(1) interpreter lookups.
func (w *Workflow) StepMap() map[string]*Step {
	m := make(map[string]*Step, len(w.Steps))
	for i := range w.Steps {
		m[w.Steps[i].ID] = &w.Steps[i]
	}

	return m
}

// TriggerStep returns the workflow's single trigger step, if present.
func (w *Workflow) TriggerStep() *Step {
	for i := range w.Steps {
		if w.Steps[i].Type == StepTrigger {
			return &w.Steps[i]
		}
	}

	return nil
}

// EffectiveStartStepID returns StartStepID if set, else the fixed
// convention id "2".
func (w *Workflow) EffectiveStartStepID() string {
	if w.StartStepID != "" {
		return w.StartStepID
	}

	return DefaultStartStepID
}

// Validate enforces the step-graph invariants: exactly one trigger, at
// least one action, unique step ids, and every branch target resolving to
// an existing step id (an empty target means terminal; an if clause with
// no then target is rejected rather than read as terminal). It also rejects
// malformed condition clauses up front rather than letting them silently
// evaluate false at run time.
func (w *Workflow) Validate() error {
	ids := make(map[string]struct{}, len(w.Steps))
	triggers, actions := 0, 0

	for _, s := range w.Steps {
		if _, dup := ids[s.ID]; dup {
			return &StepGraphError{StepID: s.ID, Reason: "duplicate step id"}
		}

		ids[s.ID] = struct{}{}

		switch s.Type {
		case StepTrigger:
			triggers++

			if s.Trigger == nil {
				return &StepGraphError{StepID: s.ID, Reason: "trigger step missing trigger config"}
			}
		case StepAction:
			actions++

			if s.Action == nil {
				return &StepGraphError{StepID: s.ID, Reason: "action step missing action config"}
			}
		case StepCondition:
			if s.Condition == nil {
				return &StepGraphError{StepID: s.ID, Reason: "condition step missing clauses"}
			}
		default:
			return &StepGraphError{StepID: s.ID, Reason: fmt.Sprintf("unknown step type %q", s.Type)}
		}
	}

	if triggers != 1 {
		return &StepGraphError{StepID: "", Reason: fmt.Sprintf("workflow must have exactly one trigger step, found %d", triggers)}
	}

	if actions == 0 {
		return &StepGraphError{StepID: "", Reason: "workflow must have at least one action step"}
	}

	resolves := func(stepID, target string) error {
		if target == "" {
			return nil
		}

		if _, ok := ids[target]; !ok {
			return &StepGraphError{StepID: stepID, Reason: fmt.Sprintf("branch target %q does not exist", target)}
		}

		return nil
	}

	for _, s := range w.Steps {
		if s.Type != StepCondition {
			continue
		}

		for _, c := range s.Condition.Conditions {
			if c.If != "" {
				if _, err := condexpr.Parse(c.If); err != nil {
					return &StepGraphError{StepID: s.ID, Reason: fmt.Sprintf("malformed condition clause: %v", err)}
				}

				if c.Then == nil {
					return &StepGraphError{StepID: s.ID, Reason: "clause with if must carry then"}
				}

				if err := resolves(s.ID, *c.Then); err != nil {
					return err
				}
			} else if c.Else != nil {
				if err := resolves(s.ID, *c.Else); err != nil {
					return err
				}
			} else {
				return &StepGraphError{StepID: s.ID, Reason: "clause must carry if or else"}
			}
		}
	}

	return nil
}
