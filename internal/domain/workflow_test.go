package domain

import "testing"

func strPtr(s string) *string { return &s }

func validWorkflow() *Workflow {
	return &Workflow{
		UserID: "user-1",
		Name:   "Gmail to Slack",
		Steps: []Step{
			{
				ID:   "1",
				Type: StepTrigger,
				Trigger: &TriggerStep{
					AppName:   AppGmail,
					TriggerID: "new_email",
				},
			},
			{
				ID:   "2",
				Type: StepCondition,
				Condition: &ConditionStep{
					Conditions: []ConditionClause{
						{If: "{{data.subject}} contains 'urgent'", Then: strPtr("3")},
						{Else: strPtr("3")},
					},
				},
			},
			{
				ID:   "3",
				Type: StepAction,
				Action: &ActionStep{
					ActionID: "send_channel_message",
					Config:   map[string]any{"channel": "#alerts", "text": "{{data.subject}}"},
				},
			},
		},
	}
}

func TestWorkflowValidateOK(t *testing.T) {
	w := validWorkflow()
	if err := w.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
}

func TestWorkflowValidateDuplicateStepID(t *testing.T) {
	w := validWorkflow()
	w.Steps[2].ID = "2"

	if err := w.Validate(); err == nil {
		t.Fatal("Validate() expected error for duplicate step id")
	}
}

func TestWorkflowValidateRequiresExactlyOneTrigger(t *testing.T) {
	w := validWorkflow()
	w.Steps = w.Steps[1:]

	if err := w.Validate(); err == nil {
		t.Fatal("Validate() expected error for missing trigger")
	}

	w = validWorkflow()
	w.Steps = append(w.Steps, Step{
		ID:      "4",
		Type:    StepTrigger,
		Trigger: &TriggerStep{AppName: AppSlack, TriggerID: "new_message"},
	})

	if err := w.Validate(); err == nil {
		t.Fatal("Validate() expected error for two triggers")
	}
}

func TestWorkflowValidateRequiresAtLeastOneAction(t *testing.T) {
	w := validWorkflow()
	w.Steps = w.Steps[:2]
	w.Steps[1].Condition.Conditions = []ConditionClause{{Else: strPtr("")}}

	if err := w.Validate(); err == nil {
		t.Fatal("Validate() expected error for no action steps")
	}
}

func TestWorkflowValidateRejectsBadBranchTarget(t *testing.T) {
	w := validWorkflow()
	w.Steps[1].Condition.Conditions[0].Then = strPtr("does-not-exist")

	if err := w.Validate(); err == nil {
		t.Fatal("Validate() expected error for dangling branch target")
	}
}

func TestWorkflowValidateRejectsMalformedClause(t *testing.T) {
	w := validWorkflow()
	w.Steps[1].Condition.Conditions[0].If = "not a valid clause"

	if err := w.Validate(); err == nil {
		t.Fatal("Validate() expected error for malformed condition clause")
	}
}

func TestWorkflowValidateClauseMustCarryIfOrElse(t *testing.T) {
	w := validWorkflow()
	w.Steps[1].Condition.Conditions = []ConditionClause{{}}

	if err := w.Validate(); err == nil {
		t.Fatal("Validate() expected error for clause with neither if nor else")
	}
}

func TestEffectiveStartStepID(t *testing.T) {
	w := validWorkflow()

	if got := w.EffectiveStartStepID(); got != DefaultStartStepID {
		t.Fatalf("EffectiveStartStepID() = %q, want %q", got, DefaultStartStepID)
	}

	w.StartStepID = "9"
	if got := w.EffectiveStartStepID(); got != "9" {
		t.Fatalf("EffectiveStartStepID() = %q, want %q", got, "9")
	}
}

func TestActionStepResolvedActionID(t *testing.T) {
	a := &ActionStep{AppName: AppSlack}
	if got := a.ResolvedActionID(); got != string(AppSlack) {
		t.Fatalf("ResolvedActionID() = %q, want %q", got, AppSlack)
	}

	a.ActionID = "send_channel_message"
	if got := a.ResolvedActionID(); got != "send_channel_message" {
		t.Fatalf("ResolvedActionID() = %q, want %q", got, "send_channel_message")
	}
}

func TestStepMapAndTriggerStep(t *testing.T) {
	w := validWorkflow()

	m := w.StepMap()
	if len(m) != len(w.Steps) {
		t.Fatalf("StepMap() len = %d, want %d", len(m), len(w.Steps))
	}

	trigger := w.TriggerStep()
	if trigger == nil || trigger.ID != "1" {
		t.Fatalf("TriggerStep() = %+v, want step 1", trigger)
	}
}
