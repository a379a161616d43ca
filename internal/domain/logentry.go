package domain

import "time"

// EventType is the closed set of event-log entries the engine records
// (spec §7).
type EventType string

const (
	EventWorkflowCreated             EventType = "workflow_created"
	EventWorkflowActivated           EventType = "workflow_activated"
	EventWorkflowDeactivated         EventType = "workflow_deactivated"
	EventTriggerChecked              EventType = "trigger_checked"
	EventTriggerFired                EventType = "trigger_fired"
	EventWorkflowExecutionStarted    EventType = "workflow_execution_started"
	EventWorkflowExecutionCompleted  EventType = "workflow_execution_completed"
	EventWorkflowExecutionFailed     EventType = "workflow_execution_failed"
	EventActionStarted               EventType = "action_started"
	EventActionCompleted             EventType = "action_completed"
	EventActionFailed                EventType = "action_failed"
	EventTokenRefreshed              EventType = "token_refreshed"
)

// LogEntry is an append-only event record. Never updated; deleted only by
// the Reaper.
type LogEntry struct {
	ID         string         `json:"id"`
	EventType  EventType      `json:"event_type" validate:"required"`
	Details    map[string]any `json:"details,omitempty"`
	UserID     *string        `json:"user_id,omitempty"`
	WorkflowID *string        `json:"workflow_id,omitempty"`
	RunID      *string        `json:"run_id,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
