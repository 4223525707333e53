package model

import "time"

// Audit action constants
const (
	AuditActionEventRecorded      = "EVENT_RECORDED"
	AuditActionWorkflowTransition = "WORKFLOW_TRANSITION"
	AuditActionCircuitOpened      = "EVENT_CIRCUIT_OPENED"
	AuditActionCircuitRecovered   = "EVENT_CIRCUIT_RECOVERED"
)

// SystemActor marks entries produced by the service itself.
const SystemActor = "system"

// SystemTenant owns entries that belong to no tenant, such as broker circuit changes.
const SystemTenant = "_system"

// AuditEntry is one audit record. It is persisted when MySQL is configured and
// always published to the audit topic.
type AuditEntry struct {
	ID         int64                  `json:"id,omitempty"`
	TenantID   string                 `json:"tenant_id"`
	ActorID    string                 `json:"actor_id"`
	Action     string                 `json:"action"`
	Resource   string                 `json:"resource,omitempty"`
	ResourceID string                 `json:"resource_id,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
