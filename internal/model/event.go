package model

import "time"

// Broker topics
const (
	TopicAudit        = "zevaro.audit"
	TopicDomainEvents = "zevaro.domain-events"
	TopicWorkflow     = "zevaro.workflow"
)

// Envelope is the uniform wrapper for every published event.
// The tenant id doubles as the partition key.
type Envelope struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	TenantID   string      `json:"tenant_id"`
	OccurredAt time.Time   `json:"occurred_at"`
	RequestID  string      `json:"request_id,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

// GatewayStats is a point-in-time snapshot of a publisher, written to Redis by
// the stats job.
type GatewayStats struct {
	Instance     string
	DroppedTotal int64
	CircuitOpen  bool
	UpdatedAt    time.Time
}

// WorkflowTransition is the payload of a workflow state change event.
type WorkflowTransition struct {
	WorkflowID string `json:"workflow_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	ActorID    string `json:"actor_id"`
	Reason     string `json:"reason,omitempty"`
}
