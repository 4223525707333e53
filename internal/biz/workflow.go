package biz

import (
	"context"
	"fmt"

	"ZevaroCore/internal/model"
	pkglog "ZevaroCore/pkg/log"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// WorkflowEventType is the envelope type of workflow transitions.
const WorkflowEventType = "workflow.transitioned"

// WorkflowUsecase announces workflow state changes. It does not own workflow
// state; the caller has already applied the transition.
type WorkflowUsecase struct {
	publisher EventPublisher
	audit     *AuditUsecase
	log       *pkglog.LogHelper
}

// NewWorkflowUsecase creates the workflow usecase.
func NewWorkflowUsecase(publisher EventPublisher, audit *AuditUsecase, logger log.Logger) *WorkflowUsecase {
	return &WorkflowUsecase{
		publisher: publisher,
		audit:     audit,
		log:       pkglog.NewLogHelper(log.With(logger, "module", "biz/workflow")),
	}
}

// Transition validates and publishes a state change, then records it in the
// audit trail.
func (uc *WorkflowUsecase) Transition(ctx context.Context, tenantID string, t *model.WorkflowTransition) (string, error) {
	if err := validateTransition(tenantID, t); err != nil {
		return "", err
	}
	if t.ActorID == "" {
		t.ActorID = model.SystemActor
	}

	env := NewEnvelope(ctx, WorkflowEventType, tenantID, t)
	uc.publisher.Send(ctx, model.TopicWorkflow, tenantID, env)

	if err := uc.audit.Record(ctx, &model.AuditEntry{
		TenantID:   tenantID,
		ActorID:    t.ActorID,
		Action:     model.AuditActionWorkflowTransition,
		Resource:   "workflow",
		ResourceID: t.WorkflowID,
		Details: map[string]interface{}{
			"event_id": env.ID,
			"from":     t.From,
			"to":       t.To,
			"reason":   t.Reason,
		},
		OccurredAt: env.OccurredAt,
	}); err != nil {
		return "", err
	}

	uc.log.Workflow(fmt.Sprintf("workflow %s: %s -> %s", t.WorkflowID, t.From, t.To),
		"event_id", env.ID,
		"tenant_id", tenantID,
		"workflow_id", t.WorkflowID)
	return env.ID, nil
}

func validateTransition(tenantID string, t *model.WorkflowTransition) error {
	switch {
	case t == nil:
		return kerrors.BadRequest("INVALID_WORKFLOW_TRANSITION", "transition is required")
	case tenantID == "":
		return kerrors.BadRequest("INVALID_WORKFLOW_TRANSITION", "tenant_id is required")
	case t.WorkflowID == "":
		return kerrors.BadRequest("INVALID_WORKFLOW_TRANSITION", "workflow_id is required")
	case t.From == "" || t.To == "":
		return kerrors.BadRequest("INVALID_WORKFLOW_TRANSITION", "from and to states are required")
	case t.From == t.To:
		return kerrors.BadRequest("INVALID_WORKFLOW_TRANSITION", fmt.Sprintf("workflow is already in state %q", t.To))
	}
	return nil
}
