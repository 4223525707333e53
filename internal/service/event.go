package service

import (
	"context"

	"ZevaroCore/internal/biz"
	"ZevaroCore/internal/model"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
)

const (
	OperationEventServicePublishEvent       = "/zevaro.events.v1.EventService/PublishEvent"
	OperationEventServiceRecordAudit        = "/zevaro.events.v1.EventService/RecordAudit"
	OperationEventServiceTransitionWorkflow = "/zevaro.events.v1.EventService/TransitionWorkflow"
)

// PublishEventRequest is the body of POST /v1/tenants/{tenant_id}/events.
type PublishEventRequest struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// RecordAuditRequest is the body of POST /v1/tenants/{tenant_id}/audit.
type RecordAuditRequest struct {
	ActorID    string                 `json:"actor_id"`
	Action     string                 `json:"action"`
	Resource   string                 `json:"resource"`
	ResourceID string                 `json:"resource_id"`
	Details    map[string]interface{} `json:"details"`
}

// TransitionWorkflowRequest is the body of
// POST /v1/tenants/{tenant_id}/workflows/{workflow_id}/transitions.
type TransitionWorkflowRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	ActorID string `json:"actor_id"`
	Reason  string `json:"reason"`
}

// AcceptedReply is returned for every accepted event. Accepted does not mean
// delivered: the broker may be unavailable.
type AcceptedReply struct {
	EventID string `json:"event_id,omitempty"`
}

// EventService exposes the publishing usecases over HTTP.
type EventService struct {
	audit        *biz.AuditUsecase
	notification *biz.NotificationUsecase
	workflow     *biz.WorkflowUsecase
	logger       *log.Helper
}

// NewEventService creates a new EventService instance.
func NewEventService(audit *biz.AuditUsecase, notification *biz.NotificationUsecase, workflow *biz.WorkflowUsecase, logger log.Logger) *EventService {
	return &EventService{
		audit:        audit,
		notification: notification,
		workflow:     workflow,
		logger:       log.NewHelper(log.With(logger, "module", "service/event")),
	}
}

// RegisterRoutes registers the HTTP routes of the service.
func (s *EventService) RegisterRoutes(srv *http.Server) {
	r := srv.Route("/")
	r.POST("/v1/tenants/{tenant_id}/events", s.publishEventHandler)
	r.POST("/v1/tenants/{tenant_id}/audit", s.recordAuditHandler)
	r.POST("/v1/tenants/{tenant_id}/workflows/{workflow_id}/transitions", s.transitionWorkflowHandler)
}

// PublishEvent publishes a domain event for tenantID.
func (s *EventService) PublishEvent(ctx context.Context, tenantID string, req *PublishEventRequest) (*AcceptedReply, error) {
	id, err := s.notification.Notify(ctx, tenantID, req.Type, req.Data)
	if err != nil {
		return nil, err
	}
	return &AcceptedReply{EventID: id}, nil
}

// RecordAudit records an audit entry for tenantID.
func (s *EventService) RecordAudit(ctx context.Context, tenantID string, req *RecordAuditRequest) (*AcceptedReply, error) {
	err := s.audit.Record(ctx, &model.AuditEntry{
		TenantID:   tenantID,
		ActorID:    req.ActorID,
		Action:     req.Action,
		Resource:   req.Resource,
		ResourceID: req.ResourceID,
		Details:    req.Details,
	})
	if err != nil {
		return nil, err
	}
	return &AcceptedReply{}, nil
}

// TransitionWorkflow announces a workflow state change.
func (s *EventService) TransitionWorkflow(ctx context.Context, tenantID, workflowID string, req *TransitionWorkflowRequest) (*AcceptedReply, error) {
	id, err := s.workflow.Transition(ctx, tenantID, &model.WorkflowTransition{
		WorkflowID: workflowID,
		From:       req.From,
		To:         req.To,
		ActorID:    req.ActorID,
		Reason:     req.Reason,
	})
	if err != nil {
		s.logger.Debugw("msg", "workflow transition rejected", "tenant_id", tenantID, "workflow_id", workflowID, "error", err)
		return nil, err
	}
	return &AcceptedReply{EventID: id}, nil
}

func (s *EventService) publishEventHandler(ctx http.Context) error {
	var in PublishEventRequest
	if err := ctx.Bind(&in); err != nil {
		return err
	}
	tenantID := ctx.Vars().Get("tenant_id")
	http.SetOperation(ctx, OperationEventServicePublishEvent)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.PublishEvent(ctx, tenantID, req.(*PublishEventRequest))
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(202, out)
}

func (s *EventService) recordAuditHandler(ctx http.Context) error {
	var in RecordAuditRequest
	if err := ctx.Bind(&in); err != nil {
		return err
	}
	tenantID := ctx.Vars().Get("tenant_id")
	http.SetOperation(ctx, OperationEventServiceRecordAudit)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.RecordAudit(ctx, tenantID, req.(*RecordAuditRequest))
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(202, out)
}

func (s *EventService) transitionWorkflowHandler(ctx http.Context) error {
	var in TransitionWorkflowRequest
	if err := ctx.Bind(&in); err != nil {
		return err
	}
	vars := ctx.Vars()
	tenantID, workflowID := vars.Get("tenant_id"), vars.Get("workflow_id")
	http.SetOperation(ctx, OperationEventServiceTransitionWorkflow)
	h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
		return s.TransitionWorkflow(ctx, tenantID, workflowID, req.(*TransitionWorkflowRequest))
	})
	out, err := h(ctx, &in)
	if err != nil {
		return err
	}
	return ctx.Result(202, out)
}
