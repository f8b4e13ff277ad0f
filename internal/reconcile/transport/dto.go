// Package transport defines the request and response shapes of the
// reconciliation HTTP API.
package transport

import (
	"time"

	"salon_portal_backend/internal/reconcile/domain"
	"salon_portal_backend/internal/reconcile/repository"
	"salon_portal_backend/internal/reconcile/service"

	"github.com/google/uuid"
)

// ProcessEventRequest submits one booking notification for processing.
type ProcessEventRequest struct {
	Subject   string `json:"subject" validate:"required"`
	Body      string `json:"body" validate:"required"`
	MessageID string `json:"messageId"`
}

// ProcessEventResponse reports the pipeline outcome.
type ProcessEventResponse struct {
	Status       domain.PipelineStatus `json:"status"`
	BookingID    *uuid.UUID            `json:"bookingId,omitempty"`
	Deduplicated bool                  `json:"deduplicated,omitempty"`
	Reason       domain.FailureReason  `json:"reason,omitempty"`
	Detail       string                `json:"detail,omitempty"`
}

func ToProcessEventResponse(res service.Result) ProcessEventResponse {
	return ProcessEventResponse{
		Status:       res.Status,
		BookingID:    res.BookingID,
		Deduplicated: res.Deduplicated,
		Reason:       res.Reason,
		Detail:       res.Detail,
	}
}

// ListPendingRequest filters the pending queue.
type ListPendingRequest struct {
	Status string `form:"status" validate:"omitempty,oneof=pending resolved ignored"`
}

// AssignPendingRequest applies a queued event with operator-chosen entities.
type AssignPendingRequest struct {
	EmployeeID uuid.UUID `json:"employeeId" validate:"required"`
	ServiceID  uuid.UUID `json:"serviceId" validate:"required"`
}

// PendingEventResponse is one entry of the pending queue.
type PendingEventResponse struct {
	ID         uuid.UUID            `json:"id"`
	MessageID  string               `json:"messageId"`
	Subject    string               `json:"subject"`
	Body       string               `json:"body,omitempty"`
	Reason     domain.FailureReason `json:"reason"`
	Detail     string               `json:"detail,omitempty"`
	Status     string               `json:"status"`
	ResolvedAt *time.Time           `json:"resolvedAt,omitempty"`
	CreatedAt  time.Time            `json:"createdAt"`
}

// ToPendingEventResponse converts a stored pending event. The body is only
// included when detailed is set; list views stay lean.
func ToPendingEventResponse(p *repository.PendingEvent, detailed bool) PendingEventResponse {
	resp := PendingEventResponse{
		ID:         p.ID,
		MessageID:  p.MessageID,
		Subject:    p.Subject,
		Reason:     p.Reason,
		Detail:     p.Detail,
		Status:     string(p.Status),
		ResolvedAt: p.ResolvedAt,
		CreatedAt:  p.CreatedAt,
	}
	if detailed {
		resp.Body = p.Body
	}
	return resp
}

func ToPendingEventResponses(list []repository.PendingEvent) []PendingEventResponse {
	out := make([]PendingEventResponse, 0, len(list))
	for i := range list {
		out = append(out, ToPendingEventResponse(&list[i], false))
	}
	return out
}
