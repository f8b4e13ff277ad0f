// Package handler exposes the reconciliation pipeline and its pending queue
// over HTTP.
package handler

import (
	"context"
	"net/http"

	"salon_portal_backend/internal/reconcile/repository"
	"salon_portal_backend/internal/reconcile/service"
	"salon_portal_backend/internal/reconcile/transport"
	"salon_portal_backend/platform/httpkit"
	"salon_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// DigestEnqueuer schedules an out-of-band pending digest mail.
// Implemented by the scheduler client; nil hides the endpoint.
type DigestEnqueuer interface {
	EnqueuePendingDigest(ctx context.Context, salonID string) error
}

type Handler struct {
	svc    *service.Service
	val    *validator.Validator
	digest DigestEnqueuer
}

func New(svc *service.Service, val *validator.Validator, digest DigestEnqueuer) *Handler {
	return &Handler{svc: svc, val: val, digest: digest}
}

// RegisterRoutes registers the reconciliation routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/events", h.ProcessEvent)
	rg.GET("/pending", h.ListPending)
	rg.GET("/pending/:id", h.GetPending)
	rg.POST("/pending/:id/assign", h.AssignPending)
	rg.POST("/pending/:id/ignore", h.IgnorePending)
	if h.digest != nil {
		rg.POST("/pending/digest", h.RequestDigest)
	}
}

// ProcessEvent handles POST /events
func (h *Handler) ProcessEvent(c *gin.Context) {
	salonID, ok := httpkit.MustGetSalonID(c)
	if !ok {
		return
	}

	var req transport.ProcessEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	res, err := h.svc.ProcessEvent(c.Request.Context(), salonID, service.Inbound{
		Subject:   req.Subject,
		Body:      req.Body,
		MessageID: req.MessageID,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToProcessEventResponse(res))
}

// ListPending handles GET /pending
func (h *Handler) ListPending(c *gin.Context) {
	salonID, ok := httpkit.MustGetSalonID(c)
	if !ok {
		return
	}

	var req transport.ListPendingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	list, err := h.svc.ListPendingEvents(c.Request.Context(), salonID, repository.PendingStatus(req.Status))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToPendingEventResponses(list))
}

// GetPending handles GET /pending/:id
func (h *Handler) GetPending(c *gin.Context) {
	salonID, ok := httpkit.MustGetSalonID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	pending, err := h.svc.GetPendingEvent(c.Request.Context(), salonID, id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToPendingEventResponse(pending, true))
}

// AssignPending handles POST /pending/:id/assign
func (h *Handler) AssignPending(c *gin.Context) {
	salonID, ok := httpkit.MustGetSalonID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.AssignPendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	res, err := h.svc.AssignPendingEvent(c.Request.Context(), salonID, id, req.EmployeeID, req.ServiceID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToProcessEventResponse(res))
}

// IgnorePending handles POST /pending/:id/ignore
func (h *Handler) IgnorePending(c *gin.Context) {
	salonID, ok := httpkit.MustGetSalonID(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.IgnorePendingEvent(c.Request.Context(), salonID, id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestDigest handles POST /pending/digest. It queues an immediate digest
// mail for the salon instead of waiting for the daily run.
func (h *Handler) RequestDigest(c *gin.Context) {
	salonID, ok := httpkit.MustGetSalonID(c)
	if !ok {
		return
	}

	if err := h.digest.EnqueuePendingDigest(c.Request.Context(), salonID.String()); err != nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "cannot queue digest", err.Error())
		return
	}
	c.Status(http.StatusAccepted)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid id", nil)
		return uuid.UUID{}, false
	}
	return id, true
}
