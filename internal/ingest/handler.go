package ingest

import (
	"context"
	"net/http"

	"salon_portal_backend/internal/reconcile/service"
	"salon_portal_backend/internal/reconcile/transport"
	"salon_portal_backend/platform/httpkit"
	"salon_portal_backend/platform/logger"
	"salon_portal_backend/platform/sanitize"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jhillyerd/enmime/v2"
)

// maxMailBytes caps the raw message size accepted on the mail endpoint.
const maxMailBytes = 2 << 20

// EventProcessor runs the reconciliation pipeline for one notification.
// Implemented by the reconcile service.
type EventProcessor interface {
	ProcessEvent(ctx context.Context, salonID uuid.UUID, in service.Inbound) (service.Result, error)
}

// Handler handles the raw-mail intake endpoint.
type Handler struct {
	processor EventProcessor
	logger    *logger.Logger
}

// NewHandler creates a new ingest handler.
func NewHandler(processor EventProcessor, log *logger.Logger) *Handler {
	return &Handler{processor: processor, logger: log}
}

// RegisterRoutes registers the ingest routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/mail", h.IngestMail)
}

// IngestMail handles POST /mail. The request body is one raw RFC 5322
// message, typically relayed by a mail provider's inbound hook.
func (h *Handler) IngestMail(c *gin.Context) {
	salonID, ok := httpkit.MustGetSalonID(c)
	if !ok {
		return
	}

	env, err := enmime.ReadEnvelope(http.MaxBytesReader(c.Writer, c.Request.Body, maxMailBytes))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "cannot parse mail message", err.Error())
		return
	}

	in := service.Inbound{
		Subject:   env.GetHeader("Subject"),
		Body:      env.Text,
		MessageID: env.GetHeader("Message-Id"),
	}
	if in.Body == "" && env.HTML != "" {
		in.Body = sanitize.StripHTML(env.HTML)
	}

	res, err := h.processor.ProcessEvent(c.Request.Context(), salonID, in)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToProcessEventResponse(res))
}
