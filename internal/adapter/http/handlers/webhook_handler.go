package handlers

import (
	"net/http"

	request "checkout_service/internal/adapter/http/dto/request"
	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase"
	"checkout_service/pkg/logger"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	orchestrator usecase.IPurchaseOrchestrator
	log          *logger.Logger
}

func NewWebhookHandler(o usecase.IPurchaseOrchestrator, log *logger.Logger) *WebhookHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &WebhookHandler{orchestrator: o, log: log}
}

// PaymentNotification godoc
// @Summary      Payment processor notification
// @Description  Settlement notifications are acknowledged with 200 once processed, including declines. Transient failures answer 503 so the processor redelivers.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        payload  body      request.PaymentNotification  false  "Notification"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  pkg.HTTPError
// @Failure      503      {object}  pkg.HTTPError
// @Router       /webhooks/payments [post]
func (h *WebhookHandler) PaymentNotification(c *gin.Context) {
	ctx := h.log.WithComponent(c.Request.Context(), "http.webhook")
	var body request.PaymentNotification
	var query request.PaymentNotificationQuery
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			writeError(c, errInvalidRequest)
			return
		}
	}
	_ = c.ShouldBindQuery(&query)

	if !body.IsPayment(query) {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}
	reference := body.ProcessorReference(query)
	if reference == "" {
		writeError(c, errInvalidRequest)
		return
	}
	ctx = h.log.WithField(ctx, "processor_reference", reference)

	p, err := h.orchestrator.ConfirmByProcessorReference(ctx, reference)
	switch {
	case err == nil:
		h.log.Info(h.log.WithFields(ctx, map[string]any{"order_id": p.OrderID, "state": string(p.State)}), "payment notification processed")
		c.JSON(http.StatusOK, gin.H{"status": string(p.State)})
	case entities.KindOf(err) == entities.ErrorKindNotFound:
		// Payments created outside this service share the notification URL.
		h.log.Warn(ctx, "notification for unknown payment")
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	case entities.IsRetryable(err):
		h.log.Error(ctx, "payment notification failed; processor will redeliver", err)
		writeError(c, mapCheckoutError(err))
	default:
		h.log.Warn(h.log.WithFields(ctx, map[string]any{"order_id": p.OrderID, "reason": err.Error()}), "payment notification settled with failure")
		c.JSON(http.StatusOK, gin.H{"status": string(p.State)})
	}
}
