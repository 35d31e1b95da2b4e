package handlers

import (
	"net/http"
	"strings"

	request "checkout_service/internal/adapter/http/dto/request"
	response "checkout_service/internal/adapter/http/dto/response"
	"checkout_service/internal/usecase"
	"checkout_service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// PurchaseHandler exposes checkout to purchasers.
type PurchaseHandler struct {
	orchestrator usecase.IPurchaseOrchestrator
	log          *logger.Logger
}

func NewPurchaseHandler(o usecase.IPurchaseOrchestrator, log *logger.Logger) *PurchaseHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PurchaseHandler{orchestrator: o, log: log}
}

// CreatePurchase godoc
// @Summary      Start a purchase
// @Description  Creates the payment intent for an offering. PIX and boleto answers carry the payment instructions; approved cards continue to enrollment.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        payload  body      request.PurchaseCreateRequest  true  "Purchase"
// @Success      201      {object}  response.PurchaseResponse
// @Failure      400      {object}  pkg.HTTPError
// @Failure      402      {object}  pkg.HTTPError
// @Failure      409      {object}  pkg.HTTPError
// @Failure      503      {object}  pkg.HTTPError
// @Router       /purchases [post]
func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	ctx := h.log.WithComponent(c.Request.Context(), "http.purchase")
	var payload request.PurchaseCreateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.log.Warn(h.log.WithField(ctx, "reason", err.Error()), "invalid purchase payload")
		writeError(c, errInvalidPurchasePayload)
		return
	}
	req, err := payload.ToEntity(strings.TrimSpace(c.GetHeader("X-Created-By")))
	if err != nil {
		writeError(c, errInvalidPurchasePayload)
		return
	}

	intent, err := h.orchestrator.SubmitPurchase(ctx, req)
	if err != nil {
		appErr := mapCheckoutError(err)
		h.log.Error(h.log.WithFields(ctx, map[string]any{"order_id": intent.OrderID, "code": appErr.Code}), "create purchase failed", err)
		writeError(c, appErr)
		return
	}
	h.log.Info(h.log.WithFields(ctx, map[string]any{"order_id": intent.OrderID, "payment_status": string(intent.Status)}), "purchase created")
	c.JSON(http.StatusCreated, response.FromIntent(intent))
}

// GetPurchase godoc
// @Summary      Purchase status
// @Tags         purchases
// @Produce      json
// @Param        order_id  path      string  true  "Order id"
// @Success      200       {object}  response.PurchaseResponse
// @Failure      404       {object}  pkg.HTTPError
// @Router       /purchases/{order_id} [get]
func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	orderID := strings.TrimSpace(c.Param("order_id"))
	ctx := h.log.WithOrderID(h.log.WithComponent(c.Request.Context(), "http.purchase"), orderID)
	view, err := h.orchestrator.PurchaseStatus(ctx, orderID)
	if err != nil {
		appErr := mapCheckoutError(err)
		h.log.Warn(h.log.WithField(ctx, "code", appErr.Code), "purchase status failed")
		writeError(c, appErr)
		return
	}
	c.JSON(http.StatusOK, response.FromPurchase(view.Purchase, view.Intent, usecase.PurchaseFailureMessage(view.Purchase)))
}

// ConfirmPurchase godoc
// @Summary      Check payment now
// @Description  Asks the processor for the payment status and, once paid, carries the purchase through enrollment.
// @Tags         purchases
// @Produce      json
// @Param        order_id  path      string  true  "Order id"
// @Success      200       {object}  response.PurchaseResponse
// @Failure      402       {object}  pkg.HTTPError
// @Failure      404       {object}  pkg.HTTPError
// @Failure      422       {object}  pkg.HTTPError
// @Router       /purchases/{order_id}/confirm [post]
func (h *PurchaseHandler) ConfirmPurchase(c *gin.Context) {
	orderID := strings.TrimSpace(c.Param("order_id"))
	ctx := h.log.WithOrderID(h.log.WithComponent(c.Request.Context(), "http.purchase"), orderID)
	if _, err := h.orchestrator.ConfirmPayment(ctx, orderID); err != nil {
		appErr := mapCheckoutError(err)
		h.log.Warn(h.log.WithFields(ctx, map[string]any{"code": appErr.Code, "reason": err.Error()}), "confirm purchase failed")
		writeError(c, appErr)
		return
	}
	view, err := h.orchestrator.PurchaseStatus(ctx, orderID)
	if err != nil {
		writeError(c, mapCheckoutError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromPurchase(view.Purchase, view.Intent, usecase.PurchaseFailureMessage(view.Purchase)))
}
