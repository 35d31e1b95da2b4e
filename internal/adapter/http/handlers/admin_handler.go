package handlers

import (
	"net/http"
	"strings"

	request "checkout_service/internal/adapter/http/dto/request"
	response "checkout_service/internal/adapter/http/dto/response"
	"checkout_service/internal/adapter/http/middleware"
	"checkout_service/internal/usecase"
	"checkout_service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves ledger and fiscal administration. Every route sits
// behind middleware.AdminAuth.
type AdminHandler struct {
	orchestrator usecase.IPurchaseOrchestrator
	log          *logger.Logger
}

func NewAdminHandler(o usecase.IPurchaseOrchestrator, log *logger.Logger) *AdminHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AdminHandler{orchestrator: o, log: log}
}

// ListLedgerEntries godoc
// @Summary      List ledger entries
// @Tags         admin
// @Produce      json
// @Security     Bearer
// @Param        type            query     string  false  "income, expense, transfer or refund"
// @Param        reference_type  query     string  false  "Reference type"
// @Param        from            query     string  false  "RFC3339 or YYYY-MM-DD"
// @Param        to              query     string  false  "RFC3339 or YYYY-MM-DD"
// @Param        limit           query     int     false  "Max entries"
// @Success      200             {array}   response.LedgerEntryResponse
// @Failure      400             {object}  pkg.HTTPError
// @Failure      401             {object}  pkg.HTTPError
// @Failure      403             {object}  pkg.HTTPError
// @Router       /admin/ledger/entries [get]
func (h *AdminHandler) ListLedgerEntries(c *gin.Context) {
	var q request.LedgerListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, errInvalidRequest)
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		writeError(c, errInvalidRequest)
		return
	}
	entries, err := h.orchestrator.ListLedgerEntries(c.Request.Context(), middleware.AdminCapability(c), filter)
	if err != nil {
		h.fail(c, "list ledger entries failed", err)
		return
	}
	c.JSON(http.StatusOK, response.FromLedgerEntries(entries))
}

// LedgerStats godoc
// @Summary      Ledger totals
// @Tags         admin
// @Produce      json
// @Security     Bearer
// @Success      200  {object}  response.LedgerStatsResponse
// @Failure      401  {object}  pkg.HTTPError
// @Router       /admin/ledger/stats [get]
func (h *AdminHandler) LedgerStats(c *gin.Context) {
	stats, err := h.orchestrator.LedgerStats(c.Request.Context(), middleware.AdminCapability(c))
	if err != nil {
		h.fail(c, "ledger stats failed", err)
		return
	}
	c.JSON(http.StatusOK, response.FromLedgerStats(stats))
}

// ListInvoices godoc
// @Summary      Invoices of an enrollment
// @Tags         admin
// @Produce      json
// @Security     Bearer
// @Param        enrollment_id  path      string  true  "Enrollment id"
// @Success      200            {array}   response.InvoiceResponse
// @Router       /admin/enrollments/{enrollment_id}/invoices [get]
func (h *AdminHandler) ListInvoices(c *gin.Context) {
	enrollmentID := strings.TrimSpace(c.Param("enrollment_id"))
	invoices, err := h.orchestrator.ListInvoices(c.Request.Context(), middleware.AdminCapability(c), enrollmentID)
	if err != nil {
		h.fail(c, "list invoices failed", err)
		return
	}
	c.JSON(http.StatusOK, response.FromInvoices(invoices))
}

// RetryInvoice godoc
// @Summary      Resubmit a pending invoice
// @Tags         admin
// @Produce      json
// @Security     Bearer
// @Param        invoice_id  path      string  true  "Invoice id"
// @Success      200         {object}  response.InvoiceResponse
// @Failure      409         {object}  pkg.HTTPError
// @Router       /admin/invoices/{invoice_id}/retry [post]
func (h *AdminHandler) RetryInvoice(c *gin.Context) {
	inv, err := h.orchestrator.RetryInvoice(c.Request.Context(), middleware.AdminCapability(c), strings.TrimSpace(c.Param("invoice_id")))
	if err != nil {
		h.fail(c, "retry invoice failed", err)
		return
	}
	c.JSON(http.StatusOK, response.FromInvoice(inv))
}

// ReissueInvoice godoc
// @Summary      Reissue a rejected invoice
// @Tags         admin
// @Produce      json
// @Security     Bearer
// @Param        invoice_id  path      string  true  "Rejected invoice id"
// @Success      201         {object}  response.InvoiceResponse
// @Failure      409         {object}  pkg.HTTPError
// @Router       /admin/invoices/{invoice_id}/reissue [post]
func (h *AdminHandler) ReissueInvoice(c *gin.Context) {
	inv, err := h.orchestrator.ReissueInvoice(c.Request.Context(), middleware.AdminCapability(c), strings.TrimSpace(c.Param("invoice_id")))
	if err != nil {
		h.fail(c, "reissue invoice failed", err)
		return
	}
	c.JSON(http.StatusCreated, response.FromInvoice(inv))
}

// GetPurchase godoc
// @Summary      Every record of a purchase
// @Tags         admin
// @Produce      json
// @Security     Bearer
// @Param        order_id  path      string  true  "Order id"
// @Success      200       {object}  response.PurchaseDetailsResponse
// @Failure      404       {object}  pkg.HTTPError
// @Router       /admin/purchases/{order_id} [get]
func (h *AdminHandler) GetPurchase(c *gin.Context) {
	d, err := h.orchestrator.GetPurchase(c.Request.Context(), middleware.AdminCapability(c), strings.TrimSpace(c.Param("order_id")))
	if err != nil {
		h.fail(c, "get purchase failed", err)
		return
	}
	c.JSON(http.StatusOK, response.FromPurchaseDetails(d.Purchase, d.Intent, d.LedgerEntry, d.Enrollment, d.Invoices))
}

func (h *AdminHandler) fail(c *gin.Context, msg string, err error) {
	appErr := mapAdminError(err)
	ctx := h.log.WithFields(c.Request.Context(), map[string]any{"component": "http.admin", "code": appErr.Code})
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.log.Error(ctx, msg, err)
	} else {
		h.log.Warn(h.log.WithField(ctx, "reason", err.Error()), msg)
	}
	writeError(c, appErr)
}
