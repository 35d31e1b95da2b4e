package routes

import (
	"checkout_service/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathPurchases = "/purchases"
	PathWebhooks  = "/webhooks"
	PathAdmin     = "/admin"
)

func addCheckoutRoutes(rg *gin.RouterGroup, purchaseHandler *handlers.PurchaseHandler, webhookHandler *handlers.WebhookHandler) {
	purchases := rg.Group(PathPurchases)
	{
		purchases.POST("", purchaseHandler.CreatePurchase)
		purchases.GET("/:order_id", purchaseHandler.GetPurchase)
		purchases.POST("/:order_id/confirm", purchaseHandler.ConfirmPurchase)
	}

	webhooks := rg.Group(PathWebhooks)
	{
		// Processor notification URL; unauthenticated, the payment is re-read from the processor.
		webhooks.POST("/payments", webhookHandler.PaymentNotification)
	}
}

func addAdminRoutes(admin *gin.RouterGroup, adminHandler *handlers.AdminHandler) {
	admin.GET("/ledger/entries", adminHandler.ListLedgerEntries)
	admin.GET("/ledger/stats", adminHandler.LedgerStats)
	admin.GET("/enrollments/:enrollment_id/invoices", adminHandler.ListInvoices)
	admin.POST("/invoices/:invoice_id/retry", adminHandler.RetryInvoice)
	admin.POST("/invoices/:invoice_id/reissue", adminHandler.ReissueInvoice)
	admin.GET("/purchases/:order_id", adminHandler.GetPurchase)
}
