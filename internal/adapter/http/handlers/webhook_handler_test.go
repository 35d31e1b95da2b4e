package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"checkout_service/internal/adapter/http/handlers/mocks"
	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func TestWebhookHandler_PaymentNotification(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(o *mocks.MockIPurchaseOrchestrator) *gin.Engine {
		r := gin.New()
		r.POST("/v1/webhooks/payments", NewWebhookHandler(o, nil).PaymentNotification)
		return r
	}
	post := func(r *gin.Engine, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("non payment topics are acknowledged", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		w := post(newRouter(mocks.NewMockIPurchaseOrchestrator(ctrl)), "/v1/webhooks/payments", `{"type":"merchant_order","data":{"id":"9"}}`)
		if w.Code != http.StatusOK || decodeBody(t, w)["status"] != "ignored" {
			t.Fatalf("unexpected answer %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("payment body confirms by processor reference", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		o := mocks.NewMockIPurchaseOrchestrator(ctrl)
		o.EXPECT().ConfirmByProcessorReference(gomock.Any(), "123").Return(entities.Purchase{OrderID: "o-1", State: entities.PurchaseStateEnrolled}, nil)

		w := post(newRouter(o), "/v1/webhooks/payments", `{"type":"payment","action":"payment.updated","data":{"id":"123"}}`)
		if w.Code != http.StatusOK || decodeBody(t, w)["status"] != "enrolled" {
			t.Fatalf("unexpected answer %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("query string notification", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		o := mocks.NewMockIPurchaseOrchestrator(ctrl)
		o.EXPECT().ConfirmByProcessorReference(gomock.Any(), "456").Return(entities.Purchase{OrderID: "o-2", State: entities.PurchaseStateIntentCreated}, nil)

		w := post(newRouter(o), "/v1/webhooks/payments?topic=payment&id=456", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("transient failure asks for redelivery", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		o := mocks.NewMockIPurchaseOrchestrator(ctrl)
		o.EXPECT().ConfirmByProcessorReference(gomock.Any(), "123").Return(entities.Purchase{}, entities.NewPipelineError(entities.ErrorKindStorageUnavailable, errors.New("throttled")))

		w := post(newRouter(o), "/v1/webhooks/payments", `{"type":"payment","data":{"id":"123"}}`)
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", w.Code)
		}
	})

	t.Run("unknown and declined payments are acknowledged", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		o := mocks.NewMockIPurchaseOrchestrator(ctrl)
		o.EXPECT().ConfirmByProcessorReference(gomock.Any(), "404").Return(entities.Purchase{}, entities.NewGatewayError(entities.ErrorKindNotFound, usecase.ErrPaymentIntentNotFound))
		o.EXPECT().ConfirmByProcessorReference(gomock.Any(), "402").Return(entities.Purchase{OrderID: "o-9", State: entities.PurchaseStatePaymentFailed}, entities.NewGatewayError(entities.ErrorKindRejected, usecase.ErrPaymentDeclined))

		r := newRouter(o)
		if w := post(r, "/v1/webhooks/payments", `{"type":"payment","data":{"id":"404"}}`); w.Code != http.StatusOK {
			t.Fatalf("expected 200 for unknown payment, got %d", w.Code)
		}
		w := post(r, "/v1/webhooks/payments", `{"type":"payment","data":{"id":"402"}}`)
		if w.Code != http.StatusOK || decodeBody(t, w)["status"] != "payment_failed" {
			t.Fatalf("unexpected answer %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("missing id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		w := post(newRouter(mocks.NewMockIPurchaseOrchestrator(ctrl)), "/v1/webhooks/payments", `{"type":"payment"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}
