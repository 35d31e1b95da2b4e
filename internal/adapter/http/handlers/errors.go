package handlers

import (
	"errors"
	"net/http"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase"
	"checkout_service/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidPurchasePayload = pkg.NewDomainErrorSimple("INVALID_PURCHASE_INPUT", "Invalid purchase payload", http.StatusBadRequest)
	errInvalidRequest         = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
)

// mapCheckoutError maps pipeline errors onto the purchaser-facing messages.
// Causes are kept on the AppError for logging and never rendered.
func mapCheckoutError(err error) *pkg.AppError {
	if errors.Is(err, usecase.ErrCapabilityRequired) || errors.Is(err, usecase.ErrRoleNotAllowed) {
		return pkg.NewDomainError("ACCESS_DENIED", "Access denied", err, http.StatusForbidden)
	}
	msg := usecase.PublicFailureMessage(err)
	switch entities.KindOf(err) {
	case entities.ErrorKindNotFound:
		return pkg.NewDomainError("NOT_FOUND", "Resource not found", err, http.StatusNotFound)
	case entities.ErrorKindInvalidRequest:
		return pkg.NewDomainError("INVALID_REQUEST", "Invalid request", err, http.StatusBadRequest)
	case entities.ErrorKindDuplicate:
		return pkg.NewDomainError("PURCHASE_IN_PROGRESS", msg, err, http.StatusConflict)
	case entities.ErrorKindRejected:
		if errors.Is(err, entities.ErrIntentExpired) {
			return pkg.NewDomainError("PAYMENT_EXPIRED", msg, err, http.StatusUnprocessableEntity)
		}
		return pkg.NewDomainError("PAYMENT_DECLINED", msg, err, http.StatusPaymentRequired)
	case entities.ErrorKindPreconditionFailed, entities.ErrorKindInvalidDiscount:
		return pkg.NewDomainError("ENROLLMENT_NOT_COMPLETED", msg, err, http.StatusUnprocessableEntity)
	case entities.ErrorKindUnreachable, entities.ErrorKindTimeout, entities.ErrorKindStorageUnavailable:
		return pkg.NewDomainError("TEMPORARY_ERROR", msg, err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", msg, err, http.StatusInternalServerError)
	}
}

// mapAdminError differs from mapCheckoutError on precondition failures: an
// operator gets the state conflict, not the purchaser message.
func mapAdminError(err error) *pkg.AppError {
	if entities.KindOf(err) == entities.ErrorKindPreconditionFailed && !errors.Is(err, usecase.ErrCapabilityRequired) {
		return pkg.NewDomainError("INVALID_STATE", "Operation not allowed in the current state", err, http.StatusConflict)
	}
	return mapCheckoutError(err)
}

func writeError(c *gin.Context, appErr *pkg.AppError) {
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
