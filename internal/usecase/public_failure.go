package usecase

import (
	"errors"

	"checkout_service/internal/domain/entities"
)

// Messages shown to purchasers. Internal causes never leave the service.
const (
	MessagePaymentDeclined        = "payment declined"
	MessagePaymentExpired         = "payment window expired"
	MessageTemporaryError         = "temporary error, please retry"
	MessageEnrollmentNotCompleted = "enrollment could not be completed"
)

// PublicFailureMessage maps a pipeline error to what the purchaser is told.
func PublicFailureMessage(err error) string {
	if err == nil {
		return ""
	}
	switch entities.KindOf(err) {
	case entities.ErrorKindRejected:
		if errors.Is(err, entities.ErrIntentExpired) {
			return MessagePaymentExpired
		}
		return MessagePaymentDeclined
	case entities.ErrorKindPreconditionFailed, entities.ErrorKindInvalidDiscount:
		return MessageEnrollmentNotCompleted
	}
	return MessageTemporaryError
}

// PurchaseFailureMessage is the purchaser-facing reason of a failed purchase.
func PurchaseFailureMessage(p entities.Purchase) string {
	switch p.State {
	case entities.PurchaseStatePaymentFailed:
		return MessagePaymentDeclined
	case entities.PurchaseStatePaymentExpired:
		return MessagePaymentExpired
	case entities.PurchaseStateProvisioningFailed:
		return MessageEnrollmentNotCompleted
	}
	return ""
}
