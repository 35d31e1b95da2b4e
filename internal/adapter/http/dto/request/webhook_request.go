package request

import "strings"

// PaymentNotification is the Mercado Pago webhook body. Older IPN deliveries
// only carry ?topic=payment&id=<id> in the query string.
type PaymentNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

type PaymentNotificationQuery struct {
	Type   string `form:"type"`
	Topic  string `form:"topic"`
	ID     string `form:"id"`
	DataID string `form:"data.id"`
}

// IsPayment reports whether the notification concerns a payment resource.
func (n PaymentNotification) IsPayment(q PaymentNotificationQuery) bool {
	kind := firstNonEmpty(n.Type, q.Type, q.Topic)
	if kind == "" {
		return strings.HasPrefix(n.Action, "payment.")
	}
	return kind == "payment"
}

// ProcessorReference is the processor payment id, wherever it was delivered.
func (n PaymentNotification) ProcessorReference(q PaymentNotificationQuery) string {
	return firstNonEmpty(n.Data.ID, q.DataID, q.ID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
