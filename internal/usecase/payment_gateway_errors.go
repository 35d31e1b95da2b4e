package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"checkout_service/internal/domain/entities"
)

// ErrProcessorCredentials means the access token was refused; operators must fix it.
var ErrProcessorCredentials = errors.New("payment processor refused credentials")

// classifyGatewayError maps a processor failure onto a gateway error kind.
// Mercado Pago returns its API errors as JSON text inside the SDK error.
func classifyGatewayError(err error) *entities.GatewayError {
	var gerr *entities.GatewayError
	if errors.As(err, &gerr) {
		return gerr
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return entities.NewGatewayError(entities.ErrorKindUnreachable, err)
	case isGatewayCustomerNotFound(err), isGatewayInvalidUsers(err), isGatewayBadRequest(err):
		return entities.NewGatewayError(entities.ErrorKindInvalidRequest, err)
	case isGatewayUnauthorized(err):
		return entities.NewGatewayError(entities.ErrorKindUnreachable, fmt.Errorf("%w: %v", ErrProcessorCredentials, err))
	}
	return entities.NewGatewayError(entities.ErrorKindUnreachable, err)
}

func isGatewayBadRequest(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"bad_request\"") || strings.Contains(msg, "\"status\":400")
}

func isGatewayUnauthorized(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"unauthorized\"") || strings.Contains(msg, "\"status\":401")
}

func isGatewayInvalidUsers(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid users involved") || strings.Contains(msg, "\"code\":2034")
}

func isGatewayCustomerNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "customer not found") || strings.Contains(msg, "\"code\":2002")
}
