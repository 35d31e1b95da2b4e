package entities

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures across the pipeline. The orchestrator decides
// whether to retry, fail the purchase or surface the error based on it.
type ErrorKind string

const (
	ErrorKindInvalidRequest     ErrorKind = "invalid_request"
	ErrorKindRejected           ErrorKind = "rejected"
	ErrorKindUnreachable        ErrorKind = "unreachable"
	ErrorKindTimeout            ErrorKind = "timeout"
	ErrorKindPreconditionFailed ErrorKind = "precondition_failed"
	ErrorKindStorageUnavailable ErrorKind = "storage_unavailable"
	ErrorKindDuplicate          ErrorKind = "duplicate"
	ErrorKindInvalidDiscount    ErrorKind = "invalid_discount"
	ErrorKindNotFound           ErrorKind = "not_found"
)

// Retryable reports whether the same call may succeed later without changes.
func (k ErrorKind) Retryable() bool {
	switch k {
	case ErrorKindUnreachable, ErrorKindTimeout, ErrorKindStorageUnavailable:
		return true
	}
	return false
}

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrIntentExpired     = errors.New("payment intent expired")
	ErrPayloadMismatch   = errors.New("payload does not match settlement instrument")
)

type kinded interface {
	ErrorKind() ErrorKind
}

// KindOf returns the kind of the first classified error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var k kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return ""
}

func IsRetryable(err error) bool {
	return KindOf(err).Retryable()
}

func describe(component string, kind ErrorKind, err error) string {
	if err == nil {
		return fmt.Sprintf("%s: %s", component, kind)
	}
	return fmt.Sprintf("%s: %s: %v", component, kind, err)
}

// GatewayError is returned by the payment gateway client.
type GatewayError struct {
	Kind ErrorKind
	Err  error
}

func NewGatewayError(kind ErrorKind, err error) *GatewayError {
	return &GatewayError{Kind: kind, Err: err}
}

func (e *GatewayError) Error() string        { return describe("payment gateway", e.Kind, e.Err) }
func (e *GatewayError) Unwrap() error        { return e.Err }
func (e *GatewayError) ErrorKind() ErrorKind { return e.Kind }

// LedgerError is returned by the ledger recorder.
type LedgerError struct {
	Kind ErrorKind
	Err  error
}

func NewLedgerError(kind ErrorKind, err error) *LedgerError {
	return &LedgerError{Kind: kind, Err: err}
}

func (e *LedgerError) Error() string        { return describe("ledger", e.Kind, e.Err) }
func (e *LedgerError) Unwrap() error        { return e.Err }
func (e *LedgerError) ErrorKind() ErrorKind { return e.Kind }

// ProvisionError is returned by the enrollment provisioner.
type ProvisionError struct {
	Kind ErrorKind
	Err  error
}

func NewProvisionError(kind ErrorKind, err error) *ProvisionError {
	return &ProvisionError{Kind: kind, Err: err}
}

func (e *ProvisionError) Error() string        { return describe("enrollment", e.Kind, e.Err) }
func (e *ProvisionError) Unwrap() error        { return e.Err }
func (e *ProvisionError) ErrorKind() ErrorKind { return e.Kind }

// FiscalError is returned by the fiscal invoice issuer.
type FiscalError struct {
	Kind ErrorKind
	Err  error
}

func NewFiscalError(kind ErrorKind, err error) *FiscalError {
	return &FiscalError{Kind: kind, Err: err}
}

func (e *FiscalError) Error() string        { return describe("fiscal", e.Kind, e.Err) }
func (e *FiscalError) Unwrap() error        { return e.Err }
func (e *FiscalError) ErrorKind() ErrorKind { return e.Kind }

// PipelineError is raised by the orchestrator for request checks and its own
// purchase records.
type PipelineError struct {
	Kind ErrorKind
	Err  error
}

func NewPipelineError(kind ErrorKind, err error) *PipelineError {
	return &PipelineError{Kind: kind, Err: err}
}

func (e *PipelineError) Error() string        { return describe("checkout", e.Kind, e.Err) }
func (e *PipelineError) Unwrap() error        { return e.Err }
func (e *PipelineError) ErrorKind() ErrorKind { return e.Kind }
