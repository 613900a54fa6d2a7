package errors

import (
	"errors"
	"fmt"
)

var (
	ErrScanNotFound      = errors.New("scan not found")
	ErrContractNotFound  = errors.New("contract not found")
	ErrInvalidAddress    = errors.New("invalid contract address")
	ErrIllegalTransition = errors.New("illegal scan status transition")
	ErrQueueUnavailable  = errors.New("job queue unavailable")
	ErrChainUnavailable  = errors.New("chain data source unavailable")
)

// ValidationError reports a rejected request parameter. It carries the field
// and value so handlers can surface it verbatim to the caller.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %s (value: %v): %s", e.Field, e.Value, e.Message)
}

func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrInvalidAddress)
}

// IsNotFound reports whether err represents an absent record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrScanNotFound) || errors.Is(err, ErrContractNotFound)
}

// IsUpstream reports whether err came from an external collaborator
// (queue, chain RPC) rather than from this service's own logic.
func IsUpstream(err error) bool {
	return errors.Is(err, ErrQueueUnavailable) || errors.Is(err, ErrChainUnavailable)
}

// TransitionError reports a rejected scan status transition.
type TransitionError struct {
	ScanID string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("scan %s: illegal transition %s -> %s", e.ScanID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}

func NewTransitionError(scanID, from, to string) *TransitionError {
	return &TransitionError{ScanID: scanID, From: from, To: to}
}
