package rules

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrItemOwnership = errors.New("feeder does not own item")
	ErrInvalidState  = errors.New("invalid state")
	ErrLedger        = errors.New("ledger failure")
	ErrRateLimited   = errors.New("rate limited")
)

// RateLimitReason identifica qué ventana de enfriamiento se violó.
type RateLimitReason string

const (
	ReasonTooFrequentInteraction RateLimitReason = "too_frequent_interaction"
	ReasonTooFrequentCoinEarn    RateLimitReason = "too_frequent_coin_earn"
)

// RateLimitError se devuelve cuando una acción cae dentro de su ventana.
// errors.Is(err, ErrRateLimited) es true.
type RateLimitError struct {
	Reason     RateLimitReason
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: %s (retry after %s)", e.Reason, e.RetryAfter)
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// LedgerError envuelve un fallo del ledger externo (mint/burn).
func LedgerError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrLedger, op, err)
}

// Outcome clasifica un error para métricas y logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrItemOwnership):
		return "item_ownership"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrLedger):
		return "ledger_failure"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
