package interfaces

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData indicates a synthesis was attempted for a day with no
	// market snapshots. The symbol is skipped, not retried that day.
	ErrNoData = errors.New("no market data for requested day")

	// ErrReportNotFound indicates no report exists for a (symbol, date) key.
	ErrReportNotFound = errors.New("report not found")

	// ErrInvalidTransition indicates a scheduler transition was requested
	// from a state that does not support it (e.g. toggle while stopped).
	ErrInvalidTransition = errors.New("invalid scheduler state transition")
)

// ProviderError wraps a failed external capability call. Provider failures
// are transient and isolated per symbol; they never terminate a tick.
type ProviderError struct {
	Provider string
	Symbol   string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("%s provider call failed for %s: %v", e.Provider, e.Symbol, e.Err)
	}
	return fmt.Sprintf("%s provider call failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
