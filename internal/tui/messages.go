package tui

import (
	"time"

	"github.com/stockr-hq/stockr-cli/internal/portfolio"
)

// Message types for async operations. Every fetch result carries the
// portfolio id the request was issued for; the model discards results whose
// id no longer matches the current portfolio, so an in-flight fetch can never
// commit stale data after the selection changes.

// holdingsLoadedMsg is sent when the holdings list is loaded successfully.
type holdingsLoadedMsg struct {
	portfolioID string
	holdings    []portfolio.Holding
}

// holdingsErrorMsg is sent when the holdings load fails.
type holdingsErrorMsg struct {
	portfolioID string
	err         error
}

// pricesLoadedMsg is sent when the price fan-out has settled for every
// ticker. Unavailable prices are nil entries, not errors.
type pricesLoadedMsg struct {
	portfolioID string
	prices      map[string]*float64
}

// sellCompletedMsg is sent when a sell transaction was recorded.
type sellCompletedMsg struct {
	portfolioID string
}

// sellFailedMsg is sent when a sell transaction was rejected.
type sellFailedMsg struct {
	portfolioID string
	err         error
}

// assetAddedMsg is sent when an add transaction was recorded. The root model
// observes it too, so sibling panels can refresh independently.
type assetAddedMsg struct {
	portfolioID string
}

// addFailedMsg is sent when an add transaction was rejected.
type addFailedMsg struct {
	portfolioID string
	err         error
}

// tickMsg is the periodic external refresh signal.
type tickMsg time.Time
