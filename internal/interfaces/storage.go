package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/sentio/internal/models"
)

// SnapshotStorage is the append-only, time-ordered store for market and
// news snapshots. Written records are never mutated or lost.
type SnapshotStorage interface {
	// SaveMarketSnapshot appends one market snapshot.
	SaveMarketSnapshot(ctx context.Context, snapshot *models.MarketSnapshot) error

	// SaveNewsItems appends a batch of news items.
	SaveNewsItems(ctx context.Context, items []models.NewsItem) error

	// GetMarketSnapshots returns a symbol's market snapshots with
	// from <= timestamp < to, ordered by timestamp ascending.
	GetMarketSnapshots(ctx context.Context, symbol string, from, to time.Time) ([]models.MarketSnapshot, error)

	// GetNewsItems returns a symbol's news items with
	// from <= timestamp < to, ordered by timestamp ascending.
	GetNewsItems(ctx context.Context, symbol string, from, to time.Time) ([]models.NewsItem, error)
}

// ReportStorage stores daily sentiment reports keyed by (symbol, date).
type ReportStorage interface {
	// UpsertReport inserts or replaces the report for its (symbol, date) key.
	UpsertReport(ctx context.Context, report *models.DailySentimentReport) error

	// GetReport returns the report for (symbol, date) or ErrReportNotFound.
	GetReport(ctx context.Context, symbol, date string) (*models.DailySentimentReport, error)

	// ListReportsByDate returns all reports for a date, ordered by symbol.
	ListReportsByDate(ctx context.Context, date string) ([]models.DailySentimentReport, error)
}

// SymbolStorage persists the tracked symbol set.
type SymbolStorage interface {
	// GetSymbols returns the stored tracked set. A missing set is an empty
	// slice, not an error.
	GetSymbols(ctx context.Context) ([]string, error)

	// PutSymbols replaces the stored tracked set.
	PutSymbols(ctx context.Context, symbols []string) error
}
