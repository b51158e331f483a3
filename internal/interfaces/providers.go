package interfaces

import (
	"context"
	"time"
)

// Quote is a single market-data observation returned by a provider.
type Quote struct {
	Symbol    string
	Price     float64
	Currency  string
	Timestamp time.Time
}

// NewsArticle is a raw article returned by a news provider, before it is
// stamped into a NewsItem snapshot.
type NewsArticle struct {
	Title           string
	Summary         string
	SentimentScore  int // 1-10, provider estimate (midpoint when unknown)
	ImpactScore     int // 1-10, provider estimate (midpoint when unknown)
	Source          string
	PublicationDate string // YYYY-MM-DD, optional
}

// MarketDataProvider retrieves market quotes from an external capability.
type MarketDataProvider interface {
	GetQuote(ctx context.Context, symbol string) (*Quote, error)
}

// NewsProvider searches an external capability for recent news about a
// symbol. An empty result is valid, not an error.
type NewsProvider interface {
	Search(ctx context.Context, symbol string) ([]NewsArticle, error)
}
