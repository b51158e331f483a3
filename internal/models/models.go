// Package models defines the domain records persisted and exchanged by the
// sentiment engine.
package models

import "time"

// Price is a currency-qualified price value.
type Price struct {
	Currency string  `json:"currency"`
	Price    float64 `json:"price"`
}

// MarketSnapshot is one immutable market observation for a symbol.
// Snapshots are append-only and ordered by timestamp within a symbol.
type MarketSnapshot struct {
	Symbol    string    `json:"symbol" badgerhold:"index"`
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
}

// NewsItem is one immutable news observation for a symbol.
// Sentiment and impact scores are on a 1-10 scale.
type NewsItem struct {
	Symbol          string    `json:"symbol" badgerhold:"index"`
	Timestamp       time.Time `json:"timestamp"`
	Title           string    `json:"title"`
	Summary         string    `json:"summary"`
	SentimentScore  int       `json:"sentiment_score"`
	ImpactScore     int       `json:"impact_score"`
	Source          string    `json:"source"`
	PublicationDate string    `json:"publication_date,omitempty"` // YYYY-MM-DD, optional
}

// DailySentimentReport is the synthesized end-of-day sentiment for one
// symbol on one trading day. Keyed by (symbol, date); recomputation
// replaces the prior report for that key.
type DailySentimentReport struct {
	Symbol             string    `json:"symbol"`
	Date               string    `json:"date" badgerhold:"index"` // YYYY-MM-DD in the reference timezone
	ClosingPrice       Price     `json:"closing_price"`
	AnalystInsights    string    `json:"analyst_insights"`
	Performance        string    `json:"performance"`
	SentimentScore     int       `json:"sentiment_score"`
	SentimentStatement string    `json:"sentiment_statement"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// SchedulerState is the controller state machine value.
// Wire values: 0 stopped, 1 running, 2 paused.
type SchedulerState int

const (
	SchedulerStopped SchedulerState = 0
	SchedulerRunning SchedulerState = 1
	SchedulerPaused  SchedulerState = 2
)

// String returns a human-readable state name.
func (s SchedulerState) String() string {
	switch s {
	case SchedulerStopped:
		return "stopped"
	case SchedulerRunning:
		return "running"
	case SchedulerPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Scheduled job names. Jobs are rebuilt from configuration on every
// start/refresh and are never persisted.
const (
	JobMarketFetch = "market-fetch"
	JobNewsFetch   = "news-fetch"
	JobEndOfDay    = "end-of-day-analysis"
)
