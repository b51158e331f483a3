package interfaces

import (
	"context"

	"github.com/ternarybob/sentio/internal/models"
)

// AnalysisRequest carries one day of aggregated snapshots for a symbol into
// the AI inference capability.
type AnalysisRequest struct {
	Symbol    string
	Date      string // YYYY-MM-DD in the reference timezone
	Snapshots []models.MarketSnapshot
	News      []models.NewsItem
}

// AnalysisResult is the model's structured sentiment output. The closing
// price is not part of the result: it is derived from the last market
// snapshot of the day, which is authoritative.
type AnalysisResult struct {
	AnalystInsights    string `json:"analyst_insights"`
	Performance        string `json:"performance"`
	SentimentScore     int    `json:"sentiment_score"`
	SentimentStatement string `json:"sentiment_statement"`
}

// LLMService is the AI inference capability used for sentiment synthesis.
type LLMService interface {
	// Analyze produces a structured sentiment analysis from a day's snapshots.
	Analyze(ctx context.Context, req *AnalysisRequest) (*AnalysisResult, error)

	// HealthCheck verifies the service can handle requests.
	HealthCheck(ctx context.Context) error

	// Close releases resources.
	Close() error
}
