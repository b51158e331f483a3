package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/sentio/internal/interfaces"
	"github.com/ternarybob/sentio/internal/models"
)

func TestBuildAnalysisPrompt(t *testing.T) {
	req := &interfaces.AnalysisRequest{
		Symbol: "AAPL.US",
		Date:   "2026-02-02",
		Snapshots: []models.MarketSnapshot{
			{Symbol: "AAPL.US", Timestamp: time.Date(2026, 2, 2, 9, 5, 0, 0, time.UTC), Price: 101.5, Currency: "USD"},
			{Symbol: "AAPL.US", Timestamp: time.Date(2026, 2, 2, 15, 55, 0, 0, time.UTC), Price: 103.2, Currency: "USD"},
		},
		News: []models.NewsItem{
			{Title: "Earnings beat expectations", Summary: "Strong quarter", SentimentScore: 8, ImpactScore: 7},
		},
	}

	prompt := buildAnalysisPrompt(req)

	assert.Contains(t, prompt, "Stock: AAPL.US")
	assert.Contains(t, prompt, "Date: 2026-02-02")
	assert.Contains(t, prompt, "101.5000 USD")
	assert.Contains(t, prompt, "Earnings beat expectations")
	assert.Contains(t, prompt, "sentiment 8/10")
}

func TestBuildAnalysisPromptEmptySections(t *testing.T) {
	prompt := buildAnalysisPrompt(&interfaces.AnalysisRequest{Symbol: "GNP.AU", Date: "2026-02-02"})
	assert.Contains(t, prompt, "(none)")
}

func TestParseAnalysisResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantErr  bool
		want     int
	}{
		{
			name:     "plain json",
			response: `{"analyst_insights":"a","performance":"b","sentiment_score":7,"sentiment_statement":"bullish"}`,
			want:     7,
		},
		{
			name: "fenced json",
			response: "```json\n" +
				`{"analyst_insights":"a","performance":"b","sentiment_score":4,"sentiment_statement":"mixed"}` +
				"\n```",
			want: 4,
		},
		{
			name:     "surrounding prose",
			response: `Here is the analysis: {"analyst_insights":"a","performance":"b","sentiment_score":9,"sentiment_statement":"bullish"} Hope that helps.`,
			want:     9,
		},
		{
			name:     "score clamped high",
			response: `{"analyst_insights":"a","performance":"b","sentiment_score":15,"sentiment_statement":"euphoric"}`,
			want:     10,
		},
		{
			name:     "score clamped low",
			response: `{"analyst_insights":"a","performance":"b","sentiment_score":0,"sentiment_statement":"bearish"}`,
			want:     1,
		},
		{
			name:     "no json",
			response: "I cannot analyze this stock.",
			wantErr:  true,
		},
		{
			name:     "missing statement",
			response: `{"analyst_insights":"a","performance":"b","sentiment_score":5}`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseAnalysisResponse(tt.response)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.SentimentScore)
		})
	}
}
