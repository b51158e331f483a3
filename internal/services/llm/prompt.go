package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/sentio/internal/interfaces"
)

// analysisSystemPrompt frames the model as an equity analyst and pins the
// output contract to a single JSON object.
const analysisSystemPrompt = `You are an experienced equity analyst. You are given one trading day of intraday price snapshots and news articles for a single stock. Produce a daily sentiment analysis.

Respond with a single JSON object and nothing else, using exactly these fields:
{
  "analyst_insights": "<2-4 sentences of analyst commentary>",
  "performance": "<1-2 sentences describing the day's price action>",
  "sentiment_score": <integer 1-10, 1 very bearish, 10 very bullish>,
  "sentiment_statement": "<one sentence overall sentiment>"
}`

// buildAnalysisPrompt renders one day of snapshots into the user prompt.
func buildAnalysisPrompt(req *interfaces.AnalysisRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Stock: %s\nDate: %s\n\n", req.Symbol, req.Date)

	b.WriteString("Intraday price snapshots (chronological):\n")
	if len(req.Snapshots) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, snap := range req.Snapshots {
		fmt.Fprintf(&b, "  %s  %.4f %s\n",
			snap.Timestamp.Format("15:04"), snap.Price, snap.Currency)
	}

	b.WriteString("\nNews articles:\n")
	if len(req.News) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, item := range req.News {
		fmt.Fprintf(&b, "- %s (sentiment %d/10, impact %d/10)\n", item.Title, item.SentimentScore, item.ImpactScore)
		if item.Summary != "" {
			fmt.Fprintf(&b, "  %s\n", item.Summary)
		}
	}

	b.WriteString("\nAnalyze the day and respond with the JSON object.")
	return b.String()
}

// parseAnalysisResponse extracts the JSON analysis object from a model
// response. Models occasionally wrap the object in markdown fences or
// surrounding prose, so the parser locates the outermost braces first.
func parseAnalysisResponse(response string) (*interfaces.AnalysisResult, error) {
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object found in model response")
	}

	var result interfaces.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}

	if result.SentimentStatement == "" {
		return nil, fmt.Errorf("analysis response missing sentiment_statement")
	}

	// Clamp the score into the 1-10 contract
	if result.SentimentScore < 1 {
		result.SentimentScore = 1
	}
	if result.SentimentScore > 10 {
		result.SentimentScore = 10
	}

	return &result, nil
}
