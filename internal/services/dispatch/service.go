package dispatch

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentio/internal/interfaces"
	"github.com/ternarybob/sentio/internal/models"
)

// Service formats and delivers the end-of-day report digest. Delivery
// failure never invalidates the stored reports.
type Service struct {
	mailer interfaces.MailService
	logger arbor.ILogger
}

// NewService creates a dispatch service.
func NewService(mailer interfaces.MailService, logger arbor.ILogger) *Service {
	return &Service{
		mailer: mailer,
		logger: logger,
	}
}

// Dispatch sends the day's reports as a single digest email. Zero reports
// is a successful no-send.
func (s *Service) Dispatch(ctx context.Context, date string, reports []models.DailySentimentReport) error {
	if len(reports) == 0 {
		s.logger.Info().Str("date", date).Msg("No reports to dispatch")
		return nil
	}

	if !s.mailer.IsConfigured() {
		s.logger.Warn().Str("date", date).Msg("Mail delivery not configured, skipping dispatch")
		return nil
	}

	subject := fmt.Sprintf("Sentio Daily Stock Report - %s", date)

	if err := s.mailer.Send(ctx, subject, formatText(date, reports), formatHTML(date, reports)); err != nil {
		s.logger.Error().Err(err).Str("date", date).Int("reports", len(reports)).Msg("Report dispatch failed")
		return fmt.Errorf("failed to dispatch daily report: %w", err)
	}

	s.logger.Info().Str("date", date).Int("reports", len(reports)).Msg("Daily report dispatched")
	return nil
}

func formatText(date string, reports []models.DailySentimentReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Daily Stock Sentiment Report - %s\n", date)
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", 50))

	for _, r := range reports {
		fmt.Fprintf(&b, "%s\n", r.Symbol)
		fmt.Fprintf(&b, "  Close:     %.2f %s\n", r.ClosingPrice.Price, r.ClosingPrice.Currency)
		fmt.Fprintf(&b, "  Sentiment: %d/10 - %s\n", r.SentimentScore, r.SentimentStatement)
		fmt.Fprintf(&b, "  Performance: %s\n", r.Performance)
		fmt.Fprintf(&b, "  Insights:  %s\n\n", r.AnalystInsights)
	}

	return b.String()
}

func formatHTML(date string, reports []models.DailySentimentReport) string {
	var b strings.Builder

	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<h2>Daily Stock Sentiment Report - %s</h2>", html.EscapeString(date))
	b.WriteString("<table border=\"1\" cellpadding=\"6\" cellspacing=\"0\">")
	b.WriteString("<tr><th>Symbol</th><th>Close</th><th>Sentiment</th><th>Performance</th><th>Insights</th></tr>")

	for _, r := range reports {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%.2f %s</td><td>%d/10 - %s</td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(r.Symbol),
			r.ClosingPrice.Price,
			html.EscapeString(r.ClosingPrice.Currency),
			r.SentimentScore,
			html.EscapeString(r.SentimentStatement),
			html.EscapeString(r.Performance),
			html.EscapeString(r.AnalystInsights),
		)
	}

	b.WriteString("</table></body></html>")
	return b.String()
}
