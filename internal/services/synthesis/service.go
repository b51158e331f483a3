package synthesis

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentio/internal/calendar"
	"github.com/ternarybob/sentio/internal/interfaces"
	"github.com/ternarybob/sentio/internal/models"
)

// Service turns one day of stored snapshots into a persisted sentiment
// report. The closing price always comes from the last market snapshot of
// the day, not from the model output.
type Service struct {
	snapshots interfaces.SnapshotStorage
	reports   interfaces.ReportStorage
	llm       interfaces.LLMService
	calendar  *calendar.TradingCalendar
	logger    arbor.ILogger
}

// NewService creates a synthesis service.
func NewService(
	snapshots interfaces.SnapshotStorage,
	reports interfaces.ReportStorage,
	llm interfaces.LLMService,
	cal *calendar.TradingCalendar,
	logger arbor.ILogger,
) *Service {
	return &Service{
		snapshots: snapshots,
		reports:   reports,
		llm:       llm,
		calendar:  cal,
		logger:    logger,
	}
}

// Synthesize builds and persists the sentiment report for a symbol on the
// day containing asOf. Returns ErrNoData when the day has no market
// snapshots for the symbol.
func (s *Service) Synthesize(ctx context.Context, symbol string, asOf time.Time) (*models.DailySentimentReport, error) {
	from, to := s.calendar.DayWindow(asOf)
	date := from.Format("2006-01-02")

	snapshots, err := s.snapshots.GetMarketSnapshots(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		s.logger.Warn().Str("symbol", symbol).Str("date", date).Msg("No market snapshots for day, skipping analysis")
		return nil, interfaces.ErrNoData
	}

	news, err := s.snapshots.GetNewsItems(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}

	result, err := s.llm.Analyze(ctx, &interfaces.AnalysisRequest{
		Symbol:    symbol,
		Date:      date,
		Snapshots: snapshots,
		News:      news,
	})
	if err != nil {
		return nil, err
	}

	// Snapshots are ordered ascending, so the last one carries the close.
	closing := snapshots[len(snapshots)-1]

	report := &models.DailySentimentReport{
		Symbol: symbol,
		Date:   date,
		ClosingPrice: models.Price{
			Currency: closing.Currency,
			Price:    closing.Price,
		},
		AnalystInsights:    result.AnalystInsights,
		Performance:        result.Performance,
		SentimentScore:     result.SentimentScore,
		SentimentStatement: result.SentimentStatement,
		UpdatedAt:          time.Now().UTC(),
	}

	if err := s.reports.UpsertReport(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("symbol", symbol).
		Str("date", date).
		Int("sentiment_score", report.SentimentScore).
		Msg("Daily sentiment report stored")

	return report, nil
}

// QuickAnalysis runs the synthesis pipeline for an ad-hoc symbol list
// against today's stored snapshots. Symbols without data are skipped.
func (s *Service) QuickAnalysis(ctx context.Context, symbols []string) ([]models.DailySentimentReport, error) {
	now := time.Now()

	reports := make([]models.DailySentimentReport, 0, len(symbols))
	for _, symbol := range symbols {
		report, err := s.Synthesize(ctx, symbol, now)
		if err != nil {
			if err == interfaces.ErrNoData {
				continue
			}
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Quick analysis failed for symbol")
			continue
		}
		reports = append(reports, *report)
	}

	return reports, nil
}
