package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentio/internal/interfaces"
	"github.com/ternarybob/sentio/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ReportStorage implements the ReportStorage interface for Badger.
// Reports are keyed by "SYMBOL|YYYY-MM-DD" so a day's re-run replaces the
// prior report instead of duplicating it.
type ReportStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewReportStorage creates a new ReportStorage instance
func NewReportStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ReportStorage {
	return &ReportStorage{
		db:     db,
		logger: logger,
	}
}

func reportKey(symbol, date string) string {
	return symbol + "|" + date
}

func (s *ReportStorage) UpsertReport(ctx context.Context, report *models.DailySentimentReport) error {
	if report == nil {
		return fmt.Errorf("report is required")
	}
	if report.Symbol == "" || report.Date == "" {
		return fmt.Errorf("report symbol and date are required")
	}

	if err := s.db.Store().Upsert(reportKey(report.Symbol, report.Date), report); err != nil {
		return fmt.Errorf("failed to upsert report: %w", err)
	}
	return nil
}

func (s *ReportStorage) GetReport(ctx context.Context, symbol, date string) (*models.DailySentimentReport, error) {
	var report models.DailySentimentReport
	if err := s.db.Store().Get(reportKey(symbol, date), &report); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &report, nil
}

func (s *ReportStorage) ListReportsByDate(ctx context.Context, date string) ([]models.DailySentimentReport, error) {
	var reports []models.DailySentimentReport
	query := badgerhold.Where("Date").Eq(date).SortBy("Symbol")

	if err := s.db.Store().Find(&reports, query); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}
