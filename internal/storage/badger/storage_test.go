package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentio/internal/common"
	"github.com/ternarybob/sentio/internal/interfaces"
	"github.com/ternarybob/sentio/internal/models"
)

func newTestDB(t *testing.T) *BadgerDB {
	t.Helper()

	logger := arbor.NewLogger()
	db, err := NewBadgerDB(logger, &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestSnapshotStorageWindowAndOrder(t *testing.T) {
	db := newTestDB(t)
	logger := arbor.NewLogger()
	storage := NewSnapshotStorage(db, logger)
	ctx := context.Background()

	day := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

	// Insert out of order, plus one record outside the window and one for
	// another symbol
	for _, offset := range []time.Duration{14 * time.Hour, 10 * time.Hour, 12 * time.Hour} {
		require.NoError(t, storage.SaveMarketSnapshot(ctx, &models.MarketSnapshot{
			Symbol:    "AAPL.US",
			Timestamp: day.Add(offset),
			Price:     100 + offset.Hours(),
			Currency:  "USD",
		}))
	}
	require.NoError(t, storage.SaveMarketSnapshot(ctx, &models.MarketSnapshot{
		Symbol:    "AAPL.US",
		Timestamp: day.AddDate(0, 0, 1).Add(10 * time.Hour),
		Price:     200,
		Currency:  "USD",
	}))
	require.NoError(t, storage.SaveMarketSnapshot(ctx, &models.MarketSnapshot{
		Symbol:    "MSFT.US",
		Timestamp: day.Add(11 * time.Hour),
		Price:     300,
		Currency:  "USD",
	}))

	snapshots, err := storage.GetMarketSnapshots(ctx, "AAPL.US", day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, snapshots, 3)

	// Ordered ascending by timestamp
	assert.Equal(t, 110.0, snapshots[0].Price)
	assert.Equal(t, 112.0, snapshots[1].Price)
	assert.Equal(t, 114.0, snapshots[2].Price)
}

func TestSnapshotStorageRejectsEmptySymbol(t *testing.T) {
	db := newTestDB(t)
	storage := NewSnapshotStorage(db, arbor.NewLogger())

	err := storage.SaveMarketSnapshot(context.Background(), &models.MarketSnapshot{Timestamp: time.Now()})
	assert.Error(t, err)
}

func TestNewsItemsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	storage := NewSnapshotStorage(db, arbor.NewLogger())
	ctx := context.Background()

	day := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	items := []models.NewsItem{
		{Symbol: "AAPL.US", Timestamp: day.Add(9 * time.Hour), Title: "first", SentimentScore: 7, ImpactScore: 5},
		{Symbol: "AAPL.US", Timestamp: day.Add(13 * time.Hour), Title: "second", SentimentScore: 4, ImpactScore: 6},
	}
	require.NoError(t, storage.SaveNewsItems(ctx, items))

	got, err := storage.GetNewsItems(ctx, "AAPL.US", day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, "second", got[1].Title)
}

func TestReportStorageUpsertAndGet(t *testing.T) {
	db := newTestDB(t)
	storage := NewReportStorage(db, arbor.NewLogger())
	ctx := context.Background()

	report := &models.DailySentimentReport{
		Symbol:             "AAPL.US",
		Date:               "2026-02-02",
		ClosingPrice:       models.Price{Currency: "USD", Price: 123.45},
		SentimentScore:     7,
		SentimentStatement: "Cautiously bullish",
		UpdatedAt:          time.Now().UTC(),
	}
	require.NoError(t, storage.UpsertReport(ctx, report))

	got, err := storage.GetReport(ctx, "AAPL.US", "2026-02-02")
	require.NoError(t, err)
	assert.Equal(t, 7, got.SentimentScore)
	assert.Equal(t, 123.45, got.ClosingPrice.Price)

	// Re-running the day replaces the prior report
	report.SentimentScore = 3
	require.NoError(t, storage.UpsertReport(ctx, report))

	got, err = storage.GetReport(ctx, "AAPL.US", "2026-02-02")
	require.NoError(t, err)
	assert.Equal(t, 3, got.SentimentScore)

	reports, err := storage.ListReportsByDate(ctx, "2026-02-02")
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestReportStorageNotFound(t *testing.T) {
	db := newTestDB(t)
	storage := NewReportStorage(db, arbor.NewLogger())

	_, err := storage.GetReport(context.Background(), "AAPL.US", "2026-02-02")
	assert.ErrorIs(t, err, interfaces.ErrReportNotFound)
}

func TestReportStorageListOrderedBySymbol(t *testing.T) {
	db := newTestDB(t)
	storage := NewReportStorage(db, arbor.NewLogger())
	ctx := context.Background()

	for _, symbol := range []string{"MSFT.US", "AAPL.US", "GOOG.US"} {
		require.NoError(t, storage.UpsertReport(ctx, &models.DailySentimentReport{
			Symbol: symbol,
			Date:   "2026-02-02",
		}))
	}

	reports, err := storage.ListReportsByDate(ctx, "2026-02-02")
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, "AAPL.US", reports[0].Symbol)
	assert.Equal(t, "GOOG.US", reports[1].Symbol)
	assert.Equal(t, "MSFT.US", reports[2].Symbol)
}

func TestSymbolStorageRoundTrip(t *testing.T) {
	db := newTestDB(t)
	storage := NewSymbolStorage(db, arbor.NewLogger())
	ctx := context.Background()

	// Missing set is an empty slice, not an error
	symbols, err := storage.GetSymbols(ctx)
	require.NoError(t, err)
	assert.Empty(t, symbols)

	require.NoError(t, storage.PutSymbols(ctx, []string{"AAPL.US", "GNP.AU"}))

	symbols, err = storage.GetSymbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL.US", "GNP.AU"}, symbols)

	// Replace semantics
	require.NoError(t, storage.PutSymbols(ctx, []string{"MSFT.US"}))
	symbols, err = storage.GetSymbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"MSFT.US"}, symbols)
}
