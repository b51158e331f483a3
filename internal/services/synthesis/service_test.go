package synthesis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentio/internal/calendar"
	"github.com/ternarybob/sentio/internal/interfaces"
	"github.com/ternarybob/sentio/internal/models"
)

type fakeSnapshotStorage struct {
	snapshots []models.MarketSnapshot
	news      []models.NewsItem
}

func (f *fakeSnapshotStorage) SaveMarketSnapshot(ctx context.Context, snapshot *models.MarketSnapshot) error {
	f.snapshots = append(f.snapshots, *snapshot)
	return nil
}

func (f *fakeSnapshotStorage) SaveNewsItems(ctx context.Context, items []models.NewsItem) error {
	f.news = append(f.news, items...)
	return nil
}

func (f *fakeSnapshotStorage) GetMarketSnapshots(ctx context.Context, symbol string, from, to time.Time) ([]models.MarketSnapshot, error) {
	var out []models.MarketSnapshot
	for _, s := range f.snapshots {
		if s.Symbol == symbol && !s.Timestamp.Before(from) && s.Timestamp.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSnapshotStorage) GetNewsItems(ctx context.Context, symbol string, from, to time.Time) ([]models.NewsItem, error) {
	var out []models.NewsItem
	for _, n := range f.news {
		if n.Symbol == symbol && !n.Timestamp.Before(from) && n.Timestamp.Before(to) {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeReportStorage struct {
	reports map[string]models.DailySentimentReport
}

func (f *fakeReportStorage) UpsertReport(ctx context.Context, report *models.DailySentimentReport) error {
	if f.reports == nil {
		f.reports = make(map[string]models.DailySentimentReport)
	}
	f.reports[report.Symbol+"|"+report.Date] = *report
	return nil
}

func (f *fakeReportStorage) GetReport(ctx context.Context, symbol, date string) (*models.DailySentimentReport, error) {
	r, ok := f.reports[symbol+"|"+date]
	if !ok {
		return nil, interfaces.ErrReportNotFound
	}
	return &r, nil
}

func (f *fakeReportStorage) ListReportsByDate(ctx context.Context, date string) ([]models.DailySentimentReport, error) {
	var out []models.DailySentimentReport
	for _, r := range f.reports {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeLLM struct {
	result   *interfaces.AnalysisResult
	lastReq  *interfaces.AnalysisRequest
	failNext bool
}

func (f *fakeLLM) Analyze(ctx context.Context, req *interfaces.AnalysisRequest) (*interfaces.AnalysisResult, error) {
	f.lastReq = req
	if f.failNext {
		return nil, context.DeadlineExceeded
	}
	return f.result, nil
}

func (f *fakeLLM) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeLLM) Close() error                          { return nil }

func newTestService(t *testing.T, snapshots *fakeSnapshotStorage, reports *fakeReportStorage, llm *fakeLLM) *Service {
	t.Helper()
	cal, err := calendar.New(nil, time.UTC)
	require.NoError(t, err)
	return NewService(snapshots, reports, llm, cal, arbor.NewLogger())
}

func TestSynthesizeUsesLastSnapshotForClose(t *testing.T) {
	day := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	snapshots := &fakeSnapshotStorage{snapshots: []models.MarketSnapshot{
		{Symbol: "AAPL.US", Timestamp: day.Add(9 * time.Hour), Price: 100, Currency: "USD"},
		{Symbol: "AAPL.US", Timestamp: day.Add(15 * time.Hour), Price: 105.5, Currency: "USD"},
	}}
	reports := &fakeReportStorage{}
	llm := &fakeLLM{result: &interfaces.AnalysisResult{
		AnalystInsights:    "solid day",
		Performance:        "up 5.5%",
		SentimentScore:     8,
		SentimentStatement: "bullish",
	}}

	svc := newTestService(t, snapshots, reports, llm)
	report, err := svc.Synthesize(context.Background(), "AAPL.US", day.Add(16*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, "2026-02-02", report.Date)
	assert.Equal(t, 105.5, report.ClosingPrice.Price)
	assert.Equal(t, "USD", report.ClosingPrice.Currency)
	assert.Equal(t, 8, report.SentimentScore)

	// Persisted under (symbol, date)
	stored, err := reports.GetReport(context.Background(), "AAPL.US", "2026-02-02")
	require.NoError(t, err)
	assert.Equal(t, report.SentimentScore, stored.SentimentScore)

	// The request carried the day's snapshots
	require.NotNil(t, llm.lastReq)
	assert.Len(t, llm.lastReq.Snapshots, 2)
}

func TestSynthesizeNoData(t *testing.T) {
	svc := newTestService(t, &fakeSnapshotStorage{}, &fakeReportStorage{}, &fakeLLM{})

	_, err := svc.Synthesize(context.Background(), "AAPL.US", time.Now())
	assert.ErrorIs(t, err, interfaces.ErrNoData)
}

func TestQuickAnalysisSkipsSymbolsWithoutData(t *testing.T) {
	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	snapshots := &fakeSnapshotStorage{snapshots: []models.MarketSnapshot{
		{Symbol: "AAPL.US", Timestamp: day.Add(10 * time.Hour), Price: 100, Currency: "USD"},
	}}
	llm := &fakeLLM{result: &interfaces.AnalysisResult{
		SentimentScore:     5,
		SentimentStatement: "neutral",
	}}

	svc := newTestService(t, snapshots, &fakeReportStorage{}, llm)
	reports, err := svc.QuickAnalysis(context.Background(), []string{"AAPL.US", "EMPTY.US"})
	require.NoError(t, err)

	require.Len(t, reports, 1)
	assert.Equal(t, "AAPL.US", reports[0].Symbol)
}
