package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentio/internal/calendar"
	"github.com/ternarybob/sentio/internal/common"
	"github.com/ternarybob/sentio/internal/interfaces"
	"github.com/ternarybob/sentio/internal/models"
	"github.com/ternarybob/sentio/internal/services/collector"
	"github.com/ternarybob/sentio/internal/services/dispatch"
	"github.com/ternarybob/sentio/internal/services/registry"
	"github.com/ternarybob/sentio/internal/services/synthesis"
)

type fakeSymbolStorage struct {
	symbols []string
}

func (f *fakeSymbolStorage) GetSymbols(ctx context.Context) ([]string, error) {
	return f.symbols, nil
}

func (f *fakeSymbolStorage) PutSymbols(ctx context.Context, symbols []string) error {
	f.symbols = symbols
	return nil
}

type fakeSnapshotStorage struct{}

func (f *fakeSnapshotStorage) SaveMarketSnapshot(ctx context.Context, snapshot *models.MarketSnapshot) error {
	return nil
}
func (f *fakeSnapshotStorage) SaveNewsItems(ctx context.Context, items []models.NewsItem) error {
	return nil
}
func (f *fakeSnapshotStorage) GetMarketSnapshots(ctx context.Context, symbol string, from, to time.Time) ([]models.MarketSnapshot, error) {
	return nil, nil
}
func (f *fakeSnapshotStorage) GetNewsItems(ctx context.Context, symbol string, from, to time.Time) ([]models.NewsItem, error) {
	return nil, nil
}

type fakeReportStorage struct{}

func (f *fakeReportStorage) UpsertReport(ctx context.Context, report *models.DailySentimentReport) error {
	return nil
}
func (f *fakeReportStorage) GetReport(ctx context.Context, symbol, date string) (*models.DailySentimentReport, error) {
	return nil, interfaces.ErrReportNotFound
}
func (f *fakeReportStorage) ListReportsByDate(ctx context.Context, date string) ([]models.DailySentimentReport, error) {
	return nil, nil
}

type fakeMarketProvider struct{}

func (f *fakeMarketProvider) GetQuote(ctx context.Context, symbol string) (*interfaces.Quote, error) {
	return &interfaces.Quote{Symbol: symbol, Price: 1, Currency: "USD", Timestamp: time.Now()}, nil
}

type fakeNewsProvider struct{}

func (f *fakeNewsProvider) Search(ctx context.Context, symbol string) ([]interfaces.NewsArticle, error) {
	return nil, nil
}

type fakeLLM struct{}

func (f *fakeLLM) Analyze(ctx context.Context, req *interfaces.AnalysisRequest) (*interfaces.AnalysisResult, error) {
	return &interfaces.AnalysisResult{SentimentScore: 5, SentimentStatement: "neutral"}, nil
}
func (f *fakeLLM) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeLLM) Close() error                          { return nil }

type fakeMailer struct{}

func (f *fakeMailer) Send(ctx context.Context, subject, textBody, htmlBody string) error { return nil }
func (f *fakeMailer) IsConfigured() bool                                                 { return false }

func newTestScheduler(t *testing.T) *Service {
	t.Helper()

	logger := arbor.NewLogger()
	cal, err := calendar.New(nil, time.UTC)
	require.NoError(t, err)

	reg := registry.NewService(&fakeSymbolStorage{symbols: []string{"AAPL.US"}}, logger)
	require.NoError(t, reg.Load(context.Background()))

	snapshots := &fakeSnapshotStorage{}
	col := collector.NewService(reg, &fakeMarketProvider{}, &fakeNewsProvider{}, snapshots, 2, time.Minute, logger)
	syn := synthesis.NewService(snapshots, &fakeReportStorage{}, &fakeLLM{}, cal, logger)
	disp := dispatch.NewService(&fakeMailer{}, logger)

	config := &common.SchedulerConfig{
		MarketFetchSchedule: "*/5 9-15 * * 1-5",
		NewsFetchSchedule:   "0 9-15 * * 1-5",
		EndOfDaySchedule:    "0 16 * * 1-5",
		Concurrency:         2,
		CallTimeout:         "1m",
	}

	return NewService(config, reg, col, syn, disp, cal, logger)
}

func TestStartStopLifecycle(t *testing.T) {
	svc := newTestScheduler(t)

	assert.Equal(t, models.SchedulerStopped, svc.State())

	state, err := svc.Start()
	require.NoError(t, err)
	assert.Equal(t, models.SchedulerRunning, state)

	// Starting again is a no-op
	state, err = svc.Start()
	require.NoError(t, err)
	assert.Equal(t, models.SchedulerRunning, state)

	state, err = svc.Stop()
	require.NoError(t, err)
	assert.Equal(t, models.SchedulerStopped, state)

	// Stopping again is a no-op
	state, err = svc.Stop()
	require.NoError(t, err)
	assert.Equal(t, models.SchedulerStopped, state)
}

func TestToggle(t *testing.T) {
	svc := newTestScheduler(t)

	// Toggling while stopped is invalid
	_, err := svc.Toggle()
	assert.ErrorIs(t, err, interfaces.ErrInvalidTransition)

	_, err = svc.Start()
	require.NoError(t, err)
	defer svc.Stop()

	state, err := svc.Toggle()
	require.NoError(t, err)
	assert.Equal(t, models.SchedulerPaused, state)

	state, err = svc.Toggle()
	require.NoError(t, err)
	assert.Equal(t, models.SchedulerRunning, state)
}

func TestStatusExposesJobs(t *testing.T) {
	svc := newTestScheduler(t)

	// Stopped scheduler reports no jobs
	status := svc.Status()
	assert.Equal(t, models.SchedulerStopped, status.State)
	assert.Empty(t, status.Jobs)

	_, err := svc.Start()
	require.NoError(t, err)
	defer svc.Stop()

	status = svc.Status()
	assert.Equal(t, models.SchedulerRunning, status.State)
	require.Len(t, status.Jobs, 3)

	for _, name := range []string{models.JobMarketFetch, models.JobNewsFetch, models.JobEndOfDay} {
		job, ok := status.Jobs[name]
		require.True(t, ok, "missing job %s", name)
		assert.NotEmpty(t, job.Schedule)
		require.NotNil(t, job.NextRun, "job %s has no next run", name)
		assert.True(t, job.NextRun.After(time.Now().Add(-time.Minute)))
	}
}

func TestStartWithInvalidScheduleStaysStopped(t *testing.T) {
	svc := newTestScheduler(t)
	svc.config.NewsFetchSchedule = "bogus"

	_, err := svc.Start()
	assert.Error(t, err)
	assert.Equal(t, models.SchedulerStopped, svc.State())
	assert.Empty(t, svc.Status().Jobs)
}

func TestRefreshPreservesState(t *testing.T) {
	svc := newTestScheduler(t)

	// Refresh while stopped stays stopped
	state, err := svc.Refresh()
	require.NoError(t, err)
	assert.Equal(t, models.SchedulerStopped, state)

	_, err = svc.Start()
	require.NoError(t, err)
	defer svc.Stop()

	_, err = svc.Toggle()
	require.NoError(t, err)

	state, err = svc.Refresh()
	require.NoError(t, err)
	assert.Equal(t, models.SchedulerPaused, state)
	assert.Len(t, svc.Status().Jobs, 3)
}

func TestPausedTickIsSkipped(t *testing.T) {
	svc := newTestScheduler(t)

	_, err := svc.Start()
	require.NoError(t, err)
	defer svc.Stop()

	_, err = svc.Toggle()
	require.NoError(t, err)

	svc.executeJob(models.JobMarketFetch)

	// A skipped tick records no run
	status := svc.Status()
	assert.Nil(t, status.Jobs[models.JobMarketFetch].LastRun)
}
