package collector

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentio/internal/interfaces"
	"github.com/ternarybob/sentio/internal/models"
	"github.com/ternarybob/sentio/internal/services/registry"
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

type fakeMarketProvider struct {
	failFor map[string]bool
}

func (f *fakeMarketProvider) GetQuote(ctx context.Context, symbol string) (*interfaces.Quote, error) {
	if f.failFor[symbol] {
		return nil, &interfaces.ProviderError{Provider: "fake", Symbol: symbol, Err: context.DeadlineExceeded}
	}
	return &interfaces.Quote{
		Symbol:    symbol,
		Price:     42.5,
		Currency:  "USD",
		Timestamp: time.Now().UTC(),
	}, nil
}

type fakeNewsProvider struct {
	articles []interfaces.NewsArticle
}

func (f *fakeNewsProvider) Search(ctx context.Context, symbol string) ([]interfaces.NewsArticle, error) {
	return f.articles, nil
}

type memSnapshotStorage struct {
	mu        sync.Mutex
	snapshots []models.MarketSnapshot
	news      []models.NewsItem
}

func (m *memSnapshotStorage) SaveMarketSnapshot(ctx context.Context, snapshot *models.MarketSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = append(m.snapshots, *snapshot)
	return nil
}

func (m *memSnapshotStorage) SaveNewsItems(ctx context.Context, items []models.NewsItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.news = append(m.news, items...)
	return nil
}

func (m *memSnapshotStorage) GetMarketSnapshots(ctx context.Context, symbol string, from, to time.Time) ([]models.MarketSnapshot, error) {
	return nil, nil
}

func (m *memSnapshotStorage) GetNewsItems(ctx context.Context, symbol string, from, to time.Time) ([]models.NewsItem, error) {
	return nil, nil
}

func newTestRegistry(t *testing.T, symbols []string) *registry.Service {
	t.Helper()
	reg := registry.NewService(&fakeSymbolStorage{symbols: symbols}, arbor.NewLogger())
	require.NoError(t, reg.Load(context.Background()))
	return reg
}

func TestCollectMarketSkipsFailedSymbols(t *testing.T) {
	reg := newTestRegistry(t, []string{"AAPL.US", "MSFT.US", "GNP.AU"})
	storage := &memSnapshotStorage{}
	market := &fakeMarketProvider{failFor: map[string]bool{"MSFT.US": true}}

	svc := NewService(reg, market, &fakeNewsProvider{}, storage, 2, time.Minute, arbor.NewLogger())
	summary := svc.CollectMarket(context.Background())

	assert.Equal(t, 3, summary.Attempted)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Len(t, storage.snapshots, 2)
}

func TestCollectMarketEmptyRegistry(t *testing.T) {
	reg := newTestRegistry(t, nil)
	storage := &memSnapshotStorage{}

	svc := NewService(reg, &fakeMarketProvider{}, &fakeNewsProvider{}, storage, 2, time.Minute, arbor.NewLogger())
	summary := svc.CollectMarket(context.Background())

	assert.Equal(t, 0, summary.Attempted)
	assert.Empty(t, storage.snapshots)
}

func TestCollectNewsPersistsItems(t *testing.T) {
	reg := newTestRegistry(t, []string{"AAPL.US"})
	storage := &memSnapshotStorage{}
	news := &fakeNewsProvider{articles: []interfaces.NewsArticle{
		{Title: "one", SentimentScore: 6, ImpactScore: 4},
		{Title: "two", SentimentScore: 3, ImpactScore: 8},
	}}

	svc := NewService(reg, &fakeMarketProvider{}, news, storage, 2, time.Minute, arbor.NewLogger())
	summary := svc.CollectNews(context.Background())

	assert.Equal(t, 1, summary.Succeeded)
	require.Len(t, storage.news, 2)
	assert.Equal(t, "AAPL.US", storage.news[0].Symbol)
	assert.Equal(t, "one", storage.news[0].Title)
}
