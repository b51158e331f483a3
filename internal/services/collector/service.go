package collector

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentio/internal/interfaces"
	"github.com/ternarybob/sentio/internal/models"
	"github.com/ternarybob/sentio/internal/services/registry"
	"golang.org/x/sync/errgroup"
)

// Summary reports one collection pass over the tracked set. A symbol that
// fails is skipped, never fatal to the pass.
type Summary struct {
	Attempted int
	Succeeded int
	Failed    int
}

// Service fans one collection pass out over the tracked symbol set. Each
// symbol is fetched independently with a bounded concurrency and a soft
// per-call timeout.
type Service struct {
	registry    *registry.Service
	market      interfaces.MarketDataProvider
	news        interfaces.NewsProvider
	snapshots   interfaces.SnapshotStorage
	concurrency int
	callTimeout time.Duration
	logger      arbor.ILogger
}

// NewService creates a collector.
func NewService(
	reg *registry.Service,
	market interfaces.MarketDataProvider,
	news interfaces.NewsProvider,
	snapshots interfaces.SnapshotStorage,
	concurrency int,
	callTimeout time.Duration,
	logger arbor.ILogger,
) *Service {
	if concurrency <= 0 {
		concurrency = 4
	}
	if callTimeout <= 0 {
		callTimeout = 2 * time.Minute
	}
	return &Service{
		registry:    reg,
		market:      market,
		news:        news,
		snapshots:   snapshots,
		concurrency: concurrency,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// CollectMarket fetches and persists one market snapshot per tracked symbol.
func (s *Service) CollectMarket(ctx context.Context) *Summary {
	symbols := s.registry.Snapshot()
	summary := &Summary{Attempted: len(symbols)}
	if len(symbols) == 0 {
		s.logger.Debug().Msg("No tracked symbols, skipping market collection")
		return summary
	}

	results := make([]bool, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, symbol := range symbols {
		g.Go(func() error {
			results[i] = s.collectMarketSymbol(gctx, symbol)
			return nil
		})
	}
	g.Wait()

	for _, ok := range results {
		if ok {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	s.logger.Info().
		Int("attempted", summary.Attempted).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("Market collection pass completed")

	return summary
}

// CollectNews fetches and persists news items per tracked symbol.
func (s *Service) CollectNews(ctx context.Context) *Summary {
	symbols := s.registry.Snapshot()
	summary := &Summary{Attempted: len(symbols)}
	if len(symbols) == 0 {
		s.logger.Debug().Msg("No tracked symbols, skipping news collection")
		return summary
	}

	results := make([]bool, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, symbol := range symbols {
		g.Go(func() error {
			results[i] = s.collectNewsSymbol(gctx, symbol)
			return nil
		})
	}
	g.Wait()

	for _, ok := range results {
		if ok {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	s.logger.Info().
		Int("attempted", summary.Attempted).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Msg("News collection pass completed")

	return summary
}

func (s *Service) collectMarketSymbol(ctx context.Context, symbol string) bool {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	quote, err := s.market.GetQuote(callCtx, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Market quote fetch failed, skipping symbol")
		return false
	}

	timestamp := quote.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	snapshot := &models.MarketSnapshot{
		Symbol:    symbol,
		Timestamp: timestamp,
		Price:     quote.Price,
		Currency:  quote.Currency,
	}
	if err := s.snapshots.SaveMarketSnapshot(ctx, snapshot); err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Failed to persist market snapshot")
		return false
	}

	s.logger.Debug().
		Str("symbol", symbol).
		Float64("price", quote.Price).
		Str("currency", quote.Currency).
		Msg("Market snapshot stored")
	return true
}

func (s *Service) collectNewsSymbol(ctx context.Context, symbol string) bool {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	articles, err := s.news.Search(callCtx, symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("News fetch failed, skipping symbol")
		return false
	}
	if len(articles) == 0 {
		s.logger.Debug().Str("symbol", symbol).Msg("No news articles found")
		return true
	}

	now := time.Now().UTC()
	items := make([]models.NewsItem, 0, len(articles))
	for _, article := range articles {
		items = append(items, models.NewsItem{
			Symbol:          symbol,
			Timestamp:       now,
			Title:           article.Title,
			Summary:         article.Summary,
			SentimentScore:  article.SentimentScore,
			ImpactScore:     article.ImpactScore,
			Source:          article.Source,
			PublicationDate: article.PublicationDate,
		})
	}

	if err := s.snapshots.SaveNewsItems(ctx, items); err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Failed to persist news items")
		return false
	}

	s.logger.Debug().
		Str("symbol", symbol).
		Int("count", len(items)).
		Msg("News items stored")
	return true
}
