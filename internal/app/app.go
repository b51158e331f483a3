package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentio/internal/calendar"
	"github.com/ternarybob/sentio/internal/common"
	"github.com/ternarybob/sentio/internal/eodhd"
	"github.com/ternarybob/sentio/internal/handlers"
	"github.com/ternarybob/sentio/internal/interfaces"
	"github.com/ternarybob/sentio/internal/services/collector"
	"github.com/ternarybob/sentio/internal/services/dispatch"
	"github.com/ternarybob/sentio/internal/services/llm"
	"github.com/ternarybob/sentio/internal/services/mailer"
	"github.com/ternarybob/sentio/internal/services/news"
	"github.com/ternarybob/sentio/internal/services/registry"
	"github.com/ternarybob/sentio/internal/services/scheduler"
	"github.com/ternarybob/sentio/internal/services/synthesis"
	"github.com/ternarybob/sentio/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	DB              *badger.BadgerDB
	SnapshotStorage interfaces.SnapshotStorage
	ReportStorage   interfaces.ReportStorage
	SymbolStorage   interfaces.SymbolStorage

	// Domain services
	Calendar         *calendar.TradingCalendar
	RegistryService  *registry.Service
	CollectorService *collector.Service
	SynthesisService *synthesis.Service
	DispatchService  *dispatch.Service
	SchedulerService interfaces.SchedulerService
	LLMService       interfaces.LLMService
	MailService      interfaces.MailService

	// HTTP handlers
	APIHandler       *handlers.APIHandler
	SchedulerHandler *handlers.SchedulerHandler
	SymbolHandler    *handlers.SymbolHandler
	AnalysisHandler  *handlers.AnalysisHandler
	ReportHandler    *handlers.ReportHandler
}

// New creates and wires all application components
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	// Storage
	db, err := badger.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.DB = db
	a.SnapshotStorage = badger.NewSnapshotStorage(db, logger)
	a.ReportStorage = badger.NewReportStorage(db, logger)
	a.SymbolStorage = badger.NewSymbolStorage(db, logger)

	// Trading calendar
	loc, err := time.LoadLocation(config.Market.Timezone)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("invalid market timezone: %w", err)
	}
	cal, err := calendar.New(config.Market.Holidays, loc)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to build trading calendar: %w", err)
	}
	a.Calendar = cal

	// Symbol registry
	a.RegistryService = registry.NewService(a.SymbolStorage, logger)
	if err := a.RegistryService.Load(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load tracked symbols: %w", err)
	}

	// Market data and news providers
	eodhdKey, err := common.ResolveAPIKey("SENTIO_EODHD_API_KEY", config.EODHD.APIKey)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("EODHD API key is required (set via SENTIO_EODHD_API_KEY or eodhd.api_key in config): %w", err)
	}

	clientOpts := []eodhd.ClientOption{
		eodhd.WithLogger(logger),
		eodhd.WithRateLimit(config.EODHD.RateLimit),
	}
	if config.EODHD.BaseURL != "" {
		clientOpts = append(clientOpts, eodhd.WithBaseURL(config.EODHD.BaseURL))
	}
	eodhdClient := eodhd.NewClient(eodhdKey, clientOpts...)
	eodhdProvider := eodhd.NewProvider(eodhdClient, config.News.Limit)

	var newsProvider interfaces.NewsProvider = eodhdProvider
	if config.News.Provider == "rss" {
		newsProvider = news.NewRSSProvider(config.News.FeedURL, config.News.Limit, logger)
	}

	// AI inference
	llmService, err := llm.NewLLMService(config, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize LLM service: %w", err)
	}
	a.LLMService = llmService

	// Report delivery
	a.MailService = mailer.NewService(&config.SMTP, logger)

	// Pipeline services
	callTimeout, err := time.ParseDuration(config.Scheduler.CallTimeout)
	if err != nil {
		llmService.Close()
		db.Close()
		return nil, fmt.Errorf("invalid scheduler call_timeout '%s': %w", config.Scheduler.CallTimeout, err)
	}

	a.CollectorService = collector.NewService(
		a.RegistryService,
		eodhdProvider,
		newsProvider,
		a.SnapshotStorage,
		config.Scheduler.Concurrency,
		callTimeout,
		logger,
	)
	a.SynthesisService = synthesis.NewService(a.SnapshotStorage, a.ReportStorage, llmService, cal, logger)
	a.DispatchService = dispatch.NewService(a.MailService, logger)
	a.SchedulerService = scheduler.NewService(
		&config.Scheduler,
		a.RegistryService,
		a.CollectorService,
		a.SynthesisService,
		a.DispatchService,
		cal,
		logger,
	)

	// HTTP handlers
	a.APIHandler = handlers.NewAPIHandler()
	a.SchedulerHandler = handlers.NewSchedulerHandler(a.SchedulerService)
	a.SymbolHandler = handlers.NewSymbolHandler(a.RegistryService)
	a.AnalysisHandler = handlers.NewAnalysisHandler(a.SynthesisService, a.RegistryService)
	a.ReportHandler = handlers.NewReportHandler(a.ReportStorage)

	logger.Info().
		Str("llm_provider", string(config.LLM.DefaultProvider)).
		Str("news_provider", config.News.Provider).
		Str("timezone", config.Market.Timezone).
		Msg("Application components initialized")

	return a, nil
}

// Close shuts down components in reverse dependency order
func (a *App) Close() error {
	if a.SchedulerService != nil {
		if _, err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler during shutdown")
		}
	}

	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}

	a.Logger.Info().Msg("Application shutdown complete")
	return nil
}
