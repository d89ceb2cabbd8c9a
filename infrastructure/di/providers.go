package di

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"contrastboard/application/commands/bus"
	commands_handlers "contrastboard/application/commands/handlers"
	"contrastboard/application/ports"
	querybus "contrastboard/application/queries/bus"
	queries_handlers "contrastboard/application/queries/handlers"
	"contrastboard/application/services"
	domainconfig "contrastboard/domain/config"
	"contrastboard/domain/core/aggregates"
	"contrastboard/domain/core/validators"
	"contrastboard/infrastructure/config"
	"contrastboard/infrastructure/messaging"
	"contrastboard/infrastructure/persistence/memory"
	"contrastboard/interfaces/http/rest"
	"contrastboard/interfaces/http/rest/handlers"
	apperrors "contrastboard/pkg/errors"
	"contrastboard/pkg/observability"
	"contrastboard/pkg/ratelimit"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zapCfg.Level = level

	return zapCfg.Build()
}

// ProvideDomainConfig exposes the business rules
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	return cfg.Domain
}

// ProvideClock provides the wall clock
func ProvideClock() ports.Clock {
	return ports.SystemClock{}
}

// ProvideEventLog creates the per-board event log
func ProvideEventLog(cfg *config.Config) *messaging.EventLog {
	return messaging.NewEventLog(cfg.EventLogCapacity)
}

// ProvideEventBus creates the in-process event bus with the event log
// subscribed
func ProvideEventBus(eventLog *messaging.EventLog, logger *zap.Logger) ports.EventBus {
	eventBus := messaging.NewEventBus(logger)
	eventBus.Subscribe(eventLog)
	return eventBus
}

// ProvideEventPublisher narrows the bus to its publishing side
func ProvideEventPublisher(eventBus ports.EventBus) ports.EventPublisher {
	return eventBus
}

// ProvideMetrics creates the prometheus collector, or nil when metrics are
// disabled
func ProvideMetrics(cfg *config.Config) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewMetrics(observability.DefaultNamespace, true)
}

// ProvideMetricsRecorder adapts the collector for board sessions
func ProvideMetricsRecorder(metrics *observability.Metrics) ports.MetricsRecorder {
	if metrics == nil {
		return ports.NopMetrics{}
	}
	return metrics
}

// ProvideSessionFactory creates the factory for board sessions
func ProvideSessionFactory(
	cfg *domainconfig.DomainConfig,
	publisher ports.EventPublisher,
	recorder ports.MetricsRecorder,
	clock ports.Clock,
	logger *zap.Logger,
) *services.SessionFactory {
	return services.NewSessionFactory(cfg, publisher, recorder, clock, logger)
}

// ProvideSessionRepository creates the in-process board registry
func ProvideSessionRepository(
	factory *services.SessionFactory,
	eventLog *messaging.EventLog,
	metrics *observability.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) services.SessionRepository {
	repo := memory.NewSessionRepository(factory, eventLog, cfg.MaxBoards, logger)
	if metrics != nil {
		repo.OnDelete(func(id aggregates.BoardID) { metrics.ForgetBoard(id.String()) })
	}
	return repo
}

// ProvideImportService creates the bulk importer
func ProvideImportService(
	cfg *domainconfig.DomainConfig,
	recorder ports.MetricsRecorder,
	clock ports.Clock,
	logger *zap.Logger,
) *services.ImportService {
	return services.NewImportService(cfg, recorder, clock, logger)
}

// ProvideNodeValidator creates the node field validator
func ProvideNodeValidator() *validators.NodeValidator {
	return validators.NewNodeValidator()
}

// ProvideInMemoryCache creates the query result cache. The cleanup stops
// its sweeper.
func ProvideInMemoryCache() (*InMemoryCache, func()) {
	cache := NewInMemoryCache(0)
	return cache, cache.Stop
}

// ProvideCommandBus creates a command bus with every board command
// registered
func ProvideCommandBus(
	repo services.SessionRepository,
	importer *services.ImportService,
	validator *validators.NodeValidator,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.RecoveryMiddleware(logger),
		bus.LoggingMiddleware(logger),
	)

	boardHandlers := commands_handlers.NewBoardHandlers(repo, importer, validator, logger)
	if err := boardHandlers.Register(commandBus); err != nil {
		return nil, fmt.Errorf("failed to register command handlers: %w", err)
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with every board query registered.
// Derived reports are cached per board version.
func ProvideQueryBus(
	repo services.SessionRepository,
	eventLog *messaging.EventLog,
	cache *InMemoryCache,
	metrics *observability.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	var queryMetrics querybus.Metrics
	if metrics != nil {
		queryMetrics = metrics
	}
	queryBus := querybus.NewQueryBus(queryMetrics)

	boardQueries := queries_handlers.NewBoardQueries(repo, eventLog, logger)

	var caching *querybus.CachingMiddleware
	if cfg.QueryCacheTTL > 0 {
		caching = querybus.NewCachingMiddleware(cache, cfg.QueryCacheTTL, boardQueries.Version)
	}
	if err := boardQueries.Register(queryBus, caching); err != nil {
		return nil, fmt.Errorf("failed to register query handlers: %w", err)
	}
	return queryBus, nil
}

// ProvideErrorHandler creates the HTTP error renderer; stack traces are
// exposed in development only
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *apperrors.ErrorHandler {
	return apperrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideRouter builds the HTTP surface
func ProvideRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *apperrors.ErrorHandler,
	metrics *observability.Metrics,
	cfg *config.Config,
	logger *zap.Logger,
) http.Handler {
	options := rest.Options{
		EnableCORS:  cfg.EnableCORS,
		CORSOrigins: cfg.CORSOrigins,
		Limits: handlers.Limits{
			MaxBodyBytes:  cfg.MaxBodyBytes,
			MaxImageBytes: cfg.MaxImageBytes,
		},
	}
	if cfg.ImportRateLimit > 0 {
		options.ImportLimiter = ratelimit.NewClientLimiter("import", cfg.ImportRateLimit)
	}

	router := rest.NewRouter(commandBus, queryBus, errs, metrics, options, logger)
	return router.Setup()
}
