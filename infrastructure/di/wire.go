//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"contrastboard/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideClock,
	ProvideEventLog,
	ProvideEventBus,
	ProvideEventPublisher,
	ProvideMetrics,
	ProvideMetricsRecorder,
	ProvideSessionFactory,
	ProvideSessionRepository,
	ProvideImportService,
	ProvideNodeValidator,
	ProvideInMemoryCache,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideErrorHandler,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container. The cleanup
// releases background resources.
func InitializeContainer(cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
