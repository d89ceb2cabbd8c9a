package di

import (
	"net/http"

	"go.uber.org/zap"

	"contrastboard/application/commands/bus"
	"contrastboard/application/ports"
	querybus "contrastboard/application/queries/bus"
	"contrastboard/application/services"
	"contrastboard/infrastructure/config"
	"contrastboard/infrastructure/messaging"
	"contrastboard/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Sessions   services.SessionRepository
	Importer   *services.ImportService
	EventBus   ports.EventBus
	EventLog   *messaging.EventLog
	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
	Cache      *InMemoryCache
	Metrics    *observability.Metrics
	Handler    http.Handler
}
