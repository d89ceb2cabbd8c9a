package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"contrastboard/application/commands/bus"
	"contrastboard/application/queries"
	querybus "contrastboard/application/queries/bus"
	"contrastboard/interfaces/http/rest/handlers"
	"contrastboard/interfaces/http/rest/middleware"
	"contrastboard/pkg/common"
	apperrors "contrastboard/pkg/errors"
	"contrastboard/pkg/observability"
)

// Options controls the optional parts of the HTTP surface
type Options struct {
	EnableCORS    bool
	CORSOrigins   []string
	Limits        handlers.Limits
	// ImportLimiter throttles the import endpoints; nil leaves them open
	ImportLimiter middleware.ClientLimiter
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *apperrors.ErrorHandler
	metrics    *observability.Metrics
	options    Options
	logger     *zap.Logger
}

// NewRouter creates a new router instance. metrics may be nil to disable
// /metrics and request instrumentation.
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *apperrors.ErrorHandler,
	metrics *observability.Metrics,
	options Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errs,
		metrics:    metrics,
		options:    options,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestContext)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}
	router.Use(rt.errors.Middleware)

	if rt.options.EnableCORS {
		origins := rt.options.CORSOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestHeader},
			ExposedHeaders: []string{middleware.RequestHeader},
			MaxAge:         300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.HandleStatus(w, r, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.HandleStatus(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	limits := rt.options.Limits
	boardHandler := handlers.NewBoardHandler(rt.commandBus, rt.queryBus, rt.errors, limits, rt.logger)
	nodeHandler := handlers.NewNodeHandler(rt.commandBus, rt.queryBus, rt.errors, limits, rt.logger)
	connectionHandler := handlers.NewConnectionHandler(rt.commandBus, rt.errors, limits, rt.logger)
	importHandler := handlers.NewImportHandler(rt.commandBus, rt.errors, limits, rt.logger)

	router.Route("/api/v1/boards", func(r chi.Router) {
		r.Get("/", boardHandler.ListBoards)
		r.Post("/", boardHandler.CreateBoard)

		r.Route("/{boardID}", func(r chi.Router) {
			r.Use(middleware.BoardContext)

			r.Get("/", boardHandler.GetBoard)
			r.Delete("/", boardHandler.ClearBoard)
			r.Delete("/session", boardHandler.DeleteBoard)
			r.Post("/undo", boardHandler.Undo)
			r.Get("/history", boardHandler.GetHistory)
			r.Put("/hover", boardHandler.SetHover)
			r.Post("/layout", boardHandler.Relayout)
			r.Get("/contrast", boardHandler.GetContrastReport)
			r.Get("/export", boardHandler.ExportPalette)
			r.Get("/validate", boardHandler.ValidateBoard)
			r.Get("/events", boardHandler.GetEvents)

			r.Route("/nodes", func(r chi.Router) {
				r.Post("/", nodeHandler.CreateNode)
				r.Get("/{nodeID}", nodeHandler.GetNode)
				r.Delete("/{nodeID}", nodeHandler.DeleteNode)
				r.Put("/{nodeID}/position", nodeHandler.MoveNode)
				r.Put("/{nodeID}/title", nodeHandler.RenameNode)
				r.Put("/{nodeID}/color", nodeHandler.ChangeColor)
				r.Put("/{nodeID}/hex", nodeHandler.EditHex)
				r.Post("/{nodeID}/clone", nodeHandler.CloneNode)
				r.Get("/{nodeID}/shades", nodeHandler.GetShades)
			})

			r.Post("/connections", connectionHandler.CreateConnection)
			r.Delete("/connections", connectionHandler.DeleteConnection)

			r.Group(func(r chi.Router) {
				if rt.options.ImportLimiter != nil {
					r.Use(middleware.RateLimit(rt.options.ImportLimiter, rt.errors))
				}
				r.Post("/import/text", importHandler.ImportText)
				r.Post("/import/image", importHandler.ImportImage)
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// readinessCheck reports ready once the board registry answers queries
func (rt *Router) readinessCheck(w http.ResponseWriter, r *http.Request) {
	_, err := rt.queryBus.Ask(r.Context(), queries.ListBoardsQuery{
		PaginationParams: common.PaginationParams{Page: 1, PageSize: 1},
	})
	if err != nil {
		rt.logger.Warn("Readiness check failed", zap.Error(err))
		common.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
