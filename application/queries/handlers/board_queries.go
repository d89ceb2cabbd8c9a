package handlers

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"

	"contrastboard/application/ports"
	"contrastboard/application/queries"
	"contrastboard/application/queries/bus"
	"contrastboard/application/services"
	"contrastboard/domain/core/aggregates"
	"contrastboard/domain/core/entities"
	"contrastboard/domain/core/validators"
	"contrastboard/domain/core/valueobjects"
	"contrastboard/pkg/common"
	"contrastboard/pkg/errors"
	"contrastboard/pkg/utils"
)

// BoardQueries answers read-only questions about open boards
type BoardQueries struct {
	repo     services.SessionRepository
	eventLog ports.EventLog
	logger   *zap.Logger
}

// NewBoardQueries creates the board query handlers; eventLog may be nil
func NewBoardQueries(repo services.SessionRepository, eventLog ports.EventLog, logger *zap.Logger) *BoardQueries {
	return &BoardQueries{repo: repo, eventLog: eventLog, logger: logger}
}

// Register binds every board query to its handler. Derived views are
// wrapped with cache when it is non-nil.
func (h *BoardQueries) Register(b *bus.QueryBus, cache *bus.CachingMiddleware) error {
	cached := func(f bus.QueryHandlerFunc) bus.QueryHandler {
		if cache == nil {
			return f
		}
		return cache.Wrap(f)
	}

	routes := []struct {
		query   bus.Query
		handler bus.QueryHandler
	}{
		{queries.GetBoardQuery{}, bus.QueryHandlerFunc(h.getBoard)},
		{queries.GetNodeQuery{}, bus.QueryHandlerFunc(h.getNode)},
		{queries.GetHistoryQuery{}, bus.QueryHandlerFunc(h.getHistory)},
		{queries.GetContrastReportQuery{}, cached(h.getContrastReport)},
		{queries.ExportPaletteQuery{}, cached(h.exportPalette)},
		{queries.GetShadesQuery{}, cached(h.getShades)},
		{queries.ValidateBoardQuery{}, bus.QueryHandlerFunc(h.validateBoard)},
		{queries.GetEventsQuery{}, bus.QueryHandlerFunc(h.getEvents)},
		{queries.ListBoardsQuery{}, bus.QueryHandlerFunc(h.listBoards)},
	}
	for _, r := range routes {
		if err := b.Register(r.query, r.handler); err != nil {
			return err
		}
	}
	return nil
}

// Version reports a board's current version for cache keys
func (h *BoardQueries) Version(ctx context.Context, boardID string) (int, bool) {
	session, err := h.repo.Get(ctx, aggregates.BoardID(boardID))
	if err != nil {
		return 0, false
	}
	return session.Version(), true
}

func (h *BoardQueries) getBoard(ctx context.Context, query bus.Query) (interface{}, error) {
	q := query.(queries.GetBoardQuery)
	session, err := h.session(ctx, q.BoardID)
	if err != nil {
		return nil, err
	}
	return services.BuildBoardView(session.Snapshot(), session.Config(), threshold(session, q.Threshold)), nil
}

func (h *BoardQueries) getNode(ctx context.Context, query bus.Query) (interface{}, error) {
	q := query.(queries.GetNodeQuery)
	session, err := h.session(ctx, q.BoardID)
	if err != nil {
		return nil, err
	}
	node, err := h.node(session, q.NodeID)
	if err != nil {
		return nil, err
	}

	neighbours := make([]string, len(node.Connections))
	for i, c := range node.Connections {
		neighbours[i] = c.Other(node.ID).String()
	}
	return queries.NodeDetail{
		ID:         node.ID.String(),
		Title:      node.Title,
		Color:      node.Color,
		LastValid:  node.LastValid.String(),
		X:          node.Position.X,
		Y:          node.Position.Y,
		Neighbours: neighbours,
	}, nil
}

func (h *BoardQueries) getHistory(ctx context.Context, query bus.Query) (interface{}, error) {
	q := query.(queries.GetHistoryQuery)
	session, err := h.session(ctx, q.BoardID)
	if err != nil {
		return nil, err
	}
	kinds := session.Snapshot().UndoKinds
	return queries.HistoryResult{
		BoardID: q.BoardID,
		Depth:   len(kinds),
		Kinds:   services.UndoKindNames(kinds),
	}, nil
}

func (h *BoardQueries) getContrastReport(ctx context.Context, query bus.Query) (interface{}, error) {
	q := query.(queries.GetContrastReportQuery)
	session, err := h.session(ctx, q.BoardID)
	if err != nil {
		return nil, err
	}
	return services.BuildContrastReport(session.Snapshot(), threshold(session, q.Threshold)), nil
}

func (h *BoardQueries) exportPalette(ctx context.Context, query bus.Query) (interface{}, error) {
	q := query.(queries.ExportPaletteQuery)
	session, err := h.session(ctx, q.BoardID)
	if err != nil {
		return nil, err
	}

	opts := services.ExportOptions{
		Format:         services.ExportFormat(q.Format),
		Separator:      services.ExportSeparator(q.Separator),
		Variants:       q.Variants,
		VariantPercent: session.Config().ExportVariantPercent,
	}
	entries := services.EntriesFromNodes(session.Snapshot().Nodes)
	content, err := services.ExportPalette(entries, opts)
	if err != nil {
		return nil, err
	}
	return queries.ExportResult{
		Format:    string(nonEmpty(opts.Format, services.FormatHex)),
		Separator: string(nonEmpty(opts.Separator, services.SeparatorNewline)),
		Count:     len(entries),
		Content:   content,
	}, nil
}

func (h *BoardQueries) getShades(ctx context.Context, query bus.Query) (interface{}, error) {
	q := query.(queries.GetShadesQuery)
	session, err := h.session(ctx, q.BoardID)
	if err != nil {
		return nil, err
	}
	node, err := h.node(session, q.NodeID)
	if err != nil {
		return nil, err
	}
	cfg := session.Config()
	return services.BuildShades(node, cfg.LightenPercent, cfg.DarkenPercent), nil
}

func (h *BoardQueries) validateBoard(ctx context.Context, query bus.Query) (interface{}, error) {
	q := query.(queries.ValidateBoardQuery)
	session, err := h.session(ctx, q.BoardID)
	if err != nil {
		return nil, err
	}

	result := queries.ValidationResult{BoardID: q.BoardID, Consistent: true}
	if err := session.Validate(); err != nil {
		var inconsistent *validators.ConsistencyError
		if !stderrors.As(err, &inconsistent) {
			return nil, errors.Wrap(err, "consistency check failed")
		}
		h.logger.Error("Board inconsistent",
			zap.String("boardID", q.BoardID),
			zap.Strings("violations", inconsistent.Violations),
		)
		result.Consistent = false
		result.Violations = inconsistent.Violations
	}
	return result, nil
}

func (h *BoardQueries) getEvents(ctx context.Context, query bus.Query) (interface{}, error) {
	q := query.(queries.GetEventsQuery)
	if _, err := h.session(ctx, q.BoardID); err != nil {
		return nil, err
	}
	if h.eventLog == nil {
		return nil, errors.NewUnavailableError("event log")
	}

	logged := h.eventLog.Recent(q.BoardID, q.Limit)
	out := make([]queries.EventView, len(logged))
	for i, e := range logged {
		out[i] = queries.EventView{
			Type:      e.GetEventType(),
			Version:   e.GetVersion(),
			Timestamp: utils.FormatRFC3339(e.GetTimestamp()),
			Payload:   e,
		}
	}
	return out, nil
}

func (h *BoardQueries) listBoards(ctx context.Context, query bus.Query) (interface{}, error) {
	q := query.(queries.ListBoardsQuery)
	sessions, err := h.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	start, end := q.Window(len(sessions))
	boards := make([]queries.BoardSummary, 0, end-start)
	for _, s := range sessions[start:end] {
		snap := s.Snapshot()
		boards = append(boards, queries.BoardSummary{
			BoardID:     snap.BoardID.String(),
			Nodes:       len(snap.Nodes),
			Connections: len(snap.Connections),
			UndoDepth:   len(snap.UndoKinds),
			Version:     snap.Version,
			CreatedAt:   s.CreatedAt(),
		})
	}
	return queries.ListBoardsResult{
		Boards:     boards,
		Pagination: common.BuildPaginationMeta(q.Page, q.PageSize, len(sessions)),
	}, nil
}

func (h *BoardQueries) session(ctx context.Context, boardID string) (*services.Session, error) {
	return h.repo.Get(ctx, aggregates.BoardID(boardID))
}

func (h *BoardQueries) node(session *services.Session, raw string) (entities.NodeSnapshot, error) {
	id, err := valueobjects.NewNodeIDFromString(raw)
	if err != nil {
		return entities.NodeSnapshot{}, errors.NewValidationError(err.Error()).WithCode("INVALID_NODE_ID")
	}
	node, ok := session.Node(id)
	if !ok {
		return entities.NodeSnapshot{}, errors.NewNotFoundError(fmt.Sprintf("node %s", raw))
	}
	return node, nil
}

func threshold(session *services.Session, requested float64) float64 {
	if requested > 0 {
		return requested
	}
	return session.Config().ContrastThreshold
}

func nonEmpty[T ~string](v, fallback T) T {
	if v == "" {
		return fallback
	}
	return v
}
