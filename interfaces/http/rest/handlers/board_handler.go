package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"contrastboard/application/commands"
	"contrastboard/application/commands/bus"
	"contrastboard/application/queries"
	querybus "contrastboard/application/queries/bus"
	"contrastboard/pkg/common"
	apperrors "contrastboard/pkg/errors"
)

// BoardHandler handles board-level HTTP requests
type BoardHandler struct {
	base
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *apperrors.ErrorHandler,
	limits Limits,
	logger *zap.Logger,
) *BoardHandler {
	return &BoardHandler{base: newBase(commandBus, queryBus, errs, limits, logger)}
}

// HoverRequest sets or clears the hovered node
type HoverRequest struct {
	NodeID string `json:"nodeId"`
}

// LayoutRequest is the viewport to lay nodes out in
type LayoutRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ListBoards handles GET /boards
func (h *BoardHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListBoardsQuery{
		PaginationParams: common.ExtractPaginationParams(r),
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	page := result.(queries.ListBoardsResult)
	meta := common.NewMeta(r)
	meta.Pagination = page.Pagination
	common.RespondWithMeta(w, http.StatusOK, page.Boards, meta)
}

// CreateBoard handles POST /boards
func (h *BoardHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, http.StatusCreated, commands.CreateBoardCommand{})
}

// DeleteBoard handles DELETE /boards/{boardID}/session
func (h *BoardHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, http.StatusOK, commands.DeleteBoardCommand{BoardScope: commands.BoardScope{BoardID: boardID(r)}})
}

// GetBoard handles GET /boards/{boardID}
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	threshold, err := floatParam(r, "threshold")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.ask(w, r, queries.GetBoardQuery{BoardScope: queryScope(r), Threshold: threshold})
}

// ClearBoard handles DELETE /boards/{boardID}
func (h *BoardHandler) ClearBoard(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, http.StatusOK, commands.ClearBoardCommand{BoardScope: commandScope(r)})
}

// Undo handles POST /boards/{boardID}/undo
func (h *BoardHandler) Undo(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, http.StatusOK, commands.UndoCommand{BoardScope: commandScope(r)})
}

// GetHistory handles GET /boards/{boardID}/history
func (h *BoardHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetHistoryQuery{BoardScope: queryScope(r)})
}

// SetHover handles PUT /boards/{boardID}/hover
func (h *BoardHandler) SetHover(w http.ResponseWriter, r *http.Request) {
	var req HoverRequest
	if err := h.decodeOptional(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.send(w, r, http.StatusOK, commands.SetHoverCommand{BoardScope: commandScope(r), NodeID: req.NodeID})
}

// Relayout handles POST /boards/{boardID}/layout
func (h *BoardHandler) Relayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := h.decodeOptional(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.send(w, r, http.StatusOK, commands.RelayoutCommand{
		BoardScope: commandScope(r),
		Width:      req.Width,
		Height:     req.Height,
	})
}

// GetContrastReport handles GET /boards/{boardID}/contrast
func (h *BoardHandler) GetContrastReport(w http.ResponseWriter, r *http.Request) {
	threshold, err := floatParam(r, "threshold")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.ask(w, r, queries.GetContrastReportQuery{BoardScope: queryScope(r), Threshold: threshold})
}

// ExportPalette handles GET /boards/{boardID}/export. Clients accepting
// text/plain receive the rendered palette as the body.
func (h *BoardHandler) ExportPalette(w http.ResponseWriter, r *http.Request) {
	variants, err := boolParam(r, "variants")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	q := queries.ExportPaletteQuery{
		BoardScope: queryScope(r),
		Format:     r.URL.Query().Get("format"),
		Separator:  r.URL.Query().Get("separator"),
		Variants:   variants,
	}

	if !strings.Contains(r.Header.Get("Accept"), "text/plain") {
		h.ask(w, r, q)
		return
	}
	result, err := h.queryBus.Ask(r.Context(), q)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondText(w, http.StatusOK, result.(queries.ExportResult).Content)
}

// ValidateBoard handles GET /boards/{boardID}/validate
func (h *BoardHandler) ValidateBoard(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.ValidateBoardQuery{BoardScope: queryScope(r)})
}

// GetEvents handles GET /boards/{boardID}/events
func (h *BoardHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.ask(w, r, queries.GetEventsQuery{BoardScope: queryScope(r), Limit: limit})
}

func commandScope(r *http.Request) commands.BoardScope {
	return commands.BoardScope{BoardID: boardID(r)}
}

func queryScope(r *http.Request) queries.BoardScope {
	return queries.BoardScope{BoardID: boardID(r)}
}
