package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"contrastboard/application/commands"
	"contrastboard/application/commands/bus"
	"contrastboard/application/queries"
	querybus "contrastboard/application/queries/bus"
	"contrastboard/pkg/common"
	apperrors "contrastboard/pkg/errors"
)

// NodeHandler handles node-related HTTP requests
type NodeHandler struct {
	base
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errs *apperrors.ErrorHandler,
	limits Limits,
	logger *zap.Logger,
) *NodeHandler {
	return &NodeHandler{base: newBase(commandBus, queryBus, errs, limits, logger)}
}

// CreateNodeRequest represents the request body for adding a node. Every
// field is optional.
type CreateNodeRequest struct {
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
	Color string   `json:"color,omitempty"`
	Title string   `json:"title,omitempty"`
}

// PositionRequest moves a node
type PositionRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// TitleRequest renames a node
type TitleRequest struct {
	Title string `json:"title"`
}

// ColorRequest applies a color; see ChangeColorCommand
type ColorRequest struct {
	Color    string  `json:"color"`
	Commit   bool    `json:"commit"`
	OldColor *string `json:"oldColor,omitempty"`
}

// HexRequest feeds the hex text field of a node
type HexRequest struct {
	Text   string `json:"text"`
	Finish bool   `json:"finish"`
}

// CloneRequest drops a copy of a node, optionally elsewhere
type CloneRequest struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
}

// CreateNode handles POST /nodes
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req CreateNodeRequest
	if err := h.decodeOptional(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	cmd := commands.AddNodeCommand{
		BoardScope: commandScope(r),
		X:          req.X,
		Y:          req.Y,
		Color:      req.Color,
		Title:      req.Title,
	}
	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	status := http.StatusOK
	if res, ok := result.(commands.Result); ok && res.Changed {
		status = http.StatusCreated
		h.logger.Debug("Node created via API",
			zap.String("boardID", res.BoardID),
			zap.String("nodeID", res.NodeID),
		)
	}
	common.RespondWithMeta(w, status, result, common.NewMeta(r))
}

// GetNode handles GET /nodes/{nodeID}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetNodeQuery{BoardScope: queryScope(r), NodeID: chi.URLParam(r, "nodeID")})
}

// DeleteNode handles DELETE /nodes/{nodeID}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, http.StatusOK, commands.RemoveNodeCommand{
		BoardScope: commandScope(r),
		NodeID:     chi.URLParam(r, "nodeID"),
	})
}

// MoveNode handles PUT /nodes/{nodeID}/position
func (h *NodeHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if err := h.decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if req.X == nil || req.Y == nil {
		h.errors.Handle(w, r, apperrors.NewValidationError("x and y are required").WithCode("INVALID_POSITION"))
		return
	}
	h.send(w, r, http.StatusOK, commands.MoveNodeCommand{
		BoardScope: commandScope(r),
		NodeID:     chi.URLParam(r, "nodeID"),
		X:          *req.X,
		Y:          *req.Y,
	})
}

// RenameNode handles PUT /nodes/{nodeID}/title
func (h *NodeHandler) RenameNode(w http.ResponseWriter, r *http.Request) {
	var req TitleRequest
	if err := h.decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.send(w, r, http.StatusOK, commands.RenameNodeCommand{
		BoardScope: commandScope(r),
		NodeID:     chi.URLParam(r, "nodeID"),
		Title:      req.Title,
	})
}

// ChangeColor handles PUT /nodes/{nodeID}/color
func (h *NodeHandler) ChangeColor(w http.ResponseWriter, r *http.Request) {
	var req ColorRequest
	if err := h.decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.send(w, r, http.StatusOK, commands.ChangeColorCommand{
		BoardScope: commandScope(r),
		NodeID:     chi.URLParam(r, "nodeID"),
		Color:      req.Color,
		Commit:     req.Commit,
		OldColor:   req.OldColor,
	})
}

// EditHex handles PUT /nodes/{nodeID}/hex
func (h *NodeHandler) EditHex(w http.ResponseWriter, r *http.Request) {
	var req HexRequest
	if err := h.decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.send(w, r, http.StatusOK, commands.EditHexCommand{
		BoardScope: commandScope(r),
		NodeID:     chi.URLParam(r, "nodeID"),
		Text:       req.Text,
		Finish:     req.Finish,
	})
}

// CloneNode handles POST /nodes/{nodeID}/clone
func (h *NodeHandler) CloneNode(w http.ResponseWriter, r *http.Request) {
	var req CloneRequest
	if err := h.decodeOptional(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.send(w, r, http.StatusOK, commands.CloneNodeCommand{
		BoardScope: commandScope(r),
		SourceID:   chi.URLParam(r, "nodeID"),
		X:          req.X,
		Y:          req.Y,
	})
}

// GetShades handles GET /nodes/{nodeID}/shades
func (h *NodeHandler) GetShades(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetShadesQuery{BoardScope: queryScope(r), NodeID: chi.URLParam(r, "nodeID")})
}
