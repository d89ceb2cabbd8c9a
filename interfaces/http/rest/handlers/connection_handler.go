package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"contrastboard/application/commands"
	"contrastboard/application/commands/bus"
	apperrors "contrastboard/pkg/errors"
)

// ConnectionHandler handles connection-related HTTP requests
type ConnectionHandler struct {
	base
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(commandBus *bus.CommandBus, errs *apperrors.ErrorHandler, limits Limits, logger *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{base: newBase(commandBus, nil, errs, limits, logger)}
}

// ConnectionRequest names both endpoints of a connection
type ConnectionRequest struct {
	FromID string `json:"fromId"`
	ToID   string `json:"toId"`
}

// CreateConnection handles POST /connections
func (h *ConnectionHandler) CreateConnection(w http.ResponseWriter, r *http.Request) {
	var req ConnectionRequest
	if err := h.decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.send(w, r, http.StatusOK, commands.AddConnectionCommand{
		BoardScope: commandScope(r),
		FromID:     req.FromID,
		ToID:       req.ToID,
	})
}

// DeleteConnection handles DELETE /connections
func (h *ConnectionHandler) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	var req ConnectionRequest
	if err := h.decode(w, r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.send(w, r, http.StatusOK, commands.RemoveConnectionCommand{
		BoardScope: commandScope(r),
		FromID:     req.FromID,
		ToID:       req.ToID,
	})
}
