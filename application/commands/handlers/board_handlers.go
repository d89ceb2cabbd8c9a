package handlers

import (
	"context"

	"go.uber.org/zap"

	"contrastboard/application/commands"
	"contrastboard/application/commands/bus"
	"contrastboard/application/services"
	"contrastboard/domain/core/aggregates"
	"contrastboard/domain/core/validators"
	"contrastboard/domain/core/valueobjects"
	"contrastboard/pkg/errors"
)

// BoardHandlers executes board commands against open sessions
type BoardHandlers struct {
	repo      services.SessionRepository
	importer  *services.ImportService
	validator *validators.NodeValidator
	logger    *zap.Logger
}

// NewBoardHandlers creates the board command handlers
func NewBoardHandlers(
	repo services.SessionRepository,
	importer *services.ImportService,
	validator *validators.NodeValidator,
	logger *zap.Logger,
) *BoardHandlers {
	return &BoardHandlers{
		repo:      repo,
		importer:  importer,
		validator: validator,
		logger:    logger,
	}
}

// Register binds every board command to its handler
func (h *BoardHandlers) Register(b *bus.CommandBus) error {
	routes := []struct {
		cmd     bus.Command
		handler bus.CommandHandlerFunc
	}{
		{commands.CreateBoardCommand{}, h.createBoard},
		{commands.DeleteBoardCommand{}, h.deleteBoard},
		{commands.ClearBoardCommand{}, h.clearBoard},
		{commands.UndoCommand{}, h.undo},
		{commands.SetHoverCommand{}, h.setHover},
		{commands.RelayoutCommand{}, h.relayout},
		{commands.AddNodeCommand{}, h.addNode},
		{commands.RemoveNodeCommand{}, h.removeNode},
		{commands.MoveNodeCommand{}, h.moveNode},
		{commands.RenameNodeCommand{}, h.renameNode},
		{commands.ChangeColorCommand{}, h.changeColor},
		{commands.EditHexCommand{}, h.editHex},
		{commands.CloneNodeCommand{}, h.cloneNode},
		{commands.AddConnectionCommand{}, h.addConnection},
		{commands.RemoveConnectionCommand{}, h.removeConnection},
		{commands.ImportTextCommand{}, h.importText},
		{commands.ImportImageCommand{}, h.importImage},
	}
	for _, r := range routes {
		if err := b.Register(r.cmd, r.handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *BoardHandlers) createBoard(ctx context.Context, _ bus.Command) (interface{}, error) {
	session, err := h.repo.Create(ctx)
	if err != nil {
		return nil, err
	}
	h.logger.Info("Board created", zap.String("boardID", session.ID().String()))
	return h.result(session, true), nil
}

func (h *BoardHandlers) deleteBoard(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c := cmd.(commands.DeleteBoardCommand)
	if err := h.repo.Delete(ctx, aggregates.BoardID(c.BoardID)); err != nil {
		return nil, err
	}
	h.logger.Info("Board deleted", zap.String("boardID", c.BoardID))
	return commands.Result{BoardID: c.BoardID, Changed: true}, nil
}

func (h *BoardHandlers) clearBoard(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c := cmd.(commands.ClearBoardCommand)
	session, err := h.session(ctx, c.BoardID)
	if err != nil {
		return nil, err
	}
	return h.result(session, session.ClearBoard(ctx)), nil
}

func (h *BoardHandlers) undo(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c := cmd.(commands.UndoCommand)
	session, err := h.session(ctx, c.BoardID)
	if err != nil {
		return nil, err
	}
	kind, ok := session.Undo(ctx)
	res := h.result(session, ok)
	res.Undone = string(kind)
	return res, nil
}

func (h *BoardHandlers) setHover(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c := cmd.(commands.SetHoverCommand)
	session, err := h.session(ctx, c.BoardID)
	if err != nil {
		return nil, err
	}
	if c.NodeID == "" {
		_, had := session.Hovered()
		session.ClearHover()
		return h.result(session, had), nil
	}
	id, err := nodeID(c.NodeID)
	if err != nil {
		return nil, err
	}
	res := h.result(session, session.SetHover(id))
	res.NodeID = c.NodeID
	return res, nil
}

func (h *BoardHandlers) relayout(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c := cmd.(commands.RelayoutCommand)
	session, err := h.session(ctx, c.BoardID)
	if err != nil {
		return nil, err
	}
	moved := session.Relayout(ctx, services.ViewportFromConfig(session.Config(), c.Width, c.Height))
	res := h.result(session, moved > 0)
	res.Moved = moved
	return res, nil
}

func (h *BoardHandlers) session(ctx context.Context, boardID string) (*services.Session, error) {
	return h.repo.Get(ctx, aggregates.BoardID(boardID))
}

func (h *BoardHandlers) result(session *services.Session, changed bool) commands.Result {
	return commands.Result{
		BoardID:   session.ID().String(),
		Changed:   changed,
		UndoDepth: session.UndoDepth(),
	}
}

func nodeID(raw string) (valueobjects.NodeID, error) {
	id, err := valueobjects.NewNodeIDFromString(raw)
	if err != nil {
		return valueobjects.NodeID{}, errors.NewValidationError(err.Error()).WithCode("INVALID_NODE_ID")
	}
	return id, nil
}
