package handlers

import (
	"context"

	"contrastboard/application/commands"
	"contrastboard/application/commands/bus"
	"contrastboard/domain/core/aggregates"
	"contrastboard/domain/core/valueobjects"
	"contrastboard/pkg/errors"
)

func (h *BoardHandlers) addNode(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c := cmd.(commands.AddNodeCommand)
	session, err := h.session(ctx, c.BoardID)
	if err != nil {
		return nil, err
	}

	if c.X == nil && c.Color == "" && c.Title == "" {
		id := session.AddNode(ctx)
		res := h.result(session, true)
		res.NodeID = id.String()
		return res, nil
	}

	spec := aggregates.NodeSpec{Spawn: c.X == nil, Title: c.Title, Record: true}
	if c.X != nil {
		if spec.Position, err = h.validator.ValidatePosition(*c.X, *c.Y); err != nil {
			return nil, err
		}
	}
	if c.Color != "" {
		if spec.Color, err = h.validator.ValidateColor(c.Color); err != nil {
			return nil, err
		}
	}
	if err := h.validator.ValidateTitle(c.Title); err != nil {
		return nil, err
	}

	id, ok := session.AddNodeWith(ctx, spec)
	res := h.result(session, ok)
	res.NodeID = id.String()
	return res, nil
}

func (h *BoardHandlers) removeNode(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c := cmd.(commands.RemoveNodeCommand)
	session, err := h.session(ctx, c.BoardID)
	if err != nil {
		return nil, err
	}
	id, err := nodeID(c.NodeID)
	if err != nil {
		return nil, err
	}
	res := h.result(session, session.RemoveNode(ctx, id))
	res.NodeID = c.NodeID
	return res, nil
}

func (h *BoardHandlers) moveNode(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c := cmd.(commands.MoveNodeCommand)
	session, err := h.session(ctx, c.BoardID)
	if err != nil {
		return nil, err
	}
	id, err := nodeID(c.NodeID)
	if err != nil {
		return nil, err
	}
	position, err := h.validator.ValidatePosition(c.X, c.Y)
	if err != nil {
		return nil, err
	}
	res := h.result(session, session.MoveNode(ctx, id, position))
	res.NodeID = c.NodeID
	return res, nil
}

func (h *BoardHandlers) renameNode(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c := cmd.(commands.RenameNodeCommand)
	session, err := h.session(ctx, c.BoardID)
	if err != nil {
		return nil, err
	}
	id, err := nodeID(c.NodeID)
	if err != nil {
		return nil, err
	}
	if err := h.validator.ValidateTitle(c.Title); err != nil {
		return nil, err
	}
	res := h.result(session, session.RenameNode(ctx, id, c.Title))
	res.NodeID = c.NodeID
	return res, nil
}

func (h *BoardHandlers) changeColor(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c := cmd.(commands.ChangeColorCommand)
	session, err := h.session(ctx, c.BoardID)
	if err != nil {
		return nil, err
	}
	id, err := nodeID(c.NodeID)
	if err != nil {
		return nil, err
	}
	color, err := h.validator.ValidateColor(c.Color)
	if err != nil {
		return nil, err
	}
	var oldColor *string
	if c.OldColor != nil {
		old, err := h.validator.ValidateColor(*c.OldColor)
		if err != nil {
			return nil, err
		}
		canonical := old.String()
		oldColor = &canonical
	}
	res := h.result(session, session.ChangeColor(ctx, id, color.String(), c.Commit, oldColor))
	res.NodeID = c.NodeID
	return res, nil
}

func (h *BoardHandlers) editHex(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c := cmd.(commands.EditHexCommand)
	session, err := h.session(ctx, c.BoardID)
	if err != nil {
		return nil, err
	}
	id, err := nodeID(c.NodeID)
	if err != nil {
		return nil, err
	}

	edit, ok := session.BeginHexEdit(id)
	if !ok {
		return h.result(session, false), nil
	}
	var changed bool
	if c.Finish {
		changed = edit.Finish(ctx)
	} else {
		if !valueobjects.IsPartialHex(c.Text) {
			return nil, errors.NewMalformedColorError(c.Text)
		}
		changed = edit.Type(ctx, c.Text)
	}
	res := h.result(session, changed)
	res.NodeID = c.NodeID
	return res, nil
}

func (h *BoardHandlers) cloneNode(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c := cmd.(commands.CloneNodeCommand)
	session, err := h.session(ctx, c.BoardID)
	if err != nil {
		return nil, err
	}
	source, err := nodeID(c.SourceID)
	if err != nil {
		return nil, err
	}

	gesture, ok := session.BeginClone(source)
	if !ok {
		return h.result(session, false), nil
	}
	if c.X != nil {
		position, err := h.validator.ValidatePosition(*c.X, *c.Y)
		if err != nil {
			gesture.Abandon()
			return nil, err
		}
		gesture.Move(position)
	}
	id, ok := gesture.Drop(ctx)
	res := h.result(session, ok)
	res.NodeID = id.String()
	return res, nil
}
