package handlers

import (
	"context"

	"contrastboard/application/commands"
	"contrastboard/application/commands/bus"
)

func (h *BoardHandlers) addConnection(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c := cmd.(commands.AddConnectionCommand)
	session, err := h.session(ctx, c.BoardID)
	if err != nil {
		return nil, err
	}
	from, err := nodeID(c.FromID)
	if err != nil {
		return nil, err
	}
	to, err := nodeID(c.ToID)
	if err != nil {
		return nil, err
	}

	gesture, ok := session.BeginConnect(from)
	if !ok {
		return h.result(session, false), nil
	}
	gesture.Hover(to)
	return h.result(session, gesture.Release(ctx, to)), nil
}

func (h *BoardHandlers) removeConnection(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c := cmd.(commands.RemoveConnectionCommand)
	session, err := h.session(ctx, c.BoardID)
	if err != nil {
		return nil, err
	}
	from, err := nodeID(c.FromID)
	if err != nil {
		return nil, err
	}
	to, err := nodeID(c.ToID)
	if err != nil {
		return nil, err
	}
	return h.result(session, session.RemoveConnection(ctx, from, to)), nil
}
