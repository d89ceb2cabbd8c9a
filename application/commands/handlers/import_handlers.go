package handlers

import (
	"bytes"
	"context"
	"fmt"

	"contrastboard/application/commands"
	"contrastboard/application/commands/bus"
	"contrastboard/application/services"
	"contrastboard/pkg/errors"
)

func (h *BoardHandlers) importText(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c := cmd.(commands.ImportTextCommand)
	session, err := h.session(ctx, c.BoardID)
	if err != nil {
		return nil, err
	}

	vp := services.ViewportFromConfig(session.Config(), c.Width, c.Height)
	imported := h.importer.ImportText(ctx, session, c.Text, vp)
	res := h.result(session, len(imported.Added) > 0 || imported.Cleared)
	res.Import = &imported
	return res, nil
}

func (h *BoardHandlers) importImage(ctx context.Context, cmd bus.Command) (interface{}, error) {
	c := cmd.(commands.ImportImageCommand)
	session, err := h.session(ctx, c.BoardID)
	if err != nil {
		return nil, err
	}
	if limit := session.Config().MaxClusterCount; c.Clusters > limit {
		return nil, errors.NewValidationError(fmt.Sprintf("clusters must be at most %d", limit)).
			WithCode("TOO_MANY_CLUSTERS")
	}

	vp := services.ViewportFromConfig(session.Config(), c.Width, c.Height)
	imported, err := h.importer.ImportImage(ctx, session, bytes.NewReader(c.Image), c.Clusters, vp)
	if err != nil {
		return nil, err
	}
	res := h.result(session, len(imported.Added) > 0 || imported.Cleared)
	res.Import = &imported
	return res, nil
}
