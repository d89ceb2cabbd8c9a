package handlers

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"contrastboard/application/commands"
	"contrastboard/application/commands/bus"
	apperrors "contrastboard/pkg/errors"
)

// imageField is the multipart field holding an uploaded image
const imageField = "image"

// ImportHandler handles bulk palette import requests
type ImportHandler struct {
	base
}

// NewImportHandler creates a new import handler
func NewImportHandler(commandBus *bus.CommandBus, errs *apperrors.ErrorHandler, limits Limits, logger *zap.Logger) *ImportHandler {
	return &ImportHandler{base: newBase(commandBus, nil, errs, limits, logger)}
}

// ImportTextRequest is the JSON form of a text import
type ImportTextRequest struct {
	Text   string  `json:"text"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// ImportText handles POST /import/text. The body is either JSON or the raw
// text to scan for hex colors.
func (h *ImportHandler) ImportText(w http.ResponseWriter, r *http.Request) {
	var req ImportTextRequest
	if isJSON(r) {
		if err := h.decode(w, r, &req); err != nil {
			h.errors.Handle(w, r, err)
			return
		}
	} else {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.limits.MaxBodyBytes))
		if err != nil {
			h.errors.Handle(w, r, err)
			return
		}
		req.Text = string(body)
		if req.Width, err = floatParam(r, "width"); err != nil {
			h.errors.Handle(w, r, err)
			return
		}
		if req.Height, err = floatParam(r, "height"); err != nil {
			h.errors.Handle(w, r, err)
			return
		}
	}

	h.send(w, r, http.StatusOK, commands.ImportTextCommand{
		BoardScope: commandScope(r),
		Text:       req.Text,
		Width:      req.Width,
		Height:     req.Height,
	})
}

// ImportImage handles POST /import/image. The image comes either as the
// multipart field "image" or as the raw body.
func (h *ImportHandler) ImportImage(w http.ResponseWriter, r *http.Request) {
	clusters, err := intParam(r, "k")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	width, err := floatParam(r, "width")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	height, err := floatParam(r, "height")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	data, err := h.readImage(w, r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.logger.Debug("Image received", zap.Int("bytes", len(data)), zap.Int("clusters", clusters))

	h.send(w, r, http.StatusOK, commands.ImportImageCommand{
		BoardScope: commandScope(r),
		Image:      data,
		Clusters:   clusters,
		Width:      width,
		Height:     height,
	})
}

func (h *ImportHandler) readImage(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.limits.MaxImageBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return io.ReadAll(r.Body)
	}

	if err := r.ParseMultipartForm(h.limits.MaxImageBytes); err != nil {
		return nil, bodyError(err)
	}
	file, _, err := r.FormFile(imageField)
	if err != nil {
		return nil, apperrors.NewValidationError("multipart field \"image\" is required").WithCode("MISSING_IMAGE")
	}
	defer file.Close()
	return io.ReadAll(file)
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
