package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"contrastboard/application/commands/bus"
	querybus "contrastboard/application/queries/bus"
	"contrastboard/pkg/common"
	apperrors "contrastboard/pkg/errors"
)

// Limits bounds request bodies
type Limits struct {
	MaxBodyBytes  int64
	MaxImageBytes int64
}

// DefaultLimits returns the limits used when none are configured
func DefaultLimits() Limits {
	return Limits{MaxBodyBytes: 1 << 20, MaxImageBytes: 10 << 20}
}

// base carries the dependencies shared by every resource handler
type base struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *apperrors.ErrorHandler
	limits     Limits
	logger     *zap.Logger
}

func newBase(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, errs *apperrors.ErrorHandler, limits Limits, logger *zap.Logger) base {
	if limits.MaxBodyBytes <= 0 {
		limits.MaxBodyBytes = DefaultLimits().MaxBodyBytes
	}
	if limits.MaxImageBytes <= 0 {
		limits.MaxImageBytes = DefaultLimits().MaxImageBytes
	}
	return base{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errs,
		limits:     limits,
		logger:     logger,
	}
}

// send dispatches a command and writes its result
func (h *base) send(w http.ResponseWriter, r *http.Request, status int, cmd bus.Command) {
	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondWithMeta(w, status, result, common.NewMeta(r))
}

// ask dispatches a query and writes its result
func (h *base) ask(w http.ResponseWriter, r *http.Request, q querybus.Query) {
	result, err := h.queryBus.Ask(r.Context(), q)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondWithMeta(w, http.StatusOK, result, common.NewMeta(r))
}

// decode parses a required JSON body
func (h *base) decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := common.ParseJSONBody(w, r, v, h.limits.MaxBodyBytes); err != nil {
		return bodyError(err)
	}
	return nil
}

// decodeOptional parses a JSON body that may be absent
func (h *base) decodeOptional(w http.ResponseWriter, r *http.Request, v interface{}) error {
	err := common.ParseJSONBody(w, r, v, h.limits.MaxBodyBytes)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return bodyError(err)
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	if errors.Is(err, io.EOF) {
		return apperrors.NewValidationError("request body is required").WithCode("EMPTY_BODY")
	}
	return apperrors.NewValidationError("invalid request body: " + err.Error()).WithCode("INVALID_BODY").WithCause(err)
}

// boardID returns the board addressed by the request
func boardID(r *http.Request) string {
	if id, ok := common.GetBoardID(r.Context()); ok {
		return id
	}
	return chi.URLParam(r, "boardID")
}

// floatParam reads an optional float query parameter
func floatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.NewValidationError(name + " must be a number").WithCode("INVALID_PARAMETER")
	}
	return v, nil
}

// intParam reads an optional integer query parameter
func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(name + " must be an integer").WithCode("INVALID_PARAMETER")
	}
	return v, nil
}

// boolParam reads an optional boolean query parameter
func boolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.NewValidationError(name + " must be true or false").WithCode("INVALID_PARAMETER")
	}
	return v, nil
}
