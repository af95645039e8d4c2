package picoplacahttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/picoplaca/picoplaca/internal/picoplaca"
	"github.com/picoplaca/picoplaca/internal/platform/httpx"
)

const (
	defaultBatchLimit  = 100
	defaultRecentLimit = 20

	// statusClientClosedRequest is written when the caller went away first.
	statusClientClosedRequest = 499
)

type checkService interface {
	Check(ctx context.Context, q picoplaca.Query, lang language.Tag) (picoplaca.Result, error)
	CheckBatch(ctx context.Context, queries []picoplaca.Query, lang language.Tag) ([]picoplaca.BatchItem, error)
	Recent(ctx context.Context, limit int) ([]picoplaca.Result, error)
}

// Handler exposes circulation checks over HTTP.
type Handler struct {
	logger      *slog.Logger
	service     checkService
	defaultLang language.Tag
	batchLimit  int
}

// Options configures optional Handler behaviour.
type Options struct {
	DefaultLanguage string
	BatchLimit      int
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service checkService, opts Options) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		logger:      logger,
		service:     service,
		defaultLang: picoplaca.ParseLanguage(opts.DefaultLanguage),
		batchLimit:  opts.BatchLimit,
	}
	if h.batchLimit <= 0 {
		h.batchLimit = defaultBatchLimit
	}
	return h
}

// MountRoutes registers the check routes on r.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/policy", h.handlePolicy)
	r.Post("/checks", h.handleCheck)
	r.Post("/checks/batch", h.handleBatch)
	r.Get("/checks/recent", h.handleRecent)
}

type batchRequest struct {
	Checks []picoplaca.Query `json:"checks"`
}

type batchResponse struct {
	Items []picoplaca.BatchItem `json:"items"`
}

type recentResponse struct {
	Checks []picoplaca.Result `json:"checks"`
}

type policyGroup struct {
	Weekday picoplaca.Weekday `json:"weekday"`
	Parity  string            `json:"restricted_parity"`
}

type policyResponse struct {
	Windows []picoplaca.Window `json:"windows"`
	Days    []policyGroup      `json:"days"`
}

func (h *Handler) handlePolicy(w http.ResponseWriter, r *http.Request) {
	days := make([]policyGroup, 0, 7)
	for d := picoplaca.Sunday; d <= picoplaca.Saturday; d++ {
		days = append(days, policyGroup{Weekday: d, Parity: picoplaca.GroupFor(d).String()})
	}
	httpx.JSON(w, http.StatusOK, policyResponse{Windows: picoplaca.Windows(), Days: days})
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	var q picoplaca.Query
	if err := httpx.DecodeJSON(w, r, &q); err != nil {
		httpx.RespondError(w, err)
		return
	}
	result, err := h.service.Check(r.Context(), q, h.language(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if len(req.Checks) == 0 {
		httpx.RespondError(w, fmt.Errorf("%w: checks must not be empty", httpx.ErrValidation))
		return
	}
	if len(req.Checks) > h.batchLimit {
		httpx.RespondError(w, fmt.Errorf("%w: at most %d checks per batch", httpx.ErrValidation, h.batchLimit))
		return
	}
	items, err := h.service.CheckBatch(r.Context(), req.Checks, h.language(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, batchResponse{Items: items})
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httpx.RespondError(w, fmt.Errorf("%w: limit must be a positive integer", httpx.ErrValidation))
			return
		}
		limit = parsed
	}
	checks, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, recentResponse{Checks: checks})
}

func (h *Handler) language(r *http.Request) language.Tag {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return picoplaca.ParseLanguage(lang)
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		tags, _, err := language.ParseAcceptLanguage(header)
		if err == nil && len(tags) > 0 {
			return picoplaca.ParseLanguage(tags[0].String())
		}
	}
	return h.defaultLang
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, picoplaca.ErrInvalidInput), errors.Is(err, picoplaca.ErrInvalidArgument):
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
	case errors.Is(err, picoplaca.ErrRecorderUnavailable):
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrUnavailable, err))
	case errors.Is(err, context.Canceled):
		h.logger.Debug("picoplaca request canceled", slog.String("path", r.URL.Path))
		w.WriteHeader(statusClientClosedRequest)
	case errors.Is(err, context.DeadlineExceeded):
		h.logger.Debug("picoplaca request timed out", slog.String("path", r.URL.Path))
		httpx.Problem(w, http.StatusGatewayTimeout, http.StatusText(http.StatusGatewayTimeout), "request deadline exceeded")
	default:
		h.logger.Error("picoplaca request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
