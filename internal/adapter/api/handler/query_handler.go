package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/loghog/loghog/internal/adapter/api/middleware"
	"github.com/loghog/loghog/internal/domain"
	"github.com/loghog/loghog/internal/usecase"
)

// QueryHandler serves the read endpoints: filtered search and get-by-id.
type QueryHandler struct {
	useCase usecase.QueryUseCase
	logger  *slog.Logger
}

func NewQueryHandler(uc usecase.QueryUseCase, logger *slog.Logger) *QueryHandler {
	return &QueryHandler{useCase: uc, logger: logger}
}

// Search handles GET /api/v1/logs. Filters: level, category, trace_id,
// since/until (RFC3339), q (free text over message), tag (repeatable "k:v"),
// limit, cursor.
func (h *QueryHandler) Search(w http.ResponseWriter, r *http.Request) {
	appID, ok := middleware.AppIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, domain.ErrInvalidToken)
		return
	}

	filter, err := parseSearchFilter(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	result, err := h.useCase.Search(r.Context(), appID, filter)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if result.Logs == nil {
		result.Logs = []*domain.LogRecordSummary{}
	}
	respondJSON(w, http.StatusOK, result)
}

// Get handles GET /api/v1/logs/{id}, returning the record with its body
// restored to exactly the submitted form. A malformed or foreign id is a
// plain not-found.
func (h *QueryHandler) Get(w http.ResponseWriter, r *http.Request) {
	appID, ok := middleware.AppIDFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, domain.ErrInvalidToken)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, domain.ErrNotFound)
		return
	}

	record, err := h.useCase.Get(r.Context(), appID, id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

func parseSearchFilter(r *http.Request) (domain.SearchFilter, error) {
	q := r.URL.Query()
	filter := domain.SearchFilter{
		Category: q.Get("category"),
		TraceID:  q.Get("trace_id"),
		Query:    q.Get("q"),
		Cursor:   q.Get("cursor"),
	}

	if lvl := q.Get("level"); lvl != "" {
		level, ok := domain.ParseLevel(lvl)
		if !ok {
			return filter, &domain.ValidationError{Field: "level", Kind: domain.ValidationUnknownLevel}
		}
		filter.Level = level
	}

	if since := q.Get("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return filter, &domain.ValidationError{Field: "since", Kind: domain.ValidationWrongType}
		}
		filter.Start = t
	}
	if until := q.Get("until"); until != "" {
		t, err := time.Parse(time.RFC3339, until)
		if err != nil {
			return filter, &domain.ValidationError{Field: "until", Kind: domain.ValidationWrongType}
		}
		filter.End = t
	}

	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			return filter, &domain.ValidationError{Field: "limit", Kind: domain.ValidationWrongType}
		}
		filter.Limit = limit
	}

	for _, pair := range q["tag"] {
		k, v, found := strings.Cut(pair, ":")
		if !found || k == "" {
			return filter, &domain.ValidationError{Field: "tag", Kind: domain.ValidationWrongType}
		}
		if filter.Tags == nil {
			filter.Tags = make(map[string]string)
		}
		filter.Tags[k] = v
	}

	return filter, nil
}
