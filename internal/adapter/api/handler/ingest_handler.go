package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/loghog/loghog/internal/adapter/api/middleware"
	"github.com/loghog/loghog/internal/domain"
	"github.com/loghog/loghog/internal/usecase"
)

// IngestHandler serves the write endpoints: single and batch submission.
type IngestHandler struct {
	useCase     usecase.IngestUseCase
	logger      *slog.Logger
	maxBodySize int64
}

func NewIngestHandler(uc usecase.IngestUseCase, logger *slog.Logger, maxBodySize int64) *IngestHandler {
	return &IngestHandler{
		useCase:     uc,
		logger:      logger,
		maxBodySize: maxBodySize,
	}
}

// Single handles POST /api/v1/logs: one submission, one record, 201 with the
// generated id.
func (h *IngestHandler) Single(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, domain.ErrInvalidToken)
		return
	}

	raw, ok := h.readBody(w, r)
	if !ok {
		return
	}

	id, err := h.useCase.Ingest(r.Context(), token, raw)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

type batchEntryResponse struct {
	Status string `json:"status"` // accepted | rejected
	ID     string `json:"id,omitempty"`
	Error  string `json:"error,omitempty"`
	Detail string `json:"detail,omitempty"`
}

type batchResponse struct {
	Accepted int                  `json:"accepted"`
	Rejected int                  `json:"rejected"`
	Results  []batchEntryResponse `json:"results"`
}

// Batch handles POST /api/v1/logs/batch: a JSON array of payload objects.
// Entries succeed or fail independently; the response reports each slot.
func (h *IngestHandler) Batch(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		respondError(w, h.logger, domain.ErrInvalidToken)
		return
	}

	raw, ok := h.readBody(w, r)
	if !ok {
		return
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		respondError(w, h.logger, &domain.ValidationError{Field: "payload", Kind: domain.ValidationWrongType})
		return
	}

	result, err := h.useCase.IngestBatch(r.Context(), token, entries)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	resp := batchResponse{
		Accepted: result.Accepted,
		Rejected: result.Rejected,
		Results:  make([]batchEntryResponse, 0, len(result.Entries)),
	}
	for _, entry := range result.Entries {
		er := batchEntryResponse{Status: "accepted"}
		if entry.Err != nil {
			er.Status = "rejected"
			er.Error = usecase.ClassifyError(entry.Err)
			if domain.IsValidation(entry.Err) {
				er.Detail = entry.Err.Error()
			} else {
				er.Detail = "storage failure, safe to retry with backoff"
			}
		} else if entry.ID != uuid.Nil {
			er.ID = entry.ID.String()
		}
		resp.Results = append(resp.Results, er)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *IngestHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error:  "payload_too_large",
				Detail: "submission exceeds the maximum payload size",
			})
			return nil, false
		}
		respondError(w, h.logger, &domain.ValidationError{Field: "payload", Kind: domain.ValidationWrongType})
		return nil, false
	}
	return raw, true
}
