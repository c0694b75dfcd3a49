package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/loghog/loghog/internal/domain"
)

// errorResponse is the uniform failure shape: the error class plus a
// human-readable detail. Internals never leak through it.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps a domain error onto its HTTP status and class name.
func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrInvalidToken):
		respondJSON(w, http.StatusUnauthorized, errorResponse{
			Error:  "invalid_token",
			Detail: "a valid bearer token is required",
		})
	case errors.As(err, &ve):
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "validation_error",
			Detail: ve.Error(),
		})
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{
			Error:  "not_found",
			Detail: "no such record",
		})
	case errors.Is(err, domain.ErrStoreUnavailable):
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:  "storage_unavailable",
			Detail: "storage is temporarily unavailable, retry with backoff",
		})
	case errors.Is(err, domain.ErrCorruptBody):
		respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error:  "corrupt_body",
			Detail: "the stored body could not be read back",
		})
	default:
		logger.Error("unclassified error", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error:  "internal",
			Detail: "internal server error",
		})
	}
}
