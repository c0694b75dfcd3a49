package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/loghog/loghog/internal/domain"
)

// IngestUseCase is the write side: a submission goes through
// resolve -> validate -> extract -> compress -> persist as one atomic unit.
type IngestUseCase interface {
	// Ingest processes a single submission and returns the id of the stored
	// record. No partial record survives a failure at any step.
	Ingest(ctx context.Context, token string, raw []byte) (uuid.UUID, error)

	// IngestBatch processes independent submissions under one token. One
	// entry failing never aborts the others; the result reports each entry.
	IngestBatch(ctx context.Context, token string, raws []json.RawMessage) (*BatchResult, error)
}

// QueryUseCase is the read side, always scoped to one application.
type QueryUseCase interface {
	Search(ctx context.Context, appID uuid.UUID, filter domain.SearchFilter) (*SearchResult, error)
	Get(ctx context.Context, appID, id uuid.UUID) (*domain.LogRecord, error)
}

// Submission is a payload that passed validation. Overrides are the optional
// top-level metadata fields; they take precedence over same-named keys inside
// Body during extraction.
type Submission struct {
	Timestamp time.Time // zero when the client did not supply one
	Level     domain.Level
	Message   string
	Body      map[string]any
	Overrides Overrides
}

// Overrides holds caller-supplied top-level metadata. Nil pointer / nil map
// means the field was absent.
type Overrides struct {
	Category *string
	TraceID  *string
	SpanID   *string
	Template *domain.Template
	Tags     map[string]string
}

// BatchEntry is the outcome of one entry in a batch submission.
type BatchEntry struct {
	Index int
	ID    uuid.UUID
	Err   error
}

// BatchResult reports per-entry outcomes of a batch ingest.
type BatchResult struct {
	Accepted int
	Rejected int
	Entries  []BatchEntry
}

// SearchResult holds one page of summaries and the cursor for the next.
type SearchResult struct {
	Logs       []*domain.LogRecordSummary `json:"logs"`
	NextCursor string                     `json:"next_cursor,omitempty"`
}

const (
	defaultSearchLimit = 100
	maxSearchLimit     = 1000
)
