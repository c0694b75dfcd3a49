package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Level is the closed severity enumeration for log records.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
	LevelFatal Level = "fatal"
)

// ParseLevel validates a client-supplied level string. Matching is
// case-sensitive; unrecognized values are rejected, never coerced.
func ParseLevel(s string) (Level, bool) {
	switch Level(s) {
	case LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal:
		return Level(s), true
	}
	return "", false
}

// Template is a reference to a predefined message template plus the
// parameters that fill its placeholders.
type Template struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// Render substitutes {param} placeholders in the given pattern with the
// template's params. Unknown placeholders are left untouched; a mismatch
// between pattern and params is a display-time concern, not an error.
func (t *Template) Render(pattern string) string {
	out := pattern
	for k, v := range t.Params {
		out = strings.ReplaceAll(out, "{"+k+"}", stringify(v))
	}
	return out
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// IndexFields are the queryable attributes pulled out of a submission so the
// body itself can stay opaque and compressed.
type IndexFields struct {
	Category string
	TraceID  string
	SpanID   string
	Template *Template
	Tags     map[string]string
}

// DefaultCategory is assigned when neither the payload top level nor the body
// carries a category. It is the single documented extraction default.
const DefaultCategory = "general"

// LogRecord is the persisted unit of ingestion. Records are immutable once
// stored; there is no update path.
type LogRecord struct {
	ID        uuid.UUID         `json:"id"`
	AppID     uuid.UUID         `json:"app_id"`
	Timestamp time.Time         `json:"timestamp"`
	Level     Level             `json:"level"`
	Message   string            `json:"message"`
	Category  string            `json:"category"`
	TraceID   string            `json:"trace_id,omitempty"`
	SpanID    string            `json:"span_id,omitempty"`
	Template  *Template         `json:"template,omitempty"`
	Tags      map[string]string `json:"tags,omitempty"`

	// Body is the decompressed structured payload. Populated on Get; left
	// nil in search results, where only the compressed form travels.
	Body map[string]any `json:"body,omitempty"`

	// CompressedBody is the stored representation of Body.
	CompressedBody []byte `json:"-"`
}

// LogRecordSummary is the search-result projection of a record: everything
// except the body.
type LogRecordSummary struct {
	ID        uuid.UUID         `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Level     Level             `json:"level"`
	Message   string            `json:"message"`
	Category  string            `json:"category"`
	TraceID   string            `json:"trace_id,omitempty"`
	SpanID    string            `json:"span_id,omitempty"`
	Tags      map[string]string `json:"tags,omitempty"`
}

// Summary projects a record to its search representation.
func (r *LogRecord) Summary() *LogRecordSummary {
	return &LogRecordSummary{
		ID:        r.ID,
		Timestamp: r.Timestamp,
		Level:     r.Level,
		Message:   r.Message,
		Category:  r.Category,
		TraceID:   r.TraceID,
		SpanID:    r.SpanID,
		Tags:      r.Tags,
	}
}
