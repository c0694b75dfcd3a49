package usecase

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/loghog/loghog/internal/domain"
)

// rawSubmission defers per-field decoding so each field can be type-checked
// individually and rejected with a precise validation error.
type rawSubmission struct {
	Timestamp json.RawMessage `json:"timestamp"`
	Level     json.RawMessage `json:"level"`
	Message   json.RawMessage `json:"message"`
	Body      json.RawMessage `json:"body"`
	Category  json.RawMessage `json:"category"`
	TraceID   json.RawMessage `json:"trace_id"`
	SpanID    json.RawMessage `json:"span_id"`
	Template  json.RawMessage `json:"template"`
	Tags      json.RawMessage `json:"tags"`
}

// Validate checks a raw JSON submission against the ingestion contract and
// returns the validated form. The submission is accepted or rejected as a
// whole; there is no partial acceptance and no silent coercion.
func Validate(raw []byte) (*Submission, error) {
	var rs rawSubmission
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&rs); err != nil {
		return nil, &domain.ValidationError{Field: "payload", Kind: domain.ValidationWrongType}
	}

	sub := &Submission{}

	// level: required, closed enumeration, case-sensitive.
	if isAbsent(rs.Level) {
		return nil, &domain.ValidationError{Field: "level", Kind: domain.ValidationMissingField}
	}
	var levelStr string
	if err := json.Unmarshal(rs.Level, &levelStr); err != nil {
		return nil, &domain.ValidationError{Field: "level", Kind: domain.ValidationWrongType}
	}
	level, ok := domain.ParseLevel(levelStr)
	if !ok {
		return nil, &domain.ValidationError{Field: "level", Kind: domain.ValidationUnknownLevel}
	}
	sub.Level = level

	// message: required, non-empty string.
	if isAbsent(rs.Message) {
		return nil, &domain.ValidationError{Field: "message", Kind: domain.ValidationMissingField}
	}
	var message string
	if err := json.Unmarshal(rs.Message, &message); err != nil {
		return nil, &domain.ValidationError{Field: "message", Kind: domain.ValidationWrongType}
	}
	if message == "" {
		return nil, &domain.ValidationError{Field: "message", Kind: domain.ValidationMissingField}
	}
	sub.Message = message

	// body: optional, must be an object at the top level; absent means empty.
	// Numbers are kept as json.Number so large integers survive storage and
	// retrieval without precision loss.
	if isAbsent(rs.Body) {
		sub.Body = map[string]any{}
	} else {
		var body map[string]any
		bodyDec := json.NewDecoder(bytes.NewReader(rs.Body))
		bodyDec.UseNumber()
		if err := bodyDec.Decode(&body); err != nil {
			return nil, &domain.ValidationError{Field: "body", Kind: domain.ValidationWrongType}
		}
		if body == nil {
			body = map[string]any{}
		}
		sub.Body = body
	}

	// timestamp: optional ISO-8601.
	if !isAbsent(rs.Timestamp) {
		var tsStr string
		if err := json.Unmarshal(rs.Timestamp, &tsStr); err != nil {
			return nil, &domain.ValidationError{Field: "timestamp", Kind: domain.ValidationWrongType}
		}
		ts, err := time.Parse(time.RFC3339, tsStr)
		if err != nil {
			return nil, &domain.ValidationError{Field: "timestamp", Kind: domain.ValidationWrongType}
		}
		sub.Timestamp = ts.UTC()
	}

	// Optional top-level overrides. Each is type-checked when present and
	// recorded so extraction can give it precedence over the body.
	if s, err := optionalString(rs.Category, "category"); err != nil {
		return nil, err
	} else {
		sub.Overrides.Category = s
	}
	if s, err := optionalString(rs.TraceID, "trace_id"); err != nil {
		return nil, err
	} else {
		sub.Overrides.TraceID = s
	}
	if s, err := optionalString(rs.SpanID, "span_id"); err != nil {
		return nil, err
	} else {
		sub.Overrides.SpanID = s
	}

	if !isAbsent(rs.Tags) {
		var tags map[string]string
		if err := json.Unmarshal(rs.Tags, &tags); err != nil {
			return nil, &domain.ValidationError{Field: "tags", Kind: domain.ValidationWrongType}
		}
		sub.Overrides.Tags = tags
	}

	if !isAbsent(rs.Template) {
		var tpl domain.Template
		if err := json.Unmarshal(rs.Template, &tpl); err != nil {
			return nil, &domain.ValidationError{Field: "template", Kind: domain.ValidationWrongType}
		}
		if tpl.Name == "" {
			return nil, &domain.ValidationError{Field: "template", Kind: domain.ValidationMissingField}
		}
		sub.Overrides.Template = &tpl
	}

	return sub, nil
}

func optionalString(raw json.RawMessage, field string) (*string, error) {
	if isAbsent(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, &domain.ValidationError{Field: field, Kind: domain.ValidationWrongType}
	}
	return &s, nil
}

// isAbsent treats both a missing key and an explicit null as "not supplied".
func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
