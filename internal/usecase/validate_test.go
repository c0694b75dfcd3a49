package usecase

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/loghog/loghog/internal/domain"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantField string
		wantKind  domain.ValidationKind
	}{
		{
			name:      "missing level",
			raw:       `{"message":"hi"}`,
			wantField: "level",
			wantKind:  domain.ValidationMissingField,
		},
		{
			name:      "null level",
			raw:       `{"level":null,"message":"hi"}`,
			wantField: "level",
			wantKind:  domain.ValidationMissingField,
		},
		{
			name:      "unknown level",
			raw:       `{"level":"critical","message":"hi"}`,
			wantField: "level",
			wantKind:  domain.ValidationUnknownLevel,
		},
		{
			name:      "level is case sensitive",
			raw:       `{"level":"Error","message":"hi"}`,
			wantField: "level",
			wantKind:  domain.ValidationUnknownLevel,
		},
		{
			name:      "level wrong type",
			raw:       `{"level":3,"message":"hi"}`,
			wantField: "level",
			wantKind:  domain.ValidationWrongType,
		},
		{
			name:      "missing message",
			raw:       `{"level":"info"}`,
			wantField: "message",
			wantKind:  domain.ValidationMissingField,
		},
		{
			name:      "empty message",
			raw:       `{"level":"info","message":""}`,
			wantField: "message",
			wantKind:  domain.ValidationMissingField,
		},
		{
			name:      "message wrong type",
			raw:       `{"level":"info","message":42}`,
			wantField: "message",
			wantKind:  domain.ValidationWrongType,
		},
		{
			name:      "body is array",
			raw:       `{"level":"info","message":"hi","body":[1,2]}`,
			wantField: "body",
			wantKind:  domain.ValidationWrongType,
		},
		{
			name:      "body is scalar",
			raw:       `{"level":"info","message":"hi","body":"oops"}`,
			wantField: "body",
			wantKind:  domain.ValidationWrongType,
		},
		{
			name:      "bad timestamp",
			raw:       `{"level":"info","message":"hi","timestamp":"yesterday"}`,
			wantField: "timestamp",
			wantKind:  domain.ValidationWrongType,
		},
		{
			name:      "tags not flat strings",
			raw:       `{"level":"info","message":"hi","tags":{"a":1}}`,
			wantField: "tags",
			wantKind:  domain.ValidationWrongType,
		},
		{
			name:      "template without name",
			raw:       `{"level":"info","message":"hi","template":{"params":{"a":"b"}}}`,
			wantField: "template",
			wantKind:  domain.ValidationMissingField,
		},
		{
			name:      "not json",
			raw:       `{"level":`,
			wantField: "payload",
			wantKind:  domain.ValidationWrongType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate([]byte(tt.raw))
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Field != tt.wantField || ve.Kind != tt.wantKind {
				t.Errorf("got {field=%s kind=%s}, want {field=%s kind=%s}", ve.Field, ve.Kind, tt.wantField, tt.wantKind)
			}
		})
	}
}

func TestValidateAccepts(t *testing.T) {
	t.Run("minimal payload defaults body to empty mapping", func(t *testing.T) {
		sub, err := Validate([]byte(`{"level":"info","message":"hi"}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if sub.Level != domain.LevelInfo || sub.Message != "hi" {
			t.Errorf("unexpected submission: %+v", sub)
		}
		if sub.Body == nil || len(sub.Body) != 0 {
			t.Errorf("expected empty body mapping, got %#v", sub.Body)
		}
		if !sub.Timestamp.IsZero() {
			t.Errorf("expected zero timestamp, got %v", sub.Timestamp)
		}
	})

	t.Run("full payload", func(t *testing.T) {
		raw := `{
			"level": "error",
			"message": "Payment processing failed.",
			"timestamp": "2026-08-30T12:00:00Z",
			"body": {"userId": "user-123"},
			"category": "payments",
			"trace_id": "t-1",
			"span_id": "s-1",
			"tags": {"service": "payments-api"},
			"template": {"name": "payment_failed", "params": {"order": "order-abc"}}
		}`
		sub, err := Validate([]byte(raw))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		if !sub.Timestamp.Equal(want) {
			t.Errorf("timestamp: got %v, want %v", sub.Timestamp, want)
		}
		if sub.Overrides.Category == nil || *sub.Overrides.Category != "payments" {
			t.Errorf("category override not captured: %+v", sub.Overrides)
		}
		if sub.Overrides.Tags["service"] != "payments-api" {
			t.Errorf("tags override not captured: %+v", sub.Overrides.Tags)
		}
		if sub.Overrides.Template == nil || sub.Overrides.Template.Name != "payment_failed" {
			t.Errorf("template override not captured: %+v", sub.Overrides.Template)
		}
	})

	t.Run("body numbers keep full precision", func(t *testing.T) {
		sub, err := Validate([]byte(`{"level":"info","message":"hi","body":{"sequence":9007199254740993}}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		n, ok := sub.Body["sequence"].(json.Number)
		if !ok {
			t.Fatalf("sequence is %T, want json.Number", sub.Body["sequence"])
		}
		if n.String() != "9007199254740993" {
			t.Errorf("sequence = %s, want 9007199254740993", n)
		}
	})
}
