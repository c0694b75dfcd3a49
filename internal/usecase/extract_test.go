package usecase

import (
	"reflect"
	"testing"

	"github.com/loghog/loghog/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		sub  *Submission
		want domain.IndexFields
	}{
		{
			name: "defaults with empty body",
			sub:  &Submission{Body: map[string]any{}},
			want: domain.IndexFields{Category: "general"},
		},
		{
			name: "fields from body",
			sub: &Submission{Body: map[string]any{
				"category": "media",
				"trace_id": "t-1",
				"span_id":  "s-1",
				"tags":     map[string]any{"region": "eu"},
			}},
			want: domain.IndexFields{
				Category: "media",
				TraceID:  "t-1",
				SpanID:   "s-1",
				Tags:     map[string]string{"region": "eu"},
			},
		},
		{
			name: "top level wins over body",
			sub: &Submission{
				Body: map[string]any{
					"category": "media",
					"trace_id": "t-body",
					"tags":     map[string]any{"service": "from-body"},
				},
				Overrides: Overrides{
					Category: strPtr("payments"),
					TraceID:  strPtr("t-top"),
					Tags:     map[string]string{"service": "from-top"},
				},
			},
			want: domain.IndexFields{
				Category: "payments",
				TraceID:  "t-top",
				Tags:     map[string]string{"service": "from-top"},
			},
		},
		{
			name: "non-string tag values in body are skipped",
			sub: &Submission{Body: map[string]any{
				"tags": map[string]any{"ok": "yes", "count": float64(3), "flag": true},
			}},
			want: domain.IndexFields{
				Category: "general",
				Tags:     map[string]string{"ok": "yes"},
			},
		},
		{
			name: "template from body",
			sub: &Submission{Body: map[string]any{
				"template": map[string]any{
					"name":   "user_signup",
					"params": map[string]any{"user": "u-1"},
				},
			}},
			want: domain.IndexFields{
				Category: "general",
				Template: &domain.Template{
					Name:   "user_signup",
					Params: map[string]any{"user": "u-1"},
				},
			},
		},
		{
			name: "non-string category in body is ignored",
			sub:  &Submission{Body: map[string]any{"category": 7.0}},
			want: domain.IndexFields{Category: "general"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.sub)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestExtractIsPure(t *testing.T) {
	sub := &Submission{Body: map[string]any{"category": "media"}}
	first := Extract(sub)
	second := Extract(sub)
	if !reflect.DeepEqual(first, second) {
		t.Error("extraction is not deterministic")
	}
	if sub.Body["category"] != "media" {
		t.Error("extraction mutated the body")
	}
}
