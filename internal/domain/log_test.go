package domain

import "testing"

func TestParseLevel(t *testing.T) {
	valid := []string{"debug", "info", "warn", "error", "fatal"}
	for _, s := range valid {
		if _, ok := ParseLevel(s); !ok {
			t.Errorf("expected %q to parse", s)
		}
	}

	invalid := []string{"", "INFO", "Error", "warning", "trace", "fatal "}
	for _, s := range invalid {
		if _, ok := ParseLevel(s); ok {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestTemplateRender(t *testing.T) {
	tests := []struct {
		name    string
		tpl     Template
		pattern string
		want    string
	}{
		{
			name:    "string params",
			tpl:     Template{Name: "order_failed", Params: map[string]any{"order": "order-abc", "user": "u-1"}},
			pattern: "order {order} failed for {user}",
			want:    "order order-abc failed for u-1",
		},
		{
			name:    "missing param left as placeholder",
			tpl:     Template{Name: "greet", Params: map[string]any{"user": "u-1"}},
			pattern: "hello {user}, you have {count} messages",
			want:    "hello u-1, you have {count} messages",
		},
		{
			name:    "non-string param",
			tpl:     Template{Name: "retry", Params: map[string]any{"attempt": float64(3)}},
			pattern: "attempt {attempt}",
			want:    "attempt 3",
		},
		{
			name:    "no params",
			tpl:     Template{Name: "plain"},
			pattern: "nothing to fill",
			want:    "nothing to fill",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tpl.Render(tt.pattern); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
