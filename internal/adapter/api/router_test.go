package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/loghog/loghog/internal/adapter/codec"
	"github.com/loghog/loghog/internal/domain/mocks"
	"github.com/loghog/loghog/internal/usecase"
)

// newTestStack wires the full pipeline behind the real router: codec,
// services, and in-memory repositories. Only the database is faked.
func newTestStack(t *testing.T) (http.Handler, *mocks.MockTokenRepository, *mocks.MockLogRepository) {
	t.Helper()

	bodyCodec, err := codec.New()
	if err != nil {
		t.Fatalf("codec.New: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := mocks.NewMockTokenRepository()
	logs := mocks.NewMockLogRepository()

	ingestUC := usecase.NewIngestService(tokens, logs, bodyCodec, nil, logger)
	queryUC := usecase.NewQueryService(logs, bodyCodec, logger)

	router := NewRouter(RouterConfig{
		MaxBodySize:    1 << 20,
		RateLimitRPS:   10000,
		RateLimitBurst: 10000,
	}, logger, tokens, ingestUC, queryUC)

	return router, tokens, logs
}

func TestIngestQueryFlow(t *testing.T) {
	router, tokens, logs := newTestStack(t)

	appID := uuid.New()
	tokens.Tokens["lh_e2e"] = appID

	// Ingest a batch of submissions through the public endpoint.
	const batchSize = 10
	var entries []json.RawMessage
	for i := 0; i < batchSize; i++ {
		entry := fmt.Sprintf(`{"level": "info", "message": "flow event %d", "body": {"category": "checkout", "seq": %d, "big": 9007199254740993}}`, i, i)
		entries = append(entries, json.RawMessage(entry))
	}
	payload, _ := json.Marshal(entries)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/logs/batch", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer lh_e2e")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("batch ingest status = %d, body %s", rec.Code, rec.Body.String())
	}
	var batchResp struct {
		Accepted int `json:"accepted"`
		Rejected int `json:"rejected"`
		Results  []struct {
			Status string `json:"status"`
			ID     string `json:"id"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &batchResp); err != nil {
		t.Fatalf("decode batch response: %v", err)
	}
	if batchResp.Accepted != batchSize || batchResp.Rejected != 0 {
		t.Fatalf("accepted/rejected = %d/%d, want %d/0", batchResp.Accepted, batchResp.Rejected, batchSize)
	}
	if got := len(logs.Records); got != batchSize {
		t.Fatalf("stored %d records, want %d", got, batchSize)
	}

	// Search them back with a filter.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/logs?category=checkout&level=info", nil)
	req.Header.Set("Authorization", "Bearer lh_e2e")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("search status = %d, body %s", rec.Code, rec.Body.String())
	}
	var searchResp struct {
		Logs []struct {
			ID      string `json:"id"`
			Message string `json:"message"`
		} `json:"logs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &searchResp); err != nil {
		t.Fatalf("decode search response: %v", err)
	}
	if len(searchResp.Logs) != batchSize {
		t.Fatalf("search returned %d logs, want %d", len(searchResp.Logs), batchSize)
	}

	// Fetch one by id and check the body round-tripped.
	id := batchResp.Results[0].ID
	req = httptest.NewRequest(http.MethodGet, "/api/v1/logs/"+id, nil)
	req.Header.Set("Authorization", "Bearer lh_e2e")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, body %s", rec.Code, rec.Body.String())
	}
	var record struct {
		ID   string         `json:"id"`
		Body map[string]any `json:"body"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record.ID != id {
		t.Fatalf("record id = %s, want %s", record.ID, id)
	}
	if record.Body["category"] != "checkout" {
		t.Fatalf("body.category = %v, want checkout", record.Body["category"])
	}
	// The integer is above 2^53: the serialized body must carry the exact
	// digits the client submitted.
	if !bytes.Contains(rec.Body.Bytes(), []byte("9007199254740993")) {
		t.Fatalf("large integer lost precision in response: %s", rec.Body.String())
	}
}

func TestRouterAuth(t *testing.T) {
	router, tokens, _ := newTestStack(t)

	appID := uuid.New()
	tokens.Tokens["lh_valid"] = appID
	tokens.Tokens["lh_revoked"] = appID
	tokens.Revoked["lh_revoked"] = true

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "missing token on write",
			method:     http.MethodPost,
			path:       "/api/v1/logs",
			body:       `{"level": "info", "message": "x"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown token on write",
			method:     http.MethodPost,
			path:       "/api/v1/logs",
			body:       `{"level": "info", "message": "x"}`,
			authHeader: "Bearer lh_nope",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "revoked token on write",
			method:     http.MethodPost,
			path:       "/api/v1/logs",
			body:       `{"level": "info", "message": "x"}`,
			authHeader: "Bearer lh_revoked",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing token on read",
			method:     http.MethodGet,
			path:       "/api/v1/logs",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token on write",
			method:     http.MethodPost,
			path:       "/api/v1/logs",
			body:       `{"level": "info", "message": "x"}`,
			authHeader: "Bearer lh_valid",
			wantStatus: http.StatusCreated,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var body io.Reader
			if tc.body != "" {
				body = bytes.NewReader([]byte(tc.body))
			}
			req := httptest.NewRequest(tc.method, tc.path, body)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	router, _, _ := newTestStack(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
}
