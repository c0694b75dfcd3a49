package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/loghog/loghog/internal/domain"
)

// MockTokenRepository is an in-memory implementation of
// domain.TokenRepository for testing.
type MockTokenRepository struct {
	mu         sync.Mutex
	Tokens     map[string]uuid.UUID // plaintext token -> app id
	Revoked    map[string]bool
	ResolveErr error
}

func NewMockTokenRepository() *MockTokenRepository {
	return &MockTokenRepository{
		Tokens:  make(map[string]uuid.UUID),
		Revoked: make(map[string]bool),
	}
}

func (m *MockTokenRepository) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ResolveErr != nil {
		return uuid.Nil, m.ResolveErr
	}
	appID, ok := m.Tokens[token]
	if !ok || m.Revoked[token] {
		return uuid.Nil, domain.ErrInvalidToken
	}
	return appID, nil
}

func (m *MockTokenRepository) Issue(ctx context.Context, token *domain.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tokens[token.Digest] = token.AppID
	return nil
}

func (m *MockTokenRepository) Revoke(ctx context.Context, digest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Revoked[digest] = true
	return nil
}

// MockLogRepository is an in-memory implementation of domain.LogRepository.
// It honors tenant scoping and the full filter set so use case tests exercise
// real query semantics.
type MockLogRepository struct {
	mu       sync.Mutex
	Records  []*domain.LogRecord
	StoreErr error
	FindErr  error
}

func NewMockLogRepository() *MockLogRepository {
	return &MockLogRepository{}
}

func (m *MockLogRepository) Store(ctx context.Context, record *domain.LogRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoreErr != nil {
		return m.StoreErr
	}
	stored := *record
	m.Records = append(m.Records, &stored)
	return nil
}

func (m *MockLogRepository) Search(ctx context.Context, appID uuid.UUID, filter domain.SearchFilter) ([]*domain.LogRecordSummary, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*domain.LogRecordSummary
	for _, r := range m.Records {
		if r.AppID != appID {
			continue
		}
		if filter.Level != "" && r.Level != filter.Level {
			continue
		}
		if filter.Category != "" && r.Category != filter.Category {
			continue
		}
		if filter.TraceID != "" && r.TraceID != filter.TraceID {
			continue
		}
		if !filter.Start.IsZero() && r.Timestamp.Before(filter.Start) {
			continue
		}
		if !filter.End.IsZero() && r.Timestamp.After(filter.End) {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(r.Message), strings.ToLower(filter.Query)) {
			continue
		}
		if !tagsMatch(filter.Tags, r.Tags) {
			continue
		}
		out = append(out, r.Summary())
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, "", nil
}

func (m *MockLogRepository) FindByID(ctx context.Context, appID, id uuid.UUID) (*domain.LogRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for _, r := range m.Records {
		if r.ID == id && r.AppID == appID {
			found := *r
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func tagsMatch(want, have map[string]string) bool {
	for k, v := range want {
		if have[k] != v {
			return false
		}
	}
	return true
}
