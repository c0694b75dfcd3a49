package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SearchFilter narrows a log search. Zero values mean "no constraint" except
// Limit, which callers must set.
type SearchFilter struct {
	Level    Level
	Category string
	Tags     map[string]string
	TraceID  string
	Start    time.Time
	End      time.Time
	Query    string // free text over message
	Limit    int
	Cursor   string
}

// TokenRepository resolves bearer tokens to application identities and manages
// token lifecycle. Resolve is the hot path and must stay an indexed lookup.
type TokenRepository interface {
	// Resolve maps a plaintext token to the owning application id, or fails
	// with ErrInvalidToken. Unknown and revoked tokens fail identically.
	Resolve(ctx context.Context, token string) (uuid.UUID, error)

	// Issue stores a new token record (digest only).
	Issue(ctx context.Context, token *Token) error

	// Revoke marks the token with the given digest as revoked.
	Revoke(ctx context.Context, digest string) error
}

// ApplicationRepository manages the tenant entities.
type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*Application, error)

	// Delete removes an application and cascades to its tokens. Log records
	// keep their app_id and simply become unreachable.
	Delete(ctx context.Context, id uuid.UUID) error
}

// LogRepository persists and retrieves log records. Records are write-once;
// there is no update operation.
type LogRepository interface {
	// Store inserts a single record atomically.
	Store(ctx context.Context, record *LogRecord) error

	// Search returns summaries matching the filter, newest first, plus a
	// cursor for the next page ("" when exhausted). Every match is scoped to
	// the given application.
	Search(ctx context.Context, appID uuid.UUID, filter SearchFilter) ([]*LogRecordSummary, string, error)

	// FindByID returns the full record including its compressed body, or
	// ErrNotFound when the id does not exist for this application.
	FindByID(ctx context.Context, appID, id uuid.UUID) (*LogRecord, error)
}
