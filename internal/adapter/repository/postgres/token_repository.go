package postgres

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/loghog/loghog/internal/adapter/metrics"
	"github.com/loghog/loghog/internal/domain"
)

// TokenCache is an optional read-through cache in front of the token table.
// Implementations must only ever hold positive resolutions.
type TokenCache interface {
	Get(ctx context.Context, digest string) (uuid.UUID, bool)
	Set(ctx context.Context, digest string, appID uuid.UUID)
	Delete(ctx context.Context, digest string)
}

// TokenRepository implements domain.TokenRepository on PostgreSQL with an
// optional cache. Only SHA-256 digests are stored and looked up, so the
// plaintext secret never touches the database or the cache.
type TokenRepository struct {
	db      *sql.DB
	cache   TokenCache
	logger  *slog.Logger
	metrics *metrics.IngestMetrics
}

// NewTokenRepository creates the repository. Cache and metrics may be nil.
func NewTokenRepository(db *sql.DB, cache TokenCache, logger *slog.Logger, m *metrics.IngestMetrics) *TokenRepository {
	return &TokenRepository{db: db, cache: cache, logger: logger, metrics: m}
}

// Digest returns the hex SHA-256 of a plaintext token. It is the only form a
// secret is ever persisted in.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Resolve maps a plaintext token to its application. Unknown and revoked
// tokens take the identical code path: a single indexed lookup that returns
// zero rows, then ErrInvalidToken.
func (r *TokenRepository) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	digest := Digest(token)

	if r.cache != nil {
		if appID, ok := r.cache.Get(ctx, digest); ok {
			if r.metrics != nil {
				r.metrics.TokenCacheHits.Inc()
			}
			return appID, nil
		}
		if r.metrics != nil {
			r.metrics.TokenCacheMisses.Inc()
		}
	}

	var appID uuid.UUID
	query := `SELECT app_id FROM tokens WHERE digest = $1 AND NOT revoked`
	err := r.db.QueryRowContext(ctx, query, digest).Scan(&appID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, domain.ErrInvalidToken
		}
		return uuid.Nil, classify("resolve token", err)
	}

	if r.cache != nil {
		r.cache.Set(ctx, digest, appID)
	}
	return appID, nil
}

// Issue stores a new token record.
func (r *TokenRepository) Issue(ctx context.Context, token *domain.Token) error {
	query := `INSERT INTO tokens (digest, app_id, revoked, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, token.Digest, token.AppID, token.Revoked, token.CreatedAt)
	return classify("issue token", err)
}

// Revoke marks a token revoked and drops it from the cache. Cached positive
// entries elsewhere age out within the cache TTL.
func (r *TokenRepository) Revoke(ctx context.Context, digest string) error {
	query := `UPDATE tokens SET revoked = TRUE WHERE digest = $1`
	if _, err := r.db.ExecContext(ctx, query, digest); err != nil {
		return classify("revoke token", err)
	}
	if r.cache != nil {
		r.cache.Delete(ctx, digest)
	}
	return nil
}
