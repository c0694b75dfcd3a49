package domain

import (
	"time"

	"github.com/google/uuid"
)

// Application is the tenant unit: it owns tokens and every log record ingested
// with one of those tokens.
type Application struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Token is a bearer credential bound to exactly one Application. Only the
// SHA-256 digest of the secret is ever stored; the plaintext is shown once at
// issue time and never again.
type Token struct {
	Digest    string    `json:"-"`
	AppID     uuid.UUID `json:"app_id"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}
