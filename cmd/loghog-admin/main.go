// Command loghog-admin manages applications and tokens from the operator
// side: creating tenants, issuing bearer tokens, and revoking them. The
// plaintext token is printed exactly once at issue time.
package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/loghog/loghog/internal/adapter/repository/postgres"
	"github.com/loghog/loghog/internal/domain"
	"github.com/loghog/loghog/internal/pkg/config"
	"github.com/loghog/loghog/internal/pkg/logger"

	_ "github.com/lib/pq" // postgres driver
)

const usage = `usage: loghog-admin <command> [args]

commands:
  create-app <name>        create an application, print its id
  issue-token <app-id>     issue a bearer token for an application
  revoke-token <token>     revoke a bearer token
  delete-app <app-id>      delete an application and its tokens (logs are kept)
`

func main() {
	if len(os.Args) < 3 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	appRepo := postgres.NewApplicationRepository(db)
	tokenRepo := postgres.NewTokenRepository(db, nil, log, nil)

	switch os.Args[1] {
	case "create-app":
		app := &domain.Application{
			ID:        uuid.New(),
			Name:      os.Args[2],
			CreatedAt: time.Now().UTC(),
		}
		if err := appRepo.Create(ctx, app); err != nil {
			log.Error("failed to create application", "error", err)
			os.Exit(1)
		}
		fmt.Println(app.ID)

	case "issue-token":
		appID, err := uuid.Parse(os.Args[2])
		if err != nil {
			log.Error("invalid application id", "error", err)
			os.Exit(1)
		}
		if _, err := appRepo.FindByID(ctx, appID); err != nil {
			log.Error("application lookup failed", "error", err)
			os.Exit(1)
		}
		plaintext := newToken()
		token := &domain.Token{
			Digest:    postgres.Digest(plaintext),
			AppID:     appID,
			CreatedAt: time.Now().UTC(),
		}
		if err := tokenRepo.Issue(ctx, token); err != nil {
			log.Error("failed to issue token", "error", err)
			os.Exit(1)
		}
		// Shown once; only the digest is stored.
		fmt.Println(plaintext)

	case "revoke-token":
		if err := tokenRepo.Revoke(ctx, postgres.Digest(os.Args[2])); err != nil {
			log.Error("failed to revoke token", "error", err)
			os.Exit(1)
		}

	case "delete-app":
		appID, err := uuid.Parse(os.Args[2])
		if err != nil {
			log.Error("invalid application id", "error", err)
			os.Exit(1)
		}
		if err := appRepo.Delete(ctx, appID); err != nil {
			log.Error("failed to delete application", "error", err)
			os.Exit(1)
		}

	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func newToken() string {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return "lh_" + hex.EncodeToString(buf)
}
