package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/loghog/loghog/internal/domain"
)

// ApplicationRepository implements domain.ApplicationRepository on PostgreSQL.
type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	query := `INSERT INTO applications (id, name, created_at) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, app.ID, app.Name, app.CreatedAt)
	return classify("create application", err)
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	query := `SELECT id, name, created_at FROM applications WHERE id = $1`

	var app domain.Application
	err := r.db.QueryRowContext(ctx, query, id).Scan(&app.ID, &app.Name, &app.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, classify("find application", err)
	}
	return &app, nil
}

// Delete removes the application row; the tokens table cascades via its
// foreign key. Log records are left in place with a dangling app_id, which
// makes them unreachable since no token resolves to the deleted application.
func (r *ApplicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return classify("delete application", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
