package postgres

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/loghog/loghog/internal/domain"
)

// LogRepository implements domain.LogRepository on PostgreSQL. Bodies are
// stored as opaque compressed bytes; the indexable fields live in their own
// columns, tags and template params as JSONB.
type LogRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewLogRepository(db *sql.DB, logger *slog.Logger) *LogRepository {
	return &LogRepository{db: db, logger: logger}
}

// Store inserts a single record. One INSERT, one row: the write is atomic and
// a failure leaves nothing behind.
func (r *LogRepository) Store(ctx context.Context, record *domain.LogRecord) error {
	var templateName sql.NullString
	var templateParams, tags []byte
	if record.Template != nil {
		templateName = sql.NullString{String: record.Template.Name, Valid: true}
		if record.Template.Params != nil {
			b, err := json.Marshal(record.Template.Params)
			if err != nil {
				return fmt.Errorf("marshal template params: %w", err)
			}
			templateParams = b
		}
	}
	if record.Tags != nil {
		b, err := json.Marshal(record.Tags)
		if err != nil {
			return fmt.Errorf("marshal tags: %w", err)
		}
		tags = b
	}

	query := `
        INSERT INTO logs (id, app_id, timestamp, level, message, category,
                          trace_id, span_id, template_name, template_params, tags, body)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `
	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.AppID,
		record.Timestamp,
		string(record.Level),
		record.Message,
		record.Category,
		nullable(record.TraceID),
		nullable(record.SpanID),
		templateName,
		nullableBytes(templateParams),
		nullableBytes(tags),
		record.CompressedBody,
	)
	return classify("store log", err)
}

// Search retrieves summaries matching the filter, newest first, using keyset
// pagination over (timestamp, id).
func (r *LogRepository) Search(ctx context.Context, appID uuid.UUID, filter domain.SearchFilter) ([]*domain.LogRecordSummary, string, error) {
	conds := []string{"app_id = $1"}
	args := []interface{}{appID}
	idx := 2

	add := func(cond string, vals ...interface{}) {
		placeholders := make([]interface{}, len(vals))
		for i := range vals {
			placeholders[i] = fmt.Sprintf("$%d", idx)
			idx++
		}
		conds = append(conds, fmt.Sprintf(cond, placeholders...))
		args = append(args, vals...)
	}

	if filter.Level != "" {
		add("level = %s", string(filter.Level))
	}
	if filter.Category != "" {
		add("category = %s", filter.Category)
	}
	if filter.TraceID != "" {
		add("trace_id = %s", filter.TraceID)
	}
	if !filter.Start.IsZero() {
		add("timestamp >= %s", filter.Start)
	}
	if !filter.End.IsZero() {
		add("timestamp <= %s", filter.End)
	}
	if filter.Query != "" {
		add("message ILIKE %s", "%"+filter.Query+"%")
	}
	if len(filter.Tags) > 0 {
		tagJSON, err := json.Marshal(filter.Tags)
		if err != nil {
			return nil, "", fmt.Errorf("marshal tag filter: %w", err)
		}
		add("tags @> %s::jsonb", string(tagJSON))
	}
	if filter.Cursor != "" {
		cursorTime, cursorID, err := decodeCursor(filter.Cursor)
		if err != nil {
			// The cursor is client-supplied; a malformed one is the caller's
			// mistake, not an internal failure.
			return nil, "", &domain.ValidationError{Field: "cursor", Kind: domain.ValidationWrongType}
		}
		add("(timestamp, id) < (%s, %s)", cursorTime, cursorID)
	}

	query := fmt.Sprintf(`
        SELECT id, timestamp, level, message, category, trace_id, span_id, tags
        FROM logs
        WHERE %s
        ORDER BY timestamp DESC, id DESC
        LIMIT $%d
    `, strings.Join(conds, " AND "), idx)
	args = append(args, filter.Limit+1)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, "", classify("search logs", err)
	}
	defer rows.Close()

	var logs []*domain.LogRecordSummary
	for rows.Next() {
		var s domain.LogRecordSummary
		var level string
		var traceID, spanID sql.NullString
		var tagJSON []byte
		if err := rows.Scan(&s.ID, &s.Timestamp, &level, &s.Message, &s.Category, &traceID, &spanID, &tagJSON); err != nil {
			return nil, "", fmt.Errorf("scan log summary: %w", err)
		}
		s.Level = domain.Level(level)
		s.TraceID = traceID.String
		s.SpanID = spanID.String
		if len(tagJSON) > 0 {
			if err := json.Unmarshal(tagJSON, &s.Tags); err != nil {
				return nil, "", fmt.Errorf("decode tags: %w", err)
			}
		}
		logs = append(logs, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, "", classify("search logs", err)
	}

	logs, nextCursor := page(logs, filter.Limit)
	return logs, nextCursor, nil
}

// page truncates a limit+1 result slice to the page size. A cursor is emitted
// only when a row beyond the page proved there is more to fetch.
func page(logs []*domain.LogRecordSummary, limit int) ([]*domain.LogRecordSummary, string) {
	if len(logs) <= limit {
		return logs, ""
	}
	logs = logs[:limit]
	last := logs[len(logs)-1]
	return logs, encodeCursor(last.Timestamp, last.ID)
}

// FindByID returns the full record for this application. A row owned by a
// different application yields the same ErrNotFound as a missing row, because
// app_id is part of the lookup key.
func (r *LogRepository) FindByID(ctx context.Context, appID, id uuid.UUID) (*domain.LogRecord, error) {
	query := `
        SELECT id, app_id, timestamp, level, message, category,
               trace_id, span_id, template_name, template_params, tags, body
        FROM logs
        WHERE app_id = $1 AND id = $2
    `

	var rec domain.LogRecord
	var level string
	var traceID, spanID, templateName sql.NullString
	var templateParams, tagJSON []byte
	err := r.db.QueryRowContext(ctx, query, appID, id).Scan(
		&rec.ID,
		&rec.AppID,
		&rec.Timestamp,
		&level,
		&rec.Message,
		&rec.Category,
		&traceID,
		&spanID,
		&templateName,
		&templateParams,
		&tagJSON,
		&rec.CompressedBody,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, classify("find log", err)
	}

	rec.Level = domain.Level(level)
	rec.TraceID = traceID.String
	rec.SpanID = spanID.String
	if templateName.Valid {
		rec.Template = &domain.Template{Name: templateName.String}
		if len(templateParams) > 0 {
			if err := json.Unmarshal(templateParams, &rec.Template.Params); err != nil {
				return nil, fmt.Errorf("decode template params: %w", err)
			}
		}
	}
	if len(tagJSON) > 0 {
		if err := json.Unmarshal(tagJSON, &rec.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return &rec, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullableBytes(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}

// encodeCursor generates a base64-encoded string from a timestamp and UUID.
func encodeCursor(t time.Time, id uuid.UUID) string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s,%s", t.Format(time.RFC3339Nano), id.String())))
}

// decodeCursor decodes a base64-encoded cursor string into a timestamp and UUID.
func decodeCursor(cursor string) (time.Time, uuid.UUID, error) {
	decoded, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, err
	}

	parts := strings.Split(string(decoded), ",")
	if len(parts) != 2 {
		return time.Time{}, uuid.Nil, errors.New("invalid cursor format")
	}

	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, uuid.Nil, err
	}

	id, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.Nil, err
	}

	return t, id, nil
}
