package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/loghog/loghog/internal/adapter/codec"
	"github.com/loghog/loghog/internal/domain"
)

type queryService struct {
	logs   domain.LogRepository
	codec  *codec.BodyCodec
	logger *slog.Logger
}

// NewQueryService creates the read side of the pipeline.
func NewQueryService(logs domain.LogRepository, bodyCodec *codec.BodyCodec, logger *slog.Logger) QueryUseCase {
	return &queryService{logs: logs, codec: bodyCodec, logger: logger}
}

// Search returns one page of record summaries matching the filter, scoped to
// the given application.
func (s *queryService) Search(ctx context.Context, appID uuid.UUID, filter domain.SearchFilter) (*SearchResult, error) {
	ctx, span := otel.Tracer("query-service").Start(ctx, "Search")
	defer span.End()

	if filter.Limit <= 0 {
		filter.Limit = defaultSearchLimit
	}
	if filter.Limit > maxSearchLimit {
		filter.Limit = maxSearchLimit
	}

	logs, next, err := s.logs.Search(ctx, appID, filter)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Logs: logs, NextCursor: next}, nil
}

// Get retrieves a single record with its body decompressed. A record owned by
// another application is reported exactly like a missing one.
func (s *queryService) Get(ctx context.Context, appID, id uuid.UUID) (*domain.LogRecord, error) {
	ctx, span := otel.Tracer("query-service").Start(ctx, "Get")
	defer span.End()

	record, err := s.logs.FindByID(ctx, appID, id)
	if err != nil {
		return nil, err
	}

	body, err := s.codec.Decompress(record.CompressedBody)
	if err != nil {
		s.logger.Error("stored body failed to decompress", "error", err, "record_id", id)
		return nil, err
	}
	record.Body = body
	record.CompressedBody = nil
	return record, nil
}
