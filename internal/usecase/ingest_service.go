package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/loghog/loghog/internal/adapter/codec"
	"github.com/loghog/loghog/internal/adapter/metrics"
	"github.com/loghog/loghog/internal/domain"
)

type ingestService struct {
	tokens  domain.TokenRepository
	logs    domain.LogRepository
	codec   *codec.BodyCodec
	metrics *metrics.IngestMetrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewIngestService creates the ingestion pipeline. Metrics may be nil.
func NewIngestService(
	tokens domain.TokenRepository,
	logs domain.LogRepository,
	bodyCodec *codec.BodyCodec,
	m *metrics.IngestMetrics,
	logger *slog.Logger,
) IngestUseCase {
	return &ingestService{
		tokens:  tokens,
		logs:    logs,
		codec:   bodyCodec,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Ingest runs resolve -> validate -> extract -> compress -> persist. Any step
// failing aborts the whole submission; the single INSERT at the end is the
// only write, so there is never a partial record.
func (s *ingestService) Ingest(ctx context.Context, token string, raw []byte) (uuid.UUID, error) {
	ctx, span := otel.Tracer("ingest-service").Start(ctx, "Ingest")
	defer span.End()

	appID, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		s.count("error_auth")
		return uuid.Nil, err
	}

	record, err := s.buildRecord(appID, raw)
	if err != nil {
		s.count("error_validation")
		return uuid.Nil, err
	}

	if err := s.logs.Store(ctx, record); err != nil {
		s.count("error_storage")
		s.logger.Error("failed to store log record", "error", err, "app_id", appID)
		return uuid.Nil, err
	}

	s.count("accepted")
	if s.metrics != nil {
		s.metrics.BodyBytesTotal.Add(float64(len(raw)))
		s.metrics.CompressedBytesTotal.Add(float64(len(record.CompressedBody)))
	}
	return record.ID, nil
}

// IngestBatch resolves the token once, then processes every entry
// independently. A failing entry is reported in its slot and never aborts
// its siblings; only an invalid token rejects the batch as a whole.
func (s *ingestService) IngestBatch(ctx context.Context, token string, raws []json.RawMessage) (*BatchResult, error) {
	ctx, span := otel.Tracer("ingest-service").Start(ctx, "IngestBatch")
	defer span.End()

	appID, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		s.count("error_auth")
		return nil, err
	}

	result := &BatchResult{Entries: make([]BatchEntry, 0, len(raws))}
	for i, raw := range raws {
		entry := BatchEntry{Index: i}

		record, err := s.buildRecord(appID, raw)
		if err == nil {
			err = s.logs.Store(ctx, record)
		}
		if err != nil {
			if domain.IsValidation(err) {
				s.count("error_validation")
			} else {
				s.count("error_storage")
			}
			entry.Err = err
			result.Rejected++
		} else {
			s.count("accepted")
			entry.ID = record.ID
			result.Accepted++
		}
		result.Entries = append(result.Entries, entry)
	}
	return result, nil
}

// buildRecord validates a raw submission and turns it into a storable record.
// Extraction reads the same validated body that gets compressed, so the
// indexed fields can never diverge from what decompression would yield.
func (s *ingestService) buildRecord(appID uuid.UUID, raw []byte) (*domain.LogRecord, error) {
	sub, err := Validate(raw)
	if err != nil {
		return nil, err
	}

	fields := Extract(sub)

	compressed, err := s.codec.Compress(sub.Body)
	if err != nil {
		return nil, err
	}

	ts := sub.Timestamp
	if ts.IsZero() {
		// Assigned after successful validation, not at receipt.
		ts = s.now().UTC()
	}

	return &domain.LogRecord{
		ID:             uuid.New(),
		AppID:          appID,
		Timestamp:      ts,
		Level:          sub.Level,
		Message:        sub.Message,
		Category:       fields.Category,
		TraceID:        fields.TraceID,
		SpanID:         fields.SpanID,
		Template:       fields.Template,
		Tags:           fields.Tags,
		CompressedBody: compressed,
	}, nil
}

func (s *ingestService) count(status string) {
	if s.metrics != nil {
		s.metrics.RecordsTotal.WithLabelValues(status).Inc()
	}
}

// ClassifyError names the failure class of an ingestion error so transport
// handlers can report it without leaking internals.
func ClassifyError(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidToken):
		return "auth"
	case domain.IsValidation(err):
		return "validation"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "storage_unavailable"
	default:
		return "storage"
	}
}
