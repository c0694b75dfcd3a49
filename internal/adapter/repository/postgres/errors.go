package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/lib/pq"

	"github.com/loghog/loghog/internal/domain"
)

// classify maps driver-level failures onto the domain error taxonomy.
// Connection-class failures become ErrStoreUnavailable so callers know the
// submission is safe to retry with backoff; everything else passes through
// wrapped.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08: connection exceptions, 53: insufficient resources,
		// 57: operator intervention (shutdown etc.). All transient.
		class := string(pqErr.Code.Class())
		if class == "08" || class == "53" || class == "57" {
			return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
		}
	}
	if strings.Contains(err.Error(), "connection refused") {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
