// Package joblock provides a mutual-exclusion lease for long running jobs such
// as a full price recalculation. Leases expire on their own so that a crashed
// holder cannot block the job forever.
package joblock

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/pricing_admin_backend/internal/apperrors"
)

// Locker hands out exclusive, expiring leases keyed by job name.
type Locker interface {
	// Acquire takes the lease for key. It returns an error matching apperrors.ErrConflict
	// when another holder has it. The returned Lease must be released by the caller.
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

// Lease is a held lock.
type Lease interface {
	Release(ctx context.Context) error
}

func conflict(key string) error {
	return fmt.Errorf("job %q is already running: %w", key, apperrors.ErrConflict)
}
