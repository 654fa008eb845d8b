package otp

import (
	"context"
	"time"

	"github.com/priyanshinegi05/first-thought-api/internal/logging"
)

// RunSweeper periodically reclaims expired entries until ctx is
// cancelled. Correctness does not depend on it: expiry is also checked
// at verification time.
func RunSweeper(ctx context.Context, store Store, interval time.Duration, logger *logging.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Sweep(ctx); err != nil {
				logger.Warn("failed to sweep expired verifications", "error", err.Error())
			}
		}
	}
}
