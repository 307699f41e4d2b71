package automation

import (
	"context"
	"time"

	"github.com/fathima-sithara/user-auth-service/internal/repository"
	"go.uber.org/zap"
)

// RemoveUnverifiedAccounts periodically deletes unverified accounts older
// than maxAge. Blocks until ctx is cancelled; run it in its own goroutine.
func RemoveUnverifiedAccounts(
	ctx context.Context,
	users repository.UserRepository,
	maxAge time.Duration,
	interval time.Duration,
	logger *zap.SugaredLogger,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-maxAge)
			n, err := users.DeleteStaleUnverified(ctx, cutoff)
			if err != nil {
				logger.Errorw("failed to remove stale unverified accounts", "error", err)
				continue
			}
			if n > 0 {
				logger.Infow("removed stale unverified accounts", "count", n)
			}
		}
	}
}
