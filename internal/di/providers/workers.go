package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/readcircle/readcircle-server/internal/logger"
	"github.com/readcircle/readcircle-server/internal/service"
)

// sessionCleanupInterval is how often expired refresh sessions are purged.
const sessionCleanupInterval = time.Hour

// SessionCleanupJob periodically removes expired refresh sessions.
type SessionCleanupJob struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	<-j.done
	return nil
}

// ProvideSessionCleanupJob starts the background session cleanup loop.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	authService := do.MustInvoke[*service.AuthService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	job := &SessionCleanupJob{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(job.done)

		ticker := time.NewTicker(sessionCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := authService.CleanupExpiredSessions(ctx)
				if err != nil {
					log.Warn("Session cleanup failed", "error", err)
					continue
				}
				if removed > 0 {
					log.Info("Session cleanup complete", "removed", removed)
				}
			}
		}
	}()

	log.Info("Session cleanup job started", "interval", sessionCleanupInterval)

	return job, nil
}
