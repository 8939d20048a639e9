package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/comteq/jokes/internal/collection"
	"github.com/comteq/jokes/internal/state"
)

// maxBackoff caps the retry delay after consecutive failed refreshes.
const maxBackoff = 30 * time.Second

// loader is the slice of collection.Syncer the poller drives.
type loader interface {
	Load(ctx context.Context) (state.Status, error)
}

// StartPoller launches a background goroutine that reloads the collection
// every interval, backing off exponentially while loads fail. Loads share
// the syncer's queue with user intents. It returns immediately.
func StartPoller(ctx context.Context, s loader, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go runPoller(ctx, s, interval)
}

func runPoller(ctx context.Context, s loader, interval time.Duration) {
	timer := time.NewTimer(interval)
	defer timer.Stop()

	// Failed refreshes in a row. User intents do not count.
	failures := 0

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		st, err := s.Load(ctx)
		if err != nil {
			if errors.Is(err, collection.ErrStopped) || ctx.Err() != nil {
				return
			}
			log.Printf("refresh: %v", err)
		}

		if st.Phase == state.PhaseFailed {
			failures++
		} else if err == nil {
			failures = 0
		}
		delay := calculateBackoff(failures, interval)
		if st.Phase == state.PhaseFailed {
			log.Printf("refresh failed (%d in a row), next attempt in %s: %s", failures, delay, st.Message)
		}
		timer.Reset(delay)
	}
}

// calculateBackoff returns base doubled once per consecutive failure, capped
// at maxBackoff. A base already above the cap is returned unchanged.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if base >= maxBackoff {
		return base
	}
	delay := base
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
