package job

import (
	"context"
	"log"
	"time"
)

// Sweeper is implemented by session stores that need explicit expiry.
type Sweeper interface {
	Sweep() int
}

// SessionSweeper periodically purges expired HTTP sessions from an
// in-process store. Redis-backed sessions expire on their own and need no
// sweeper.
type SessionSweeper struct {
	store    Sweeper
	stopCh   chan struct{}
	interval time.Duration
}

func NewSessionSweeper(store Sweeper, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		store:    store,
		stopCh:   make(chan struct{}),
		interval: interval,
	}
}

func (j *SessionSweeper) Start(ctx context.Context) {
	log.Println("[SessionSweeper] started")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[SessionSweeper] context done, exiting")
			return
		case <-j.stopCh:
			log.Println("[SessionSweeper] stopped")
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *SessionSweeper) Stop() {
	close(j.stopCh)
}

func (j *SessionSweeper) sweep() {
	if removed := j.store.Sweep(); removed > 0 {
		log.Printf("[SessionSweeper] removed %d expired sessions", removed)
	}
}
