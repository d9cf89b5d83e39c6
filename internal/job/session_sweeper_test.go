package job

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) Sweep() int {
	s.calls.Add(1)
	return 1
}

func TestSessionSweeper_SweepsUntilCancelled(t *testing.T) {
	store := &countingSweeper{}
	j := NewSessionSweeper(store, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for store.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("sweeper did not run")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not exit on cancel")
	}
}

func TestSessionSweeper_Stop(t *testing.T) {
	j := NewSessionSweeper(&countingSweeper{}, time.Hour)

	done := make(chan struct{})
	go func() {
		j.Start(context.Background())
		close(done)
	}()

	j.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not exit on Stop")
	}
}
