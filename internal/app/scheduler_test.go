package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingCompleter struct {
	calls atomic.Int32
	err   error
}

func (c *countingCompleter) CompletePastBookings(context.Context) (int64, error) {
	c.calls.Add(1)
	return 1, c.err
}

type countingPruner struct {
	calls atomic.Int32
}

func (p *countingPruner) PruneIdle(time.Duration) int {
	p.calls.Add(1)
	return 0
}

func TestScheduler_RunsJobsUntilStopped(t *testing.T) {
	completer := &countingCompleter{}
	pruner := &countingPruner{}

	s := NewScheduler(completer, pruner, zap.NewNop())
	s.completionInterval = 10 * time.Millisecond
	s.pruneInterval = 10 * time.Millisecond

	s.Start(context.Background())

	assert.Eventually(t, func() bool {
		return completer.calls.Load() >= 3 && pruner.calls.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()

	stopped := completer.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, completer.calls.Load())
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	completer := &countingCompleter{err: errors.New("db down")}
	s := NewScheduler(completer, &countingPruner{}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancel")
	}
	assert.GreaterOrEqual(t, completer.calls.Load(), int32(1))
}
