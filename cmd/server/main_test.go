package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/scoped-auth/internal/logging"
)

func TestBackground_WaitJoinsWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var finished atomic.Bool
	var b background
	b.goRun(ctx, logging.Nop{}, "slow worker", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
		return ctx.Err()
	})

	cancel()
	b.wait()
	assert.True(t, finished.Load(), "wait returned before the worker finished")
}

func TestBackground_WorkerErrorDoesNotBlockWait(t *testing.T) {
	var b background
	b.goRun(context.Background(), logging.Nop{}, "failing worker", func(context.Context) error {
		return errors.New("broker unreachable")
	})

	done := make(chan struct{})
	go func() {
		b.wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("wait did not return after the worker failed")
	}
}
