package main

import (
	"context"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingInvalidator struct {
	n atomic.Int32
}

func (c *countingInvalidator) Invalidate() { c.n.Add(1) }

func TestReloadOnSignal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	inv := &countingInvalidator{}
	sig := make(chan os.Signal)
	done := make(chan struct{})

	go func() {
		reloadOnSignal(ctx, inv, sig)
		close(done)
	}()

	sig <- syscall.SIGHUP
	sig <- syscall.SIGHUP
	assert.Eventually(t, func() bool { return inv.n.Load() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reloadOnSignal did not return after cancel")
	}
}
