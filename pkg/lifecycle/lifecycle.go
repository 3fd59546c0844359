// Package lifecycle coordinates subsystem startup and drain across the
// process: startup hooks gate readiness, shutdown hooks run on context
// cancellation and are waited on up to a deadline.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ReadinessChecker reports whether a subsystem can serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator owns the process-wide context and the startup/shutdown hook
// sets. All registration must happen before WaitForStartup.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup

	mu    sync.RWMutex
	ready bool
}

// New returns a Coordinator whose context lives until Shutdown.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{ctx: ctx, cancel: cancel}
}

// Context is cancelled when Shutdown begins. Long-running subsystems select
// on it.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn concurrently; readiness waits for all startup hooks.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown runs fn concurrently. Hooks must block on <-Context().Done()
// before cleaning up, so registering is safe at any point before Shutdown.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// Ready reports whether startup has completed.
func (c *Coordinator) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// WaitForStartup blocks until every startup hook returns, then flips the
// readiness flag.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.mu.Lock()
	c.ready = true
	c.mu.Unlock()
}

// Shutdown cancels the context and waits for the shutdown hooks, erroring
// if they have not drained within timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	drained := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
