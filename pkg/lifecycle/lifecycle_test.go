package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/attestd/attest/pkg/lifecycle"
)

func TestReadiness(t *testing.T) {
	lc := lifecycle.New()
	if lc.Ready() {
		t.Error("ready before WaitForStartup")
	}

	lc.WaitForStartup()
	if !lc.Ready() {
		t.Error("not ready after WaitForStartup")
	}
}

func TestStartupHooksRunConcurrently(t *testing.T) {
	lc := lifecycle.New()

	var started atomic.Int32
	for range 4 {
		lc.OnStartup(func() {
			started.Add(1)
		})
	}

	lc.WaitForStartup()

	if got := started.Load(); got != 4 {
		t.Errorf("startup hooks: got %d, want 4", got)
	}
}

func TestShutdownDrainsHooks(t *testing.T) {
	lc := lifecycle.New()

	var drained atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		drained.Store(true)
	})

	lc.WaitForStartup()

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if !drained.Load() {
		t.Error("shutdown hook did not run")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	release := make(chan struct{})
	lc.OnShutdown(func() {
		<-release
	})
	t.Cleanup(func() { close(release) })

	lc.WaitForStartup()

	if err := lc.Shutdown(20 * time.Millisecond); err == nil {
		t.Error("expected timeout error from a hook that never drains")
	}
}

func TestContextCancelledOnShutdown(t *testing.T) {
	lc := lifecycle.New()
	lc.WaitForStartup()

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	select {
	case <-lc.Context().Done():
	default:
		t.Error("context not cancelled after shutdown")
	}
}
