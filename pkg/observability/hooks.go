// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout planning, per-container compositing, and
// frame playback.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPlannerHooks(&myPlannerHooks{})
//	    observability.SetPlaybackHooks(&myPlaybackHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Planner().OnPlanStart(ctx, w, h, minCount, maxCount)
//	// ... place containers ...
//	observability.Planner().OnPlanComplete(ctx, placed, requested, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Planner Hooks
// =============================================================================

// PlannerHooks receives events from the layout planner.
type PlannerHooks interface {
	// OnPlanStart records the beginning of a planning call.
	OnPlanStart(ctx context.Context, width, height, minCount, maxCount int)

	// OnPlanComplete records the end of a planning call. placed may be less
	// than requested when the attempt budget was exhausted.
	OnPlanComplete(ctx context.Context, placed, requested int, duration time.Duration)
}

// =============================================================================
// Compositor Hooks
// =============================================================================

// CompositorHooks receives events from per-container frame compositing.
type CompositorHooks interface {
	// OnComposite records one container composition. fallback is true when
	// the compositor substituted a black tile for a degenerate input.
	OnComposite(ctx context.Context, container int, duration time.Duration, fallback bool)
}

// =============================================================================
// Playback Hooks
// =============================================================================

// PlaybackHooks receives events from the frame playback driver.
type PlaybackHooks interface {
	// OnFrameStart records the beginning of a frame render pass.
	OnFrameStart(ctx context.Context, containers int)

	// OnFrameComplete records a finished frame render pass.
	OnFrameComplete(ctx context.Context, containers int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPlannerHooks is a no-op implementation of PlannerHooks.
type NoopPlannerHooks struct{}

func (NoopPlannerHooks) OnPlanStart(context.Context, int, int, int, int)         {}
func (NoopPlannerHooks) OnPlanComplete(context.Context, int, int, time.Duration) {}

// NoopCompositorHooks is a no-op implementation of CompositorHooks.
type NoopCompositorHooks struct{}

func (NoopCompositorHooks) OnComposite(context.Context, int, time.Duration, bool) {}

// NoopPlaybackHooks is a no-op implementation of PlaybackHooks.
type NoopPlaybackHooks struct{}

func (NoopPlaybackHooks) OnFrameStart(context.Context, int)                   {}
func (NoopPlaybackHooks) OnFrameComplete(context.Context, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	plannerHooks    PlannerHooks    = NoopPlannerHooks{}
	compositorHooks CompositorHooks = NoopCompositorHooks{}
	playbackHooks   PlaybackHooks   = NoopPlaybackHooks{}
	hooksMu         sync.RWMutex
)

// SetPlannerHooks registers custom planner hooks.
// This should be called once at application startup before any planning calls.
func SetPlannerHooks(h PlannerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		plannerHooks = h
	}
}

// SetCompositorHooks registers custom compositor hooks.
// This should be called once at application startup before any compositing.
func SetCompositorHooks(h CompositorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		compositorHooks = h
	}
}

// SetPlaybackHooks registers custom playback hooks.
// This should be called once at application startup before playback begins.
func SetPlaybackHooks(h PlaybackHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		playbackHooks = h
	}
}

// Planner returns the registered planner hooks.
func Planner() PlannerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return plannerHooks
}

// Compositor returns the registered compositor hooks.
func Compositor() CompositorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return compositorHooks
}

// Playback returns the registered playback hooks.
func Playback() PlaybackHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return playbackHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	plannerHooks = NoopPlannerHooks{}
	compositorHooks = NoopCompositorHooks{}
	playbackHooks = NoopPlaybackHooks{}
}
