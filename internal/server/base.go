// SPDX-License-Identifier: MPL-2.0

package server

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// base carries the lifecycle state machine the preview server embeds.
//
// A server instance is single-use: once stopped or failed, create a new one.
type base struct {
	// State management (atomic for lock-free reads)
	state atomic.Int32

	// State transition protection
	stateMu sync.Mutex

	// Lifecycle management
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startedCh chan struct{}
	errCh     chan error
	lastErr   error
}

func newBase() *base {
	b := &base{
		startedCh: make(chan struct{}),
		errCh:     make(chan error, 1),
	}
	b.state.Store(int32(StateCreated))
	return b
}

// State returns the current server state (atomic, lock-free read).
func (b *base) State() State {
	return State(b.state.Load())
}

// IsRunning returns true if the server is in the Running state.
func (b *base) IsRunning() bool {
	return b.State() == StateRunning
}

// Err returns a channel for receiving async errors.
func (b *base) Err() <-chan error {
	return b.errCh
}

// LastError returns the error that caused the Failed state, or nil.
func (b *base) LastError() error {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()
	return b.lastErr
}

// transitionToStarting attempts to transition from Created to Starting.
// Must be called at the beginning of Start().
func (b *base) transitionToStarting(ctx context.Context) error {
	// Check for an already-cancelled context BEFORE any setup. This prevents
	// a TOCTOU race where the serve goroutine could transition to
	// StateRunning before the cancelled context is detected.
	select {
	case <-ctx.Done():
		b.transitionToFailed(fmt.Errorf("context cancelled before start: %w", ctx.Err()))
		return b.lastErr
	default:
	}

	// Atomic state transition: Created -> Starting
	if !b.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		currentState := State(b.state.Load())
		return fmt.Errorf("cannot start server in state %s", currentState)
	}

	// Create internal context for lifecycle management
	b.ctx, b.cancel = context.WithCancel(context.Background())

	return nil
}

// transitionToRunning marks the server as running and closes the started
// channel to signal readiness.
func (b *base) transitionToRunning() {
	if b.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(b.startedCh)
	}
}

// transitionToFailed marks the server as failed with the given error.
// Can be called from Starting state on initialization failure.
func (b *base) transitionToFailed(err error) {
	b.stateMu.Lock()
	b.lastErr = err
	b.stateMu.Unlock()

	b.state.Store(int32(StateFailed))

	if b.cancel != nil {
		b.cancel()
	}

	// Send error to channel for Err() consumers (non-blocking)
	select {
	case b.errCh <- err:
	default:
	}
}

// transitionToStopping attempts to transition to Stopping state.
// Returns true if the transition occurred, false if already stopped/stopping.
func (b *base) transitionToStopping() bool {
	for {
		currentState := State(b.state.Load())
		switch currentState {
		case StateStopped, StateFailed:
			return false // Already stopped
		case StateCreated:
			if b.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				return false // Never started, just mark stopped
			}
			continue // State changed, retry
		case StateStopping:
			return false // Already stopping
		case StateStarting, StateRunning:
			if !b.state.CompareAndSwap(int32(currentState), int32(StateStopping)) {
				continue // State changed, retry
			}
			// Cancel context to signal goroutines
			if b.cancel != nil {
				b.cancel()
			}
			return true
		default:
			return false
		}
	}
}

// transitionToStopped marks the server as fully stopped.
// Must be called after all goroutines have exited.
func (b *base) transitionToStopped() {
	b.state.Store(int32(StateStopped))
}

// WaitForReady blocks until the server is ready or the context is cancelled.
func (b *base) WaitForReady(ctx context.Context) error {
	select {
	case <-b.startedCh:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for server ready: %w", ctx.Err())
	}
}

// waitForShutdown blocks until all tracked goroutines have completed.
func (b *base) waitForShutdown() {
	b.wg.Wait()
}

// sendError sends an error to the error channel (non-blocking).
// If the channel is full, the error is dropped.
func (b *base) sendError(err error) {
	select {
	case b.errCh <- err:
	default:
	}
}

// StartedChannel returns the started channel for custom waiting logic.
// The channel is closed when the server transitions to Running.
func (b *base) StartedChannel() <-chan struct{} {
	return b.startedCh
}
