package pkgroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 10

// ErrPanic is reported by a Group when one of its tasks panicked.
var ErrPanic = errors.New("task panicked")

// Manager runs functions in goroutines with a configurable concurrency limit.
//
// It collects errors returned by tasks and can be waited on using Wait.
type Manager struct {
	mu   sync.Mutex
	errs []error
	wg   *sync.WaitGroup
	sema chan struct{}
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	return &Manager{
		wg:   &sync.WaitGroup{},
		sema: make(chan struct{}, maxGoroutine), // Semaphore to limit goroutines
	}
}

// Go schedules a function to run in a goroutine, blocking until a slot is
// free. If ctx is canceled first, the function is not run.
func (g *Manager) Go(pCtx context.Context, f func(ctx context.Context) error) {
	g.spawn(pCtx, g.wg, f, func(err error, panicked bool) {
		if err == nil || panicked {
			return
		}
		g.mu.Lock()
		g.errs = append(g.errs, err)
		g.mu.Unlock()
	})
}

// Wait blocks until all scheduled goroutines finish and returns any collected errors.
func (g *Manager) Wait() error {
	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	return errors.Join(g.errs...)
}

// Group returns a task group bounded by this Manager's limit. Each group
// is awaited on its own, so a request can fan out and join without waiting
// for unrelated work.
func (g *Manager) Group() *Group {
	return &Group{m: g}
}

func (g *Manager) spawn(pCtx context.Context, wg *sync.WaitGroup, f func(ctx context.Context) error, done func(err error, panicked bool)) {
	select {
	case g.sema <- struct{}{}: // Acquire a semaphore slot
	case <-pCtx.Done():
		slog.WarnContext(pCtx, "goroutine canceled before start", "because", pCtx.Err())
		done(pCtx.Err(), false)
		return
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			<-g.sema // Release semaphore slot

			if rvr := recover(); rvr != nil {
				stack := debug.Stack()
				slog.ErrorContext(pCtx, "panic occurred in goroutine", "because", rvr, "stack", string(stack))
				done(fmt.Errorf("%w: %v", ErrPanic, rvr), true)
			}
		}()

		select {
		case <-pCtx.Done():
			slog.WarnContext(pCtx, "goroutine canceled", "because", pCtx.Err())
			done(pCtx.Err(), false)
		default:
			done(f(pCtx), false)
		}
	}()
}

// Group is a scoped set of tasks sharing a Manager's concurrency limit.
type Group struct {
	m    *Manager
	wg   sync.WaitGroup
	mu   sync.Mutex
	errs []error
}

// Go schedules f in the group.
func (gr *Group) Go(ctx context.Context, f func(ctx context.Context) error) {
	gr.m.spawn(ctx, &gr.wg, f, func(err error, _ bool) {
		if err == nil {
			return
		}
		gr.mu.Lock()
		gr.errs = append(gr.errs, err)
		gr.mu.Unlock()
	})
}

// Wait blocks until every task in the group finished. Unlike Manager.Wait,
// panics are reported as errors wrapping ErrPanic.
func (gr *Group) Wait() error {
	gr.wg.Wait()

	gr.mu.Lock()
	defer gr.mu.Unlock()

	return errors.Join(gr.errs...)
}
