package view

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"crowdfund-client/internal/event"
	"crowdfund-client/internal/session"
	"crowdfund-client/pkg/apierror"
)

// Instance is one mounted screen. Its state only moves forward: out of
// Loading once, and to Unauthenticated when the session is cleared.
type Instance[T any] struct {
	ID string

	gk      *Gatekeeper
	screen  Screen[T]
	session session.State

	mu          sync.Mutex
	state       State[T]
	mounted     bool
	done        chan struct{}
	doneOnce    sync.Once
	cancel      context.CancelFunc
	unsubscribe func()
	redirect    *time.Timer
}

func newInstance[T any](g *Gatekeeper, screen Screen[T]) *Instance[T] {
	return &Instance[T]{
		ID:      uuid.NewString(),
		gk:      g,
		screen:  screen,
		state:   State[T]{Status: Loading},
		mounted: true,
		done:    make(chan struct{}),
	}
}

func (i *Instance[T]) State() State[T] {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// Session is the session state the screen was mounted with.
func (i *Instance[T]) Session() session.State {
	return i.session
}

// Done is closed once the screen leaves Loading or is unmounted.
func (i *Instance[T]) Done() <-chan struct{} {
	return i.done
}

// Wait blocks until Done or until ctx ends.
func (i *Instance[T]) Wait(ctx context.Context) (State[T], error) {
	select {
	case <-i.done:
		return i.State(), nil
	case <-ctx.Done():
		return i.State(), ctx.Err()
	}
}

func (i *Instance[T]) Mounted() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.mounted
}

// Unmount cancels the pending fetch and any scheduled redirect. Results that
// arrive afterwards are dropped.
func (i *Instance[T]) Unmount() {
	i.mu.Lock()
	if !i.mounted {
		i.mu.Unlock()
		return
	}
	i.mounted = false
	cancel := i.cancel
	if i.redirect != nil {
		i.redirect.Stop()
	}
	i.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	i.stopWatching()
	i.closeDone()
	i.gk.release(i.screen.Name, i)
}

type SubmitOptions struct {
	SuccessMessage string
	// RedirectTo, when set, is navigated to after the gatekeeper's redirect
	// delay unless the screen is unmounted first.
	RedirectTo string
}

type SubmitResult struct {
	OK      bool
	Message string
	Err     error
}

// Submit runs a mutation on behalf of the screen. It reports the outcome
// without reloading the screen data.
func (i *Instance[T]) Submit(ctx context.Context, action func(ctx context.Context) error, opts SubmitOptions) SubmitResult {
	if !i.Mounted() {
		return SubmitResult{Message: ErrUnmounted.Error(), Err: ErrUnmounted}
	}

	if err := action(ctx); err != nil {
		i.gk.logger.Debug("submit failed", "screen", i.screen.Name, "error", err)
		return SubmitResult{Message: apierror.Message(err), Err: err}
	}

	if opts.RedirectTo != "" {
		i.scheduleRedirect(opts.RedirectTo)
	}
	return SubmitResult{OK: true, Message: opts.SuccessMessage}
}

func (i *Instance[T]) scheduleRedirect(route string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.mounted {
		return
	}
	if i.redirect != nil {
		i.redirect.Stop()
	}
	i.redirect = time.AfterFunc(i.gk.redirectDelay, func() {
		if i.Mounted() {
			i.gk.Navigate(route)
		}
	})
}

func (i *Instance[T]) load(ctx context.Context) {
	data, err := i.screen.Fetch(ctx)
	if err != nil {
		i.finish(i.failure(err))
		return
	}
	if i.screen.Authorize != nil && !i.screen.Authorize(data, i.session) {
		i.finish(State[T]{Status: Forbidden, Message: MsgForbidden})
		return
	}
	i.finish(State[T]{Status: Ready, Data: data})
}

func (i *Instance[T]) failure(err error) State[T] {
	kind, ok := apierror.KindOf(err)
	if !ok {
		return State[T]{Status: Errored, Message: err.Error()}
	}

	switch kind {
	case apierror.KindNotFound:
		return State[T]{Status: NotFound, Message: MsgNotFound}
	case apierror.KindUnauthenticated, apierror.KindAuthRejected:
		return State[T]{Status: Unauthenticated, Message: apierror.Message(err)}
	case apierror.KindServerUnavailable:
		if i.screen.FailureMessage != "" {
			return State[T]{Status: Errored, Message: i.screen.FailureMessage}
		}
	}
	return State[T]{Status: Errored, Message: apierror.Message(err)}
}

func (i *Instance[T]) watch(events <-chan event.Event) {
	for ev := range events {
		if ev.Type != event.TypeSessionCleared {
			continue
		}
		i.finish(State[T]{Status: Unauthenticated, Message: MsgLoginRequired})
		i.stopWatching()
		return
	}
}

// finish applies a transition out of Loading, or the session-cleared
// transition from any state. Everything else is dropped.
func (i *Instance[T]) finish(next State[T]) {
	i.mu.Lock()
	if !i.mounted {
		i.mu.Unlock()
		return
	}
	current := i.state.Status
	allowed := current == Loading || (next.Status == Unauthenticated && current != Unauthenticated)
	if !allowed {
		i.mu.Unlock()
		return
	}
	i.state = next
	if next.Status == Unauthenticated && i.redirect != nil {
		i.redirect.Stop()
	}
	i.mu.Unlock()

	i.gk.logger.Debug("screen state", "screen", i.screen.Name, "instance", i.ID, "from", current, "to", next.Status)
	i.closeDone()
}

func (i *Instance[T]) stopWatching() {
	i.mu.Lock()
	unsubscribe := i.unsubscribe
	i.unsubscribe = nil
	i.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (i *Instance[T]) closeDone() {
	i.doneOnce.Do(func() { close(i.done) })
}
