package view

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"crowdfund-client/internal/credential"
	"crowdfund-client/internal/model"
	"crowdfund-client/internal/session"
)

const DefaultRedirectDelay = 1200 * time.Millisecond

type unmounter interface {
	Unmount()
}

// Gatekeeper owns the screen slots. At most one screen instance is mounted
// per slot; mounting a new one discards the previous instance.
type Gatekeeper struct {
	resolver      *session.Resolver
	store         *credential.Store
	nav           Navigator
	redirectDelay time.Duration
	logger        *slog.Logger

	mu    sync.Mutex
	slots map[string]unmounter
}

type Option func(*Gatekeeper)

func WithRedirectDelay(d time.Duration) Option {
	return func(g *Gatekeeper) {
		if d >= 0 {
			g.redirectDelay = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gatekeeper) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func NewGatekeeper(resolver *session.Resolver, store *credential.Store, nav Navigator, opts ...Option) *Gatekeeper {
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	g := &Gatekeeper{
		resolver:      resolver,
		store:         store,
		nav:           nav,
		redirectDelay: DefaultRedirectDelay,
		logger:        slog.Default(),
		slots:         make(map[string]unmounter),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Screen describes one screen: its slot, how it loads its data and whether
// the loaded data requires an authorization check.
type Screen[T any] struct {
	Name string

	// Fetch loads the screen data. A nil Fetch makes the screen Ready as soon
	// as the session resolves. SessionFrom(ctx) gives the mounted session.
	Fetch func(ctx context.Context) (T, error)

	// Authorize, when set, must accept the fetched data for the screen to
	// become Ready. A refusal yields Forbidden.
	Authorize func(data T, state session.State) bool

	// FailureMessage replaces the message of transport failures.
	FailureMessage string
}

// Mount resolves the session and starts the screen. nav is the user handed
// over by the previous screen, if any.
func Mount[T any](ctx context.Context, g *Gatekeeper, screen Screen[T], nav *model.UserProfile) *Instance[T] {
	inst := newInstance(g, screen)
	g.replace(screen.Name, inst)

	// Subscribe before resolving so a clear racing with the mount is seen.
	events, unsubscribe := g.store.Subscribe()
	inst.mu.Lock()
	inst.unsubscribe = unsubscribe
	inst.mu.Unlock()

	inst.session = g.resolver.Resolve(nav)
	if !inst.session.Active() {
		inst.finish(State[T]{Status: Unauthenticated, Message: MsgLoginRequired})
		inst.stopWatching()
		return inst
	}

	go inst.watch(events)

	if screen.Fetch == nil {
		inst.finish(State[T]{Status: Ready})
		return inst
	}

	fetchCtx, cancel := context.WithCancel(context.WithValue(ctx, sessionKey{}, inst.session))
	inst.mu.Lock()
	inst.cancel = cancel
	inst.mu.Unlock()

	go inst.load(fetchCtx)
	return inst
}

type sessionKey struct{}

// SessionFrom returns the session a screen was mounted with, from inside its
// Fetch. Outside a fetch it reports Anonymous.
func SessionFrom(ctx context.Context) session.State {
	state, _ := ctx.Value(sessionKey{}).(session.State)
	return state
}

// Close unmounts every mounted screen.
func (g *Gatekeeper) Close() {
	g.mu.Lock()
	slots := g.slots
	g.slots = make(map[string]unmounter)
	g.mu.Unlock()

	for _, s := range slots {
		s.Unmount()
	}
}

// Navigate forwards to the gatekeeper's navigator.
func (g *Gatekeeper) Navigate(route string) {
	g.nav.Navigate(route)
}

func (g *Gatekeeper) replace(slot string, next unmounter) {
	g.mu.Lock()
	prev := g.slots[slot]
	g.slots[slot] = next
	g.mu.Unlock()

	if prev != nil {
		prev.Unmount()
	}
}

func (g *Gatekeeper) release(slot string, inst unmounter) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.slots[slot] == inst {
		delete(g.slots, slot)
	}
}
