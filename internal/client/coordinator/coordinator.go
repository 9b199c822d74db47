// Package coordinator decides whether the authenticated view or the login
// view is on screen, based on the auth event stream.
//
// An event carrying a session shows the authenticated view at once. An
// explicit sign-out shows the login view at once. Any other empty event is
// treated as possibly transient: the coordinator waits for the debounce
// delay, asks the auth service again and only then decides. Newer events
// replace a pending recheck.
package coordinator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/expressdata/internal/client/models"
	"github.com/dmitrijs2005/expressdata/internal/debounce"
	"github.com/dmitrijs2005/expressdata/internal/logging"
)

const DefaultDelay = 300 * time.Millisecond

// Source is the authoritative session provider.
type Source interface {
	CurrentSession(ctx context.Context) (*models.Session, error)
	RestoreFromStore(ctx context.Context) (*models.Session, error)
	Subscribe(fn func(models.AuthEvent)) (unsubscribe func())
}

type Presenter interface {
	ShowAuthenticated(ctx context.Context, s *models.Session)
	ShowLogin(ctx context.Context)
	HideBootOverlay(ctx context.Context)
}

type Coordinator struct {
	src  Source
	view Presenter
	log  logging.Logger
	slot *debounce.Slot

	// gen advances on every decision so a recheck that was already running
	// when a newer event arrived does not render.
	gen atomic.Uint64

	overlay sync.Once

	mu          sync.Mutex
	ctx         context.Context
	unsubscribe func()
}

func New(src Source, view Presenter, log logging.Logger, delay time.Duration, opts ...debounce.Option) *Coordinator {
	return &Coordinator{
		src:  src,
		view: view,
		log:  log.With("component", "coordinator"),
		slot: debounce.New(delay, opts...),
		ctx:  context.Background(),
	}
}

// Start subscribes to auth events, then queries the current session once,
// falling back to the saved session, and feeds the result through the same
// policy as any event.
func (c *Coordinator) Start(ctx context.Context) {
	c.mu.Lock()
	c.ctx = ctx
	c.unsubscribe = c.src.Subscribe(c.Handle)
	c.mu.Unlock()

	s, err := c.src.CurrentSession(ctx)
	if err != nil {
		c.log.Warn(ctx, "initial session query failed", "error", err)
	}
	if !s.HasUser() {
		restored, err := c.src.RestoreFromStore(ctx)
		if err != nil {
			c.log.Warn(ctx, "session restore failed", "error", err)
		}
		if restored.HasUser() {
			s = restored
		}
	}

	c.Handle(models.AuthEvent{Kind: models.EventInitialSession, Session: s})
}

// Stop unsubscribes and drops any pending recheck.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	c.slot.Cancel()
	c.gen.Add(1)
}

func (c *Coordinator) baseContext() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctx
}

// Handle applies the display policy to one event.
func (c *Coordinator) Handle(ev models.AuthEvent) {
	ctx := c.baseContext()
	c.log.Debug(ctx, "auth event", "kind", string(ev.Kind), "has_user", ev.Session.HasUser())

	switch {
	case ev.Session.HasUser():
		c.slot.Cancel()
		c.gen.Add(1)
		c.view.ShowAuthenticated(ctx, ev.Session)
		c.resolved(ctx)

	case ev.ExplicitSignOut():
		c.slot.Cancel()
		c.gen.Add(1)
		c.view.ShowLogin(ctx)
		c.resolved(ctx)

	default:
		gen := c.gen.Add(1)
		c.slot.Schedule(func() { c.recheck(ctx, gen) })
	}
}

// recheck renders the confirmed state. A superseded recheck renders nothing
// and leaves the boot overlay to whichever decision replaced it.
func (c *Coordinator) recheck(ctx context.Context, gen uint64) {
	s, err := c.src.CurrentSession(ctx)
	if c.gen.Load() != gen {
		c.log.Debug(ctx, "recheck superseded")
		return
	}
	if err != nil {
		c.log.Error(ctx, "session recheck failed", "error", err)
		c.resolved(ctx)
		return
	}

	if s.HasUser() {
		c.view.ShowAuthenticated(ctx, s)
	} else {
		c.log.Info(ctx, "signed out (confirmed)")
		c.view.ShowLogin(ctx)
	}
	c.resolved(ctx)
}

func (c *Coordinator) resolved(ctx context.Context) {
	c.overlay.Do(func() { c.view.HideBootOverlay(ctx) })
}

// Pending reports whether a recheck is waiting to fire.
func (c *Coordinator) Pending() bool {
	return c.slot.Pending()
}
