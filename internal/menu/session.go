package menu

import (
	"sync"
	"sync/atomic"
	"time"

	"menugrid.gg/internal/host"
)

// Session is the per-user menu state machine. It tracks the currently open
// view, stamps every open with a fresh generation so late events can be
// told apart from live ones, and owns the refresh heartbeat.
//
// Transitions (open/close) only ever run on the user's owning context, and
// only one such context is active per user at a time, so transitions are
// serialized without a transition lock. The mutex below exists for the
// paths that legitimately run elsewhere: disconnect teardown and heartbeat
// bookkeeping.
type Session struct {
	user host.UserID
	svc  *Service

	// generation increments on every open and is never reused. Read from
	// any context by the dispatcher's staleness check.
	generation atomic.Uint64

	mu           sync.Mutex
	view         host.View
	cursorPolicy CursorPolicy
	cacheKey     string
	refresh      time.Duration
	willReopen   bool
	onOpen       func(*Actions)
	onClose      func(*Actions, bool)
	onClick      func(*Actions, *host.ClickEvent)
	onDrag       func(*Actions, *host.DragEvent)
	render       func(*Actions)
	hb           *heartbeat
}

func newSession(svc *Service, user host.UserID) *Session {
	return &Session{svc: svc, user: user}
}

func (s *Session) User() host.UserID { return s.user }

// Generation returns the token stamped into the most recently opened view.
func (s *Session) Generation() uint64 { return s.generation.Load() }

// View returns the currently open view, or nil when the session is closed.
func (s *Session) View() host.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Session) IsOpen() bool { return s.View() != nil }

func (s *Session) SetCursorPolicy(p CursorPolicy) {
	s.mu.Lock()
	s.cursorPolicy = p
	s.mu.Unlock()
}

// SetGlobalCacheKey binds this session's shared reads/writes to one global
// cache entry. Empty unbinds.
func (s *Session) SetGlobalCacheKey(key string) {
	s.mu.Lock()
	s.cacheKey = key
	s.mu.Unlock()
}

// SharedValue reads the global cache entry this session is bound to.
func (s *Session) SharedValue() (any, bool) {
	s.mu.Lock()
	key := s.cacheKey
	s.mu.Unlock()
	if key == "" {
		return nil, false
	}
	return s.svc.cache.GetGlobal(key)
}

// SetSharedValue writes the global cache entry this session is bound to.
// A no-op when no cache key is set.
func (s *Session) SetSharedValue(v any) {
	s.mu.Lock()
	key := s.cacheKey
	s.mu.Unlock()
	if key != "" {
		s.svc.cache.PutGlobal(key, v)
	}
}

// SetLifecycleHooks replaces (never accumulates) the open/close callbacks.
func (s *Session) SetLifecycleHooks(onOpen func(*Actions), onClose func(*Actions, bool)) {
	s.mu.Lock()
	s.onOpen = onOpen
	s.onClose = onClose
	s.mu.Unlock()
}

// apply configures the session from a definition and opens its view.
// Owning context only. An already-open view is torn down first with
// willReopen=true under the outgoing template's callbacks.
func (s *Session) apply(d *Definition) {
	if s.View() != nil {
		s.finishClose(true)
	}

	s.mu.Lock()
	s.cursorPolicy = d.cursorPolicy
	s.cacheKey = d.cacheKey
	s.refresh = d.refresh
	s.onOpen = d.onOpen
	s.onClose = d.onClose
	s.onClick = d.onClick
	s.onDrag = d.onDrag
	s.render = d.render
	s.willReopen = false
	s.mu.Unlock()

	_ = s.Open(d.typ, d.title(s.user))
}

// Open advances the generation and asks the platform for a concrete view
// stamped with it. Owning context only; callers elsewhere must route
// through the scheduler (Definition.Open does). onOpen observes the
// finalized session configuration, then the render callback draws.
func (s *Session) Open(t Type, title string) error {
	if s.View() != nil {
		s.finishClose(true)
	}

	gen := s.generation.Add(1)
	v, err := t.instantiate(s.svc.platform, s.user, title, gen)
	if err != nil {
		s.svc.log.Printf("open view for %s: %v", s.user, err)
		return err
	}

	s.mu.Lock()
	s.view = v
	onOpen := s.onOpen
	render := s.render
	period := s.refresh
	s.mu.Unlock()

	if rec, ok := Capability[Recorder](s.svc); ok {
		rec.MenuOpened(s.user, gen, title)
	}

	a := s.actions(v, gen)
	if onOpen != nil {
		onOpen(a)
	}
	if render != nil {
		render(a)
	}
	if period > 0 {
		s.StartRefreshHeartbeat(period)
	}
	return nil
}

// Close requests a platform close of the current view. The request is
// always deferred to the next pass on the owning context: the platform may
// be mid-dispatch for this very view, and its grid must not be mutated
// inline. The resulting close event flows back through the dispatcher.
func (s *Session) Close() {
	s.svc.sched.RunEntityOwner(string(s.user), func() {
		s.mu.Lock()
		v := s.view
		s.mu.Unlock()
		if v != nil {
			s.svc.platform.CloseView(s.user, v)
		}
	})
}

// HandleClick runs the template's click callback. The dispatcher has
// already confirmed the event belongs to the current view and generation.
func (s *Session) HandleClick(ev *host.ClickEvent) {
	s.mu.Lock()
	v := s.view
	onClick := s.onClick
	s.mu.Unlock()
	if v == nil || v != ev.View {
		return
	}
	if rec, ok := Capability[Recorder](s.svc); ok {
		rec.MenuClicked(s.user, v.Generation(), ev.Slot)
	}
	if onClick != nil {
		onClick(s.actions(v, v.Generation()), ev)
	}
}

func (s *Session) HandleDrag(ev *host.DragEvent) {
	s.mu.Lock()
	v := s.view
	onDrag := s.onDrag
	s.mu.Unlock()
	if v == nil || v != ev.View {
		return
	}
	if onDrag != nil {
		onDrag(s.actions(v, v.Generation()), ev)
	}
}

// HandleClose finishes the current view's lifetime: fires onClose with the
// reopen flag, applies the cursor policy, cancels the heartbeat. Exactly
// one real close happens per generation; the dispatcher's view/generation
// checks ensure the platform's own late close for a replaced view never
// reaches here.
func (s *Session) HandleClose(willReopen bool) {
	s.finishClose(willReopen)
}

// PendingTransition reports whether a replacement open was requested for
// the current generation and has not yet run.
func (s *Session) PendingTransition() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.willReopen
}

// markTransition claims the single transition slot for generation gen.
// At most one transition per generation ever wins; later requests within
// the same open screen are dropped.
func (s *Session) markTransition(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation.Load() != gen || s.willReopen {
		return false
	}
	s.willReopen = true
	return true
}

func (s *Session) finishClose(willReopen bool) {
	s.mu.Lock()
	v := s.view
	s.view = nil
	onClose := s.onClose
	policy := s.cursorPolicy
	hb := s.hb
	s.hb = nil
	s.willReopen = false
	gen := s.generation.Load()
	s.mu.Unlock()

	if v == nil {
		return
	}
	if hb != nil {
		hb.cancel()
	}
	if onClose != nil {
		onClose(s.actions(v, gen), willReopen)
	}
	s.applyCursorPolicy(policy)
	if rec, ok := Capability[Recorder](s.svc); ok {
		rec.MenuClosed(s.user, gen, willReopen)
	}
}

func (s *Session) applyCursorPolicy(policy CursorPolicy) {
	p := s.svc.platform
	it := p.CursorItem(s.user)
	if it.Empty() {
		return
	}
	p.SetCursorItem(s.user, host.Item{})
	switch policy {
	case CursorReturn:
		p.GiveItem(s.user, it)
	case CursorDrop:
		p.DropItem(s.user, it)
	case CursorVoid:
	}
}

// StartRefreshHeartbeat re-renders the open view every period without
// advancing the generation, so in-flight events stay valid across a
// refresh. A prior heartbeat is cancelled first. Each tick re-resolves the
// user's owning context at schedule time; ownership may have migrated
// since the last tick.
func (s *Session) StartRefreshHeartbeat(period time.Duration) {
	s.mu.Lock()
	if s.hb != nil {
		s.hb.cancel()
		s.hb = nil
	}
	if period <= 0 {
		s.mu.Unlock()
		return
	}
	hb := &heartbeat{stop: make(chan struct{})}
	s.hb = hb
	s.mu.Unlock()

	gen := s.generation.Load()
	go func() {
		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-hb.stop:
				return
			case <-t.C:
				s.svc.sched.RunEntityOwner(string(s.user), func() {
					s.refreshTick(gen)
				})
			}
		}
	}()
}

func (s *Session) refreshTick(gen uint64) {
	s.mu.Lock()
	v := s.view
	render := s.render
	s.mu.Unlock()
	if v == nil || v.Generation() != gen || s.generation.Load() != gen {
		return
	}
	if render != nil {
		render(s.actions(v, gen))
	}
}

// Shutdown cancels the heartbeat and clears callback slots. Idempotent,
// and safe from any context: it never mutates live platform UI state (on
// the disconnect path the platform has already discarded the view).
func (s *Session) Shutdown() {
	s.mu.Lock()
	hb := s.hb
	s.hb = nil
	s.view = nil
	s.willReopen = false
	s.onOpen = nil
	s.onClose = nil
	s.onClick = nil
	s.onDrag = nil
	s.render = nil
	s.mu.Unlock()
	if hb != nil {
		hb.cancel()
	}
}

func (s *Session) actions(v host.View, gen uint64) *Actions {
	return &Actions{s: s, view: v, gen: gen}
}

type heartbeat struct {
	stop chan struct{}
	once sync.Once
}

// cancel is idempotent.
func (h *heartbeat) cancel() {
	h.once.Do(func() { close(h.stop) })
}
