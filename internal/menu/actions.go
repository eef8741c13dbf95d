package menu

import "menugrid.gg/internal/host"

// Actions is the facade handed to template callbacks. It is the only
// sanctioned way handler code may request a screen change: everything it
// schedules runs after the platform finishes dispatching the current
// event, on the user's owning context as resolved at that moment.
type Actions struct {
	s    *Session
	view host.View
	gen  uint64
}

func (a *Actions) User() host.UserID { return a.s.user }

// View is the view the triggering callback was invoked for. It may already
// be superseded by the time a deferred task runs; deferred code should
// re-check via Session.View.
func (a *Actions) View() host.View { return a.view }

func (a *Actions) Session() *Session { return a.s }

func (a *Actions) Service() *Service { return a.s.svc }

func (a *Actions) Cache() *Cache { return a.s.svc.cache }

// NextTick queues fn onto the next scheduling pass of the user's owning
// context.
func (a *Actions) NextTick(fn func()) {
	a.s.svc.sched.RunEntityOwner(string(a.s.user), fn)
}

// Close requests a deferred close of the current screen. The close that
// results carries willReopen=false unless a transition was also claimed.
func (a *Actions) Close() {
	a.s.Close()
}

// Transition claims this generation's single replacement slot and queues
// fn to perform the replacement open. The first transition per open screen
// wins; later ones are dropped and Transition returns false. The close
// produced by the replacement carries willReopen=true.
func (a *Actions) Transition(fn func()) bool {
	if !a.s.markTransition(a.gen) {
		return false
	}
	a.s.svc.sched.RunEntityOwner(string(a.s.user), fn)
	return true
}

// TransitionTo is Transition for the common case of opening another
// definition for the same user.
func (a *Actions) TransitionTo(d *Definition) bool {
	if !a.s.markTransition(a.gen) {
		return false
	}
	a.s.svc.sched.RunEntityOwner(string(a.s.user), func() {
		a.s.apply(d)
	})
	return true
}
