package menu

import "menugrid.gg/internal/host"

// Dispatcher is the single subscriber to platform UI events. It filters;
// it never re-routes. The platform already delivers click/drag/close on
// the acting user's owning context, so after validation the session
// handler runs inline.
//
// Every method returns whether the event was forwarded. Discards are
// silent: a stale event means the user already moved on, and there is
// nothing to retry a click against.
type Dispatcher struct {
	svc *Service
}

func NewDispatcher(svc *Service) *Dispatcher { return &Dispatcher{svc: svc} }

// validate runs the four staleness checks shared by click/drag/close:
// session exists, session has an open view, the event's view is that view,
// and the view's stamped generation is still current. An event queued
// before a close/reopen and delivered after fails (3) or (4) and can never
// act on the new screen with the old screen's semantics.
func (d *Dispatcher) validate(user host.UserID, v host.View) *Session {
	s := d.svc.Existing(user)
	if s == nil {
		return nil
	}
	cur := s.View()
	if cur == nil || v == nil || v != cur {
		return nil
	}
	if v.Generation() != s.Generation() {
		return nil
	}
	return s
}

func (d *Dispatcher) HandleClick(ev *host.ClickEvent) bool {
	s := d.validate(ev.User, ev.View)
	if s == nil {
		return false
	}
	s.HandleClick(ev)
	return true
}

func (d *Dispatcher) HandleDrag(ev *host.DragEvent) bool {
	s := d.validate(ev.User, ev.View)
	if s == nil {
		return false
	}
	s.HandleDrag(ev)
	return true
}

func (d *Dispatcher) HandleClose(ev *host.CloseEvent) bool {
	s := d.validate(ev.User, ev.View)
	if s == nil {
		return false
	}
	s.HandleClose(s.PendingTransition())
	return true
}

// HandleDisconnect skips the view checks entirely: the platform already
// discarded any open view, so teardown needs no context affinity.
func (d *Dispatcher) HandleDisconnect(ev *host.DisconnectEvent) {
	d.svc.RemoveSession(ev.User)
}
