package ws

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"menugrid.gg/internal/host"
	"menugrid.gg/internal/protocol"
)

// remoteView is the server-side handle for a screen rendered on a client.
// Slot writes are mirrored as VIEW_SLOTS deltas.
type remoteView struct {
	id  string
	gen uint64
	srv *Server
	c   *client

	mu    sync.Mutex
	slots []host.Item
}

func (v *remoteView) Generation() uint64 { return v.gen }

func (v *remoteView) Size() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.slots)
}

func (v *remoteView) Slot(i int) host.Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	if i < 0 || i >= len(v.slots) {
		return host.Item{}
	}
	return v.slots[i]
}

func (v *remoteView) SetSlot(i int, it host.Item) {
	v.mu.Lock()
	if i < 0 || i >= len(v.slots) {
		v.mu.Unlock()
		return
	}
	v.slots[i] = it
	v.mu.Unlock()

	v.srv.send(v.c, protocol.ViewSlotsMsg{
		Type:       protocol.TypeViewSlots,
		ViewID:     v.id,
		Generation: v.gen,
		Slots:      []protocol.SlotItem{{Slot: i, ID: it.ID, Count: it.Count}},
	})
}

// Platform implementation. The menu core calls these on the user's owning
// context only.

func (s *Server) OpenGrid(user host.UserID, rows int, title string, generation uint64) (host.View, error) {
	return s.openView(user, rows, "", rows*9, title, generation)
}

func (s *Server) OpenNative(user host.UserID, layout, title string, generation uint64) (host.View, error) {
	sizes := map[string]int{"HOPPER": 5, "DISPENSER": 9, "DROPPER": 9, "ANVIL": 3}
	size, ok := sizes[layout]
	if !ok {
		return nil, fmt.Errorf("unknown native layout %q", layout)
	}
	return s.openView(user, 0, layout, size, title, generation)
}

func (s *Server) openView(user host.UserID, rows int, layout string, size int, title string, generation uint64) (host.View, error) {
	c := s.clientFor(user)
	if c == nil {
		return nil, fmt.Errorf("no connected client for user %s", user)
	}
	v := &remoteView{
		id:    uuid.NewString(),
		gen:   generation,
		srv:   s,
		c:     c,
		slots: make([]host.Item, size),
	}
	c.putView(v)
	s.send(c, protocol.ViewOpenMsg{
		Type:       protocol.TypeViewOpen,
		ViewID:     v.id,
		Generation: generation,
		Rows:       rows,
		Layout:     layout,
		Size:       size,
		Title:      title,
	})
	return v, nil
}

// CloseView drops the server-side handle immediately and delivers the
// close event itself; the client's SCREEN_CLOSED echo then finds no view
// and is ignored. Waiting for the echo would let a misbehaving client
// accumulate stale handles.
func (s *Server) CloseView(user host.UserID, v host.View) {
	rv, ok := v.(*remoteView)
	if !ok {
		return
	}
	c := s.clientFor(user)
	if c == nil {
		return
	}
	c.dropView(rv.id)
	s.send(c, protocol.ViewCloseMsg{
		Type:       protocol.TypeViewClose,
		ViewID:     rv.id,
		Generation: rv.gen,
	})
	disp := s.dispatcher()
	if disp == nil {
		return
	}
	ev := &host.CloseEvent{User: user, View: rv}
	s.sched.RunEntityOwner(string(user), func() {
		disp.HandleClose(ev)
	})
}

func (s *Server) CursorItem(user host.UserID) host.Item {
	c := s.clientFor(user)
	if c == nil {
		return host.Item{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

func (s *Server) SetCursorItem(user host.UserID, it host.Item) {
	c := s.clientFor(user)
	if c == nil {
		return
	}
	c.mu.Lock()
	c.cursor = it
	c.mu.Unlock()
}

// GiveItem and DropItem hand the item back to the game layer. This
// transport has no item pipeline of its own, so they are logged; a real
// deployment registers a richer Platform around the game's inventory.
func (s *Server) GiveItem(user host.UserID, it host.Item) {
	s.log.Printf("return %dx %s to %s", it.Count, it.ID, user)
}

func (s *Server) DropItem(user host.UserID, it host.Item) {
	s.log.Printf("drop %dx %s for %s", it.Count, it.ID, user)
}
