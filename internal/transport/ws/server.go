// Package ws is the websocket rendition of the menu platform: connected
// game clients receive VIEW_* frames and send CLICK/DRAG/SCREEN_CLOSED
// frames. The server implements host.Platform for the menu core and feeds
// incoming events to the dispatcher on the acting user's owning context.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"menugrid.gg/internal/host"
	"menugrid.gg/internal/menu"
	"menugrid.gg/internal/protocol"
)

type Server struct {
	log   *log.Logger
	sched host.Scheduler

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[host.UserID]*client
	disp    *menu.Dispatcher
	onJoin  func(host.UserID, string)
	onLeave func(host.UserID, string)
}

func NewServer(sched host.Scheduler, logger *log.Logger) *Server {
	return &Server{
		log:     logger,
		sched:   sched,
		clients: make(map[host.UserID]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

// Bind wires the dispatcher in after the menu service has been built
// around this server (the service needs the platform first).
func (s *Server) Bind(d *menu.Dispatcher) {
	s.mu.Lock()
	s.disp = d
	s.mu.Unlock()
}

// OnJoin registers a hook invoked after a successful handshake, on the
// user's owning context. The typical use is opening the landing menu.
func (s *Server) OnJoin(fn func(user host.UserID, name string)) {
	s.mu.Lock()
	s.onJoin = fn
	s.mu.Unlock()
}

// OnLeave registers a hook invoked once after the connection is torn down
// and the session removed. User ids are minted per connection, so this is
// where the wiring layer releases anything keyed by the user (scheduler
// ownership, most notably).
func (s *Server) OnLeave(fn func(user host.UserID, name string)) {
	s.mu.Lock()
	s.onLeave = fn
	s.mu.Unlock()
}

type client struct {
	user host.UserID
	name string
	out  chan []byte

	mu     sync.Mutex
	views  map[string]*remoteView
	cursor host.Item
}

func (c *client) view(id string) *remoteView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.views[id]
}

func (c *client) putView(v *remoteView) {
	c.mu.Lock()
	c.views[v.id] = v
	c.mu.Unlock()
}

func (c *client) dropView(id string) {
	c.mu.Lock()
	delete(c.views, id)
	c.mu.Unlock()
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		c := s.handshake(conn)
		if c == nil {
			return
		}

		done := make(chan struct{})

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-done:
					return
				case b, ok := <-c.out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						return
					}
				}
			}
		}()

		disp := s.dispatcher()
		if hook := s.joinHook(); hook != nil {
			s.sched.RunEntityOwner(string(c.user), func() { hook(c.user, c.name) })
		}

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			s.route(c, disp, msg)
		}

		// Cleanup: the connection is gone, the client's screens with it.
		close(done)
		s.unregister(c)
		if disp != nil {
			disp.HandleDisconnect(&host.DisconnectEvent{User: c.user})
		}
		if hook := s.leaveHook(); hook != nil {
			hook(c.user, c.name)
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) *client {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return nil
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return nil
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "protocol version mismatch"), time.Now().Add(time.Second))
		return nil
	}
	name := strings.TrimSpace(hello.PlayerName)
	if name == "" {
		return nil
	}

	c := &client{
		user:  host.UserID(uuid.NewString()),
		name:  name,
		out:   make(chan []byte, 256),
		views: make(map[string]*remoteView),
	}

	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		UserID:          string(c.user),
		PlayerName:      name,
	}
	b, _ := json.Marshal(welcome)
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		return nil
	}

	s.mu.Lock()
	s.clients[c.user] = c
	s.mu.Unlock()
	return c
}

func (s *Server) route(c *client, disp *menu.Dispatcher, msg []byte) {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return
	}
	switch base.Type {
	case protocol.TypeClick:
		var m protocol.ClickMsg
		if err := json.Unmarshal(msg, &m); err != nil || m.ProtocolVersion != protocol.Version {
			return
		}
		v := c.view(m.ViewID)
		if v == nil {
			s.ack(c, m.ActionID, false, false, protocol.ErrNoView)
			return
		}
		var cursor host.Item
		if m.Cursor != nil {
			cursor = host.Item{ID: m.Cursor.ID, Count: m.Cursor.Count}
		}
		c.mu.Lock()
		c.cursor = cursor
		c.mu.Unlock()
		ev := &host.ClickEvent{
			User:   c.user,
			View:   v,
			Slot:   m.Slot,
			Button: host.ButtonFromString(m.Button),
			Cursor: cursor,
		}
		s.sched.RunEntityOwner(string(c.user), func() {
			// Dispatch finished once HandleClick returns; the handler's
			// Cancelled verdict is final here.
			ok := disp != nil && disp.HandleClick(ev)
			code := ""
			if !ok {
				code = protocol.ErrStale
			}
			s.ack(c, m.ActionID, ok, ev.Cancelled, code)
		})

	case protocol.TypeDrag:
		var m protocol.DragMsg
		if err := json.Unmarshal(msg, &m); err != nil || m.ProtocolVersion != protocol.Version {
			return
		}
		v := c.view(m.ViewID)
		if v == nil {
			s.ack(c, m.ActionID, false, false, protocol.ErrNoView)
			return
		}
		ev := &host.DragEvent{User: c.user, View: v, Slots: m.Slots}
		s.sched.RunEntityOwner(string(c.user), func() {
			ok := disp != nil && disp.HandleDrag(ev)
			code := ""
			if !ok {
				code = protocol.ErrStale
			}
			s.ack(c, m.ActionID, ok, ev.Cancelled, code)
		})

	case protocol.TypeScreenClosed:
		var m protocol.ScreenClosedMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return
		}
		v := c.view(m.ViewID)
		if v == nil {
			return
		}
		c.dropView(m.ViewID)
		ev := &host.CloseEvent{User: c.user, View: v}
		s.sched.RunEntityOwner(string(c.user), func() {
			if disp != nil {
				disp.HandleClose(ev)
			}
		})
	}
}

func (s *Server) ack(c *client, actionID string, accepted, cancelled bool, code string) {
	if actionID == "" {
		return
	}
	s.send(c, protocol.AckMsg{
		Type:      protocol.TypeAck,
		AckFor:    actionID,
		Accepted:  accepted,
		Cancelled: cancelled,
		Code:      code,
	})
}

func (s *Server) send(c *client, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case c.out <- b:
	default:
		// Slow consumer; never block the caller.
		s.log.Printf("drop frame for %s (%s)", c.name, c.user)
	}
}

func (s *Server) dispatcher() *menu.Dispatcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disp
}

func (s *Server) joinHook() func(host.UserID, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onJoin
}

func (s *Server) leaveHook() func(host.UserID, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.onLeave
}

func (s *Server) clientFor(user host.UserID) *client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients[user]
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	delete(s.clients, c.user)
	s.mu.Unlock()
}
