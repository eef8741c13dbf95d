package menu

import (
	"log"
	"reflect"
	"sync"

	"menugrid.gg/internal/host"
)

// Service is the process-wide registry of menu sessions. It owns the
// two-tier cache and a small type-keyed capability registry for optional
// integrations (a Recorder, say) that callers populate explicitly.
type Service struct {
	log      *log.Logger
	sched    host.Scheduler
	platform host.Platform
	cache    *Cache

	sessions sync.Map // host.UserID -> *Session

	capMu sync.RWMutex
	caps  map[reflect.Type]any
}

func NewService(platform host.Platform, sched host.Scheduler, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		log:      logger,
		sched:    sched,
		platform: platform,
		cache:    NewCache(),
		caps:     make(map[reflect.Type]any),
	}
}

func (s *Service) Cache() *Cache { return s.cache }

func (s *Service) Scheduler() host.Scheduler { return s.sched }

func (s *Service) Platform() host.Platform { return s.platform }

// Session returns the user's session, creating it on first ask. Concurrent
// callers for the same user converge on a single winner.
func (s *Service) Session(user host.UserID) *Session {
	if v, ok := s.sessions.Load(user); ok {
		return v.(*Session)
	}
	v, _ := s.sessions.LoadOrStore(user, newSession(s, user))
	return v.(*Session)
}

// Existing returns the user's session or nil, never creating one.
func (s *Service) Existing(user host.UserID) *Session {
	if v, ok := s.sessions.Load(user); ok {
		return v.(*Session)
	}
	return nil
}

func (s *Service) Has(user host.UserID) bool {
	_, ok := s.sessions.Load(user)
	return ok
}

// RemoveSession tears the user's session down and drops their cache
// bucket. Safe from a disconnect path on any context; no UI mutation is
// attempted.
func (s *Service) RemoveSession(user host.UserID) {
	v, ok := s.sessions.LoadAndDelete(user)
	if !ok {
		return
	}
	v.(*Session).Shutdown()
	s.cache.ClearSession(user)
}

// Shutdown tears down every session, then clears the cache and the
// capability registry. One broken session must not block teardown of the
// rest, so per-session panics are caught and logged. Idempotent.
func (s *Service) Shutdown() {
	s.sessions.Range(func(k, v any) bool {
		s.sessions.Delete(k)
		sess := v.(*Session)
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.log.Printf("session %s teardown: %v", sess.user, r)
				}
			}()
			sess.Shutdown()
		}()
		return true
	})
	s.cache.ClearAll()
	s.capMu.Lock()
	s.caps = make(map[reflect.Type]any)
	s.capMu.Unlock()
}

// RegisterCapability stores v under T's type key. Registering twice for
// the same T replaces.
func RegisterCapability[T any](s *Service, v T) {
	s.capMu.Lock()
	s.caps[reflect.TypeOf((*T)(nil)).Elem()] = v
	s.capMu.Unlock()
}

// Capability looks up a previously registered T. Absent when unpopulated;
// there is no probing or discovery, integrations are explicit.
func Capability[T any](s *Service) (T, bool) {
	s.capMu.RLock()
	v, ok := s.caps[reflect.TypeOf((*T)(nil)).Elem()]
	s.capMu.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}
