// Package statsdb keeps a small read-model of menu interactions in
// SQLite: how often each user opened, clicked and closed menus. It is a
// secondary index, not a source of truth, and never stores screen
// contents. Writes go through a single writer goroutine so recording from
// owning contexts stays non-blocking.
package statsdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"menugrid.gg/internal/host"
)

type Store struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqEvent reqKind = iota + 1
	reqFlush
)

type req struct {
	kind reqKind

	event eventRow
	done  chan struct{}
}

type eventRow struct {
	At         string
	Kind       string
	User       string
	Generation uint64
	Title      string
	Slot       int
	WillReopen bool
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{
		db: db,
		// Burst headroom: many clicks in one tick must not stall dispatch.
		ch: make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL suits the append-style workload; NORMAL is fine for an index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS interactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			at TEXT NOT NULL,
			kind TEXT NOT NULL,
			user TEXT NOT NULL,
			generation INTEGER NOT NULL,
			title TEXT,
			slot INTEGER,
			will_reopen INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions(user, kind);`,
		`CREATE TABLE IF NOT EXISTS user_totals (
			user TEXT PRIMARY KEY,
			opens INTEGER NOT NULL DEFAULT 0,
			clicks INTEGER NOT NULL DEFAULT 0,
			closes INTEGER NOT NULL DEFAULT 0
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// menu.Recorder implementation. Enqueue-only; drops if the indexer falls
// behind, the audit JSONL remains the source of truth.

func (s *Store) MenuOpened(user host.UserID, generation uint64, title string) {
	s.record(eventRow{Kind: "open", User: string(user), Generation: generation, Title: title})
}

func (s *Store) MenuClosed(user host.UserID, generation uint64, willReopen bool) {
	s.record(eventRow{Kind: "close", User: string(user), Generation: generation, WillReopen: willReopen})
}

func (s *Store) MenuClicked(user host.UserID, generation uint64, slot int) {
	s.record(eventRow{Kind: "click", User: string(user), Generation: generation, Slot: slot})
}

func (s *Store) record(e eventRow) {
	if s == nil || s.closed.Load() {
		return
	}
	e.At = time.Now().UTC().Format(time.RFC3339Nano)
	select {
	case s.ch <- req{kind: reqEvent, event: e}:
	default:
	}
}

// Flush blocks until every event enqueued before the call is written.
// A full queue makes Flush wait; record is the only drop-on-full path.
func (s *Store) Flush() {
	if s == nil || s.closed.Load() {
		return
	}
	done := make(chan struct{})
	s.ch <- req{kind: reqFlush, done: done}
	<-done
}

func (s *Store) loop() {
	for r := range s.ch {
		switch r.kind {
		case reqEvent:
			s.writeEvent(r.event)
		case reqFlush:
			close(r.done)
		}
	}
}

func (s *Store) writeEvent(e eventRow) {
	_, _ = s.db.Exec(
		`INSERT INTO interactions (at, kind, user, generation, title, slot, will_reopen)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.At, e.Kind, e.User, e.Generation, e.Title, e.Slot, boolInt(e.WillReopen),
	)
	col := map[string]string{"open": "opens", "click": "clicks", "close": "closes"}[e.Kind]
	if col == "" {
		return
	}
	_, _ = s.db.Exec(
		`INSERT INTO user_totals (user, `+col+`) VALUES (?, 1)
		 ON CONFLICT(user) DO UPDATE SET `+col+` = `+col+` + 1`,
		e.User,
	)
}

// Totals are the per-user lifetime counters.
type Totals struct {
	Opens  int
	Clicks int
	Closes int
}

func (s *Store) UserTotals(user host.UserID) (Totals, error) {
	var t Totals
	err := s.db.QueryRow(
		`SELECT opens, clicks, closes FROM user_totals WHERE user = ?`, string(user),
	).Scan(&t.Opens, &t.Clicks, &t.Closes)
	if err == sql.ErrNoRows {
		return Totals{}, nil
	}
	return t, err
}

// InteractionCount reports how many events of one kind are recorded.
func (s *Store) InteractionCount(kind string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM interactions WHERE kind = ?`, kind).Scan(&n)
	return n, err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
