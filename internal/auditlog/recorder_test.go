package auditlog

import (
	"bufio"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/klauspost/compress/zstd"
)

// stubSched queues tasks until drained, like the real pool: nothing runs
// on the caller.
type stubSched struct {
	mu sync.Mutex
	q  []func()
}

func (s *stubSched) RunGlobal(task func())                { s.add(task) }
func (s *stubSched) RunEntityOwner(_ string, task func()) { s.add(task) }
func (s *stubSched) RunOffContext(task func())            { s.add(task) }

func (s *stubSched) add(task func()) {
	s.mu.Lock()
	s.q = append(s.q, task)
	s.mu.Unlock()
}

func (s *stubSched) drain() {
	for {
		s.mu.Lock()
		if len(s.q) == 0 {
			s.mu.Unlock()
			return
		}
		task := s.q[0]
		s.q = s.q[1:]
		s.mu.Unlock()
		task()
	}
}

func auditFiles(t *testing.T, dir string) []string {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "audit", "menu-*.jsonl.zst"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	return files
}

func TestRecorder_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	logger := log.New(os.Stderr, "[audit-test] ", log.LstdFlags)
	sched := &stubSched{}
	r := NewRecorder(dir, sched, logger)

	r.MenuOpened("u-1", 1, "Shop")
	r.MenuClicked("u-1", 1, 13)
	r.MenuClosed("u-1", 1, false)

	// The recording calls only enqueue; no disk I/O on the caller.
	if files := auditFiles(t, dir); len(files) != 0 {
		t.Fatalf("audit file written before the off-context task ran: %v", files)
	}

	sched.drain()
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	files := auditFiles(t, dir)
	if len(files) != 1 {
		t.Fatalf("audit files: %v", files)
	}

	f, err := os.Open(files[0])
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	defer dec.Close()

	var entries []Entry
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("entries: got %d want 3", len(entries))
	}
	if entries[0].Kind != "open" || entries[0].Title != "Shop" {
		t.Fatalf("open entry: %+v", entries[0])
	}
	if entries[1].Kind != "click" || entries[1].Slot != 13 {
		t.Fatalf("click entry: %+v", entries[1])
	}
	if entries[2].Kind != "close" || entries[2].WillReopen {
		t.Fatalf("close entry: %+v", entries[2])
	}
	for _, e := range entries {
		if e.User != "u-1" || e.Generation != 1 || e.At == "" {
			t.Fatalf("common fields: %+v", e)
		}
	}
}
