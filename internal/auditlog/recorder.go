package auditlog

import (
	"log"
	"path/filepath"
	"time"

	"menugrid.gg/internal/host"
)

// Entry is one interaction event on disk.
type Entry struct {
	At         string `json:"at"`
	Kind       string `json:"kind"` // open | close | click
	User       string `json:"user"`
	Generation uint64 `json:"generation"`
	Title      string `json:"title,omitempty"`
	Slot       int    `json:"slot,omitempty"`
	WillReopen bool   `json:"will_reopen,omitempty"`
}

// Recorder satisfies menu.Recorder and appends one JSONL entry per event.
// Recording stamps the timestamp and hands the disk write to the
// scheduler's off-context pool, so owner shards never block on file I/O.
// Write failures are logged and otherwise ignored; the audit trail is best
// effort.
type Recorder struct {
	w     *JSONLZstdWriter
	sched host.Scheduler
	log   *log.Logger
}

func NewRecorder(dataDir string, sched host.Scheduler, logger *log.Logger) *Recorder {
	return &Recorder{
		w:     NewJSONLZstdWriter(filepath.Join(dataDir, "audit"), "menu"),
		sched: sched,
		log:   logger,
	}
}

func (r *Recorder) MenuOpened(user host.UserID, generation uint64, title string) {
	r.write(Entry{Kind: "open", User: string(user), Generation: generation, Title: title})
}

func (r *Recorder) MenuClosed(user host.UserID, generation uint64, willReopen bool) {
	r.write(Entry{Kind: "close", User: string(user), Generation: generation, WillReopen: willReopen})
}

func (r *Recorder) MenuClicked(user host.UserID, generation uint64, slot int) {
	r.write(Entry{Kind: "click", User: string(user), Generation: generation, Slot: slot})
}

func (r *Recorder) Close() error { return r.w.Close() }

func (r *Recorder) write(e Entry) {
	e.At = time.Now().UTC().Format(time.RFC3339Nano)
	r.sched.RunOffContext(func() {
		if err := r.w.Write(e); err != nil {
			r.log.Printf("audit write: %v", err)
		}
	})
}
