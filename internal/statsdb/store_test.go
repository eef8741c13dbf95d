package statsdb

import (
	"path/filepath"
	"testing"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "stats", "menu.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_TotalsAccumulate(t *testing.T) {
	s := openTest(t)

	s.MenuOpened("u-1", 1, "Shop")
	s.MenuClicked("u-1", 1, 13)
	s.MenuClicked("u-1", 1, 14)
	s.MenuClosed("u-1", 1, false)
	s.MenuOpened("u-2", 1, "Bank")
	s.Flush()

	got, err := s.UserTotals("u-1")
	if err != nil {
		t.Fatalf("totals u-1: %v", err)
	}
	if got.Opens != 1 || got.Clicks != 2 || got.Closes != 1 {
		t.Fatalf("u-1 totals: %+v", got)
	}

	got2, err := s.UserTotals("u-2")
	if err != nil {
		t.Fatalf("totals u-2: %v", err)
	}
	if got2.Opens != 1 || got2.Clicks != 0 {
		t.Fatalf("u-2 totals: %+v", got2)
	}

	unknown, err := s.UserTotals("nobody")
	if err != nil {
		t.Fatalf("totals nobody: %v", err)
	}
	if unknown != (Totals{}) {
		t.Fatalf("unknown user totals: %+v", unknown)
	}
}

func TestStore_InteractionRows(t *testing.T) {
	s := openTest(t)
	s.MenuOpened("u-1", 1, "Shop")
	s.MenuClosed("u-1", 1, true)
	s.Flush()

	opens, err := s.InteractionCount("open")
	if err != nil || opens != 1 {
		t.Fatalf("open count: %d %v", opens, err)
	}
	closes, err := s.InteractionCount("close")
	if err != nil || closes != 1 {
		t.Fatalf("close count: %d %v", closes, err)
	}
}

func TestStore_FlushSeesEveryQueuedEvent(t *testing.T) {
	s := openTest(t)
	const n = 500
	for i := 0; i < n; i++ {
		s.MenuClicked("u-1", 1, i%54)
	}
	s.Flush()

	clicks, err := s.InteractionCount("click")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if clicks != n {
		t.Fatalf("clicks after flush: got %d want %d", clicks, n)
	}
	got, err := s.UserTotals("u-1")
	if err != nil || got.Clicks != n {
		t.Fatalf("totals after flush: %+v (%v)", got, err)
	}
}

func TestStore_CloseIdempotentAndDropsLateWrites(t *testing.T) {
	s := openTest(t)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	// Writes after close are silently dropped, not panics.
	s.MenuOpened("u-1", 1, "late")
	s.Flush()
}

func TestOpen_EmptyPathRejected(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("empty path accepted")
	}
}
