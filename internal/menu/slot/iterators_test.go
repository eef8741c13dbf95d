package slot

import (
	"reflect"
	"testing"
)

func TestRange_Inclusive(t *testing.T) {
	got := Range(3, 6).Collect()
	want := []int{3, 4, 5, 6}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("range: got %v want %v", got, want)
	}
}

func TestRange_InvertedIsEmpty(t *testing.T) {
	if got := Range(5, 2).Collect(); len(got) != 0 {
		t.Fatalf("inverted range yielded %v", got)
	}
}

func TestGrid_RowMajorWithExclusions(t *testing.T) {
	got := Grid(2, 3, 1, 10).Collect()
	want := []int{0, 2, 9, 11}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("grid: got %v want %v", got, want)
	}
}

func TestGrid_NoExclusions(t *testing.T) {
	got := Grid(1, 9).Collect()
	want := []int{0, 1, 2, 3, 4, 5, 6, 7, 8}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("grid: got %v want %v", got, want)
	}
}

func TestPattern_Exact(t *testing.T) {
	it := Pattern('X', "XX.", "..X")
	got := it.Collect()
	want := []int{0, 1, 11}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pattern: got %v want %v", got, want)
	}
	if _, ok := it.Next(); ok {
		t.Fatalf("exhausted pattern iterator yielded again")
	}
}

func TestPattern_CaseSensitive(t *testing.T) {
	if got := Pattern('x', "XX.").Collect(); len(got) != 0 {
		t.Fatalf("lowercase target matched uppercase rows: %v", got)
	}
}

func TestIterator_NonRestartable(t *testing.T) {
	it := Range(0, 2)
	_ = it.Collect()
	if _, ok := it.Next(); ok {
		t.Fatalf("iterator restarted after drain")
	}
}

func TestNilIterator(t *testing.T) {
	var it *Iterator
	if _, ok := it.Next(); ok {
		t.Fatalf("nil iterator yielded")
	}
}
