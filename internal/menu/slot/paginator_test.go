package slot

import (
	"reflect"
	"testing"
)

func tenInts() []int {
	items := make([]int, 10)
	for i := range items {
		items[i] = i
	}
	return items
}

func TestPaginator_Boundaries(t *testing.T) {
	p := NewPaginator(tenInts(), 4)
	if got := p.TotalPages(); got != 3 {
		t.Fatalf("total pages: got %d want 3", got)
	}
	p.SetPage(5)
	if p.Page() != 2 {
		t.Fatalf("clamp high: got page %d want 2", p.Page())
	}
	if got, want := p.PageItems(), []int{8, 9}; !reflect.DeepEqual(got, want) {
		t.Fatalf("last page: got %v want %v", got, want)
	}
	p.SetPage(-3)
	if p.Page() != 0 {
		t.Fatalf("clamp low: got page %d want 0", p.Page())
	}
	if got, want := p.PageItems(), []int{0, 1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("first page: got %v want %v", got, want)
	}
}

func TestPaginator_NextPrev(t *testing.T) {
	p := NewPaginator(tenInts(), 4)
	p.NextPage()
	p.NextPage()
	p.NextPage() // clamps at last page
	if p.Page() != 2 {
		t.Fatalf("next past end: got page %d want 2", p.Page())
	}
	p.PrevPage()
	if got, want := p.PageItems(), []int{4, 5, 6, 7}; !reflect.DeepEqual(got, want) {
		t.Fatalf("middle page: got %v want %v", got, want)
	}
}

func TestPaginator_ZeroPageSize(t *testing.T) {
	p := NewPaginator(tenInts(), 0)
	if p.TotalPages() != 0 {
		t.Fatalf("total pages with size 0: got %d want 0", p.TotalPages())
	}
	if items := p.PageItems(); items != nil {
		t.Fatalf("page items with size 0: got %v want nil", items)
	}
}

func TestPaginator_Empty(t *testing.T) {
	p := NewPaginator[int](nil, 4)
	if p.TotalPages() != 0 {
		t.Fatalf("total pages: got %d want 0", p.TotalPages())
	}
	p.SetPage(1)
	if p.Page() != 0 {
		t.Fatalf("page on empty: got %d want 0", p.Page())
	}
}
