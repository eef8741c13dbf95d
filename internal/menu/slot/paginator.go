package slot

// Paginator splits a fixed item list into fixed-size pages. The zero value
// is empty; SetPage clamps rather than erroring so button handlers can call
// NextPage/PrevPage without bounds checks.
type Paginator[T any] struct {
	items    []T
	pageSize int
	page     int
}

func NewPaginator[T any](items []T, pageSize int) *Paginator[T] {
	return &Paginator[T]{items: items, pageSize: pageSize}
}

// TotalPages is ceil(len(items)/pageSize), or 0 when pageSize <= 0.
func (p *Paginator[T]) TotalPages() int {
	if p.pageSize <= 0 {
		return 0
	}
	return (len(p.items) + p.pageSize - 1) / p.pageSize
}

func (p *Paginator[T]) Page() int { return p.page }

// SetPage clamps page into [0, TotalPages()).
func (p *Paginator[T]) SetPage(page int) {
	max := p.TotalPages() - 1
	if page > max {
		page = max
	}
	if page < 0 {
		page = 0
	}
	p.page = page
}

func (p *Paginator[T]) NextPage() { p.SetPage(p.page + 1) }
func (p *Paginator[T]) PrevPage() { p.SetPage(p.page - 1) }

// PageItems returns the current page's sub-slice of the backing items.
func (p *Paginator[T]) PageItems() []T {
	if p.pageSize <= 0 {
		return nil
	}
	lo := p.page * p.pageSize
	if lo >= len(p.items) {
		return nil
	}
	hi := lo + p.pageSize
	if hi > len(p.items) {
		hi = len(p.items)
	}
	return p.items[lo:hi]
}
