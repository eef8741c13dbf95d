// Package slot provides stateless traversal strategies over a chest-style
// slot grid, plus a paginator. Nothing here touches session state; layout
// code stays declarative by composing these.
package slot

// RowWidth is the number of slots in one chest row.
const RowWidth = 9

// Iterator is a lazy, finite, non-restartable sequence of slot indices.
type Iterator struct {
	next func() (int, bool)
}

// Next yields the next slot index; ok is false once the sequence ends.
func (it *Iterator) Next() (int, bool) {
	if it == nil || it.next == nil {
		return 0, false
	}
	return it.next()
}

// Collect drains the iterator into a slice.
func (it *Iterator) Collect() []int {
	var out []int
	for {
		i, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, i)
	}
}

// Range iterates the contiguous slots [from, to], inclusive. An inverted
// range is empty.
func Range(from, to int) *Iterator {
	cur := from
	return &Iterator{next: func() (int, bool) {
		if cur > to {
			return 0, false
		}
		i := cur
		cur++
		return i, true
	}}
}

// Grid iterates a rows x cols block anchored at the top-left of the screen
// in row-major order, skipping excluded slot indices.
func Grid(rows, cols int, exclude ...int) *Iterator {
	skip := make(map[int]struct{}, len(exclude))
	for _, e := range exclude {
		skip[e] = struct{}{}
	}
	r, c := 0, 0
	return &Iterator{next: func() (int, bool) {
		for r < rows {
			if c >= cols {
				r++
				c = 0
				continue
			}
			i := r*RowWidth + c
			c++
			if _, excluded := skip[i]; excluded {
				continue
			}
			return i, true
		}
		return 0, false
	}}
}

// Pattern iterates the slots whose pattern character equals target,
// row-major and case-sensitive. Each pattern row maps onto one screen row,
// so a character at row r, column c addresses slot r*RowWidth+c. Rows may
// be shorter than RowWidth; the remainder of the screen row is skipped.
func Pattern(target byte, rows ...string) *Iterator {
	r, c := 0, 0
	return &Iterator{next: func() (int, bool) {
		for r < len(rows) {
			row := rows[r]
			if c >= len(row) {
				r++
				c = 0
				continue
			}
			i := r*RowWidth + c
			match := row[c] == target
			c++
			if match {
				return i, true
			}
		}
		return 0, false
	}}
}
