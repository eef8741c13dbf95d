// Package host defines the surface the menu core expects from the game
// platform it runs inside: an execution scheduler, a view factory, and the
// event payloads the platform delivers. The core never talks to a concrete
// platform directly.
package host

// UserID identifies a connected user for the lifetime of their connection.
type UserID string

// Item is an opaque stack of something a slot or a cursor can hold.
// The zero value means "empty"; encoding beyond ID/Count is carried as-is.
type Item struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func (it Item) Empty() bool { return it.ID == "" || it.Count <= 0 }

// Button distinguishes how a slot was clicked.
type Button int

const (
	LeftClick Button = iota
	RightClick
	ShiftLeftClick
	ShiftRightClick
	MiddleClick
)

var buttonNames = map[Button]string{
	LeftClick:       "LEFT",
	RightClick:      "RIGHT",
	ShiftLeftClick:  "SHIFT_LEFT",
	ShiftRightClick: "SHIFT_RIGHT",
	MiddleClick:     "MIDDLE",
}

func (b Button) String() string {
	if s, ok := buttonNames[b]; ok {
		return s
	}
	return "LEFT"
}

// ButtonFromString maps a wire name back to a Button. Unknown names fall
// back to LeftClick rather than erroring; a click is a click.
func ButtonFromString(s string) Button {
	for b, name := range buttonNames {
		if name == s {
			return b
		}
	}
	return LeftClick
}
