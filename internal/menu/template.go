package menu

import (
	"fmt"
	"time"

	"menugrid.gg/internal/host"
)

// CursorPolicy decides what happens to the item a user holds on their
// cursor when the screen closes.
type CursorPolicy int

const (
	// CursorReturn gives the item back to the user's inventory.
	CursorReturn CursorPolicy = iota
	// CursorDrop drops the item into the world at the user's position.
	CursorDrop
	// CursorVoid discards the item.
	CursorVoid
)

type typeKind int

const (
	kindGrid typeKind = iota + 1
	kindNative
)

// Type is a screen shape: either a chest-style grid of 1-6 rows or a named
// platform-native layout. The set is closed; views are only ever produced
// through one of the two constructors below.
type Type struct {
	kind   typeKind
	rows   int
	layout string
}

// Native layouts the platform knows how to open, with their slot counts.
var nativeSizes = map[string]int{
	"HOPPER":    5,
	"DISPENSER": 9,
	"DROPPER":   9,
	"ANVIL":     3,
}

// GridType describes a rows*9 chest grid. Rows outside [1,6] are rejected
// here, at construction, never at open time.
func GridType(rows int) (Type, error) {
	if rows < 1 || rows > 6 {
		return Type{}, fmt.Errorf("grid rows must be in [1,6], got %d", rows)
	}
	return Type{kind: kindGrid, rows: rows}, nil
}

// NativeType describes a platform-native layout by name.
func NativeType(layout string) (Type, error) {
	if _, ok := nativeSizes[layout]; !ok {
		return Type{}, fmt.Errorf("unknown native layout %q", layout)
	}
	return Type{kind: kindNative, layout: layout}, nil
}

// Size is the slot count of views of this shape.
func (t Type) Size() int {
	switch t.kind {
	case kindGrid:
		return t.rows * 9
	case kindNative:
		return nativeSizes[t.layout]
	}
	return 0
}

// instantiate double-dispatches on the shape variant to produce the
// concrete platform view, stamped with the session generation.
func (t Type) instantiate(p host.Platform, user host.UserID, title string, generation uint64) (host.View, error) {
	switch t.kind {
	case kindGrid:
		return p.OpenGrid(user, t.rows, title, generation)
	case kindNative:
		return p.OpenNative(user, t.layout, title, generation)
	}
	return nil, fmt.Errorf("menu type is not constructed")
}

// Definition is an immutable, reusable description of a screen. One
// Definition is typically held in long-lived application storage and opened
// for many users; it carries no per-user state.
type Definition struct {
	typ          Type
	title        func(host.UserID) string
	refresh      time.Duration
	cursorPolicy CursorPolicy
	cacheKey     string
	onOpen       func(*Actions)
	onClose      func(*Actions, bool)
	onClick      func(*Actions, *host.ClickEvent)
	onDrag       func(*Actions, *host.DragEvent)
	render       func(*Actions)
}

// Open applies the definition to the user's session on the user's owning
// context. Safe to call from anywhere, including from inside an event
// handler: the transition always runs on a later scheduling pass.
func (d *Definition) Open(svc *Service, user host.UserID) {
	svc.sched.RunEntityOwner(string(user), func() {
		svc.Session(user).apply(d)
	})
}

// Type returns the shape this definition opens.
func (d *Definition) Type() Type { return d.typ }

// Builder accumulates a Definition. Configuration errors (bad shape, nil
// callbacks passed explicitly) surface from Build, so broken templates fail
// at startup rather than on first click.
type Builder struct {
	def Definition
	err error
}

func NewBuilder(t Type) *Builder {
	b := &Builder{def: Definition{typ: t}}
	if t.kind == 0 {
		b.err = fmt.Errorf("menu type is not constructed")
	}
	b.def.title = func(host.UserID) string { return "" }
	return b
}

// Title sets the per-user title function, invoked once per open.
func (b *Builder) Title(fn func(host.UserID) string) *Builder {
	if fn == nil {
		b.fail("nil title function")
		return b
	}
	b.def.title = fn
	return b
}

// Refresh enables the periodic re-render heartbeat. Zero disables it.
func (b *Builder) Refresh(period time.Duration) *Builder {
	if period < 0 {
		b.fail("negative refresh period")
		return b
	}
	b.def.refresh = period
	return b
}

func (b *Builder) CursorPolicy(p CursorPolicy) *Builder {
	b.def.cursorPolicy = p
	return b
}

// CacheKey binds sessions opened from this definition to a shared global
// cache entry.
func (b *Builder) CacheKey(key string) *Builder {
	b.def.cacheKey = key
	return b
}

func (b *Builder) OnOpen(fn func(*Actions)) *Builder {
	if fn == nil {
		b.fail("nil onOpen callback")
		return b
	}
	b.def.onOpen = fn
	return b
}

// OnClose receives willReopen=false when the interaction ended and true
// when the close is an internal step toward opening a replacement screen.
func (b *Builder) OnClose(fn func(a *Actions, willReopen bool)) *Builder {
	if fn == nil {
		b.fail("nil onClose callback")
		return b
	}
	b.def.onClose = fn
	return b
}

func (b *Builder) OnClick(fn func(*Actions, *host.ClickEvent)) *Builder {
	if fn == nil {
		b.fail("nil onClick callback")
		return b
	}
	b.def.onClick = fn
	return b
}

func (b *Builder) OnDrag(fn func(*Actions, *host.DragEvent)) *Builder {
	if fn == nil {
		b.fail("nil onDrag callback")
		return b
	}
	b.def.onDrag = fn
	return b
}

// Render draws the view's contents. It runs once right after OnOpen and
// again on every refresh heartbeat tick.
func (b *Builder) Render(fn func(*Actions)) *Builder {
	if fn == nil {
		b.fail("nil render callback")
		return b
	}
	b.def.render = fn
	return b
}

func (b *Builder) Build() (*Definition, error) {
	if b.err != nil {
		return nil, b.err
	}
	def := b.def
	return &def, nil
}

func (b *Builder) fail(msg string) {
	if b.err == nil {
		b.err = fmt.Errorf("menu template: %s", msg)
	}
}
