package menu

import (
	"testing"

	"menugrid.gg/internal/host"
)

func TestGridType_Range(t *testing.T) {
	for rows := 1; rows <= 6; rows++ {
		typ, err := GridType(rows)
		if err != nil {
			t.Fatalf("rows=%d: %v", rows, err)
		}
		if typ.Size() != rows*9 {
			t.Fatalf("rows=%d: size %d", rows, typ.Size())
		}
	}
	for _, rows := range []int{0, -1, 7, 100} {
		if _, err := GridType(rows); err == nil {
			t.Fatalf("rows=%d accepted", rows)
		}
	}
}

func TestNativeType(t *testing.T) {
	typ, err := NativeType("HOPPER")
	if err != nil {
		t.Fatalf("hopper: %v", err)
	}
	if typ.Size() != 5 {
		t.Fatalf("hopper size: %d", typ.Size())
	}
	if _, err := NativeType("JUKEBOX"); err == nil {
		t.Fatalf("unknown layout accepted")
	}
}

func TestBuilder_NilCallbacksFailFast(t *testing.T) {
	if _, err := NewBuilder(mustGrid(1)).OnOpen(nil).Build(); err == nil {
		t.Fatalf("nil onOpen accepted")
	}
	if _, err := NewBuilder(mustGrid(1)).OnClose(nil).Build(); err == nil {
		t.Fatalf("nil onClose accepted")
	}
	if _, err := NewBuilder(mustGrid(1)).Title(nil).Build(); err == nil {
		t.Fatalf("nil title accepted")
	}
	if _, err := NewBuilder(mustGrid(1)).Refresh(-1).Build(); err == nil {
		t.Fatalf("negative refresh accepted")
	}
	if _, err := NewBuilder(Type{}).Build(); err == nil {
		t.Fatalf("unconstructed type accepted")
	}
}

func TestBuilder_FirstErrorWins(t *testing.T) {
	_, err := NewBuilder(mustGrid(1)).Title(nil).OnOpen(nil).Build()
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := err.Error(); got != "menu template: nil title function" {
		t.Fatalf("error: %q", got)
	}
}

func TestDefinition_ReusableAcrossUsers(t *testing.T) {
	env := newTestEnv()
	var opens int
	def, _ := NewBuilder(mustGrid(1)).
		Title(func(u host.UserID) string { return string(u) }).
		OnOpen(func(*Actions) { opens++ }).
		Build()

	def.Open(env.svc, "a")
	def.Open(env.svc, "b")
	def.Open(env.svc, "a")
	env.sched.Drain()

	if opens != 3 {
		t.Fatalf("opens: got %d want 3", opens)
	}
	if env.svc.Session("a").Generation() != 2 {
		t.Fatalf("user a generation: got %d want 2", env.svc.Session("a").Generation())
	}
	if env.svc.Session("b").Generation() != 1 {
		t.Fatalf("user b generation: got %d want 1", env.svc.Session("b").Generation())
	}
	if env.plat.opened[0].title != "a" || env.plat.opened[1].title != "b" {
		t.Fatalf("titles: %q %q", env.plat.opened[0].title, env.plat.opened[1].title)
	}
}
