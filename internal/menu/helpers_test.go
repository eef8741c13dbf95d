package menu

import (
	"fmt"
	"log"
	"os"
	"sync"

	"menugrid.gg/internal/host"
)

// fakeSched queues every task and runs nothing until Drain, which mimics
// the owning-context contract: scheduled work always lands on a later pass.
type fakeSched struct {
	mu sync.Mutex
	q  []func()
}

func (f *fakeSched) RunGlobal(task func())                { f.enqueue(task) }
func (f *fakeSched) RunEntityOwner(_ string, task func()) { f.enqueue(task) }
func (f *fakeSched) RunOffContext(task func())            { f.enqueue(task) }

func (f *fakeSched) enqueue(task func()) {
	f.mu.Lock()
	f.q = append(f.q, task)
	f.mu.Unlock()
}

// Drain runs queued tasks, including ones they enqueue, and reports how
// many ran.
func (f *fakeSched) Drain() int {
	n := 0
	for {
		f.mu.Lock()
		if len(f.q) == 0 {
			f.mu.Unlock()
			return n
		}
		task := f.q[0]
		f.q = f.q[1:]
		f.mu.Unlock()
		task()
		n++
	}
}

func (f *fakeSched) pendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.q)
}

type fakeView struct {
	gen    uint64
	slots  []host.Item
	title  string
	layout string
}

func (v *fakeView) Generation() uint64 { return v.gen }
func (v *fakeView) Size() int          { return len(v.slots) }

func (v *fakeView) Slot(i int) host.Item {
	if i < 0 || i >= len(v.slots) {
		return host.Item{}
	}
	return v.slots[i]
}

func (v *fakeView) SetSlot(i int, it host.Item) {
	if i >= 0 && i < len(v.slots) {
		v.slots[i] = it
	}
}

type fakePlatform struct {
	mu         sync.Mutex
	opened     []*fakeView
	closeAsked []host.View
	cursor     map[host.UserID]host.Item
	given      map[host.UserID][]host.Item
	dropped    map[host.UserID][]host.Item
	openErr    error
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		cursor:  make(map[host.UserID]host.Item),
		given:   make(map[host.UserID][]host.Item),
		dropped: make(map[host.UserID][]host.Item),
	}
}

func (p *fakePlatform) OpenGrid(_ host.UserID, rows int, title string, generation uint64) (host.View, error) {
	return p.open(rows*9, title, "", generation)
}

func (p *fakePlatform) OpenNative(_ host.UserID, layout, title string, generation uint64) (host.View, error) {
	return p.open(9, title, layout, generation)
}

func (p *fakePlatform) open(size int, title, layout string, generation uint64) (host.View, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.openErr != nil {
		return nil, p.openErr
	}
	v := &fakeView{gen: generation, slots: make([]host.Item, size), title: title, layout: layout}
	p.opened = append(p.opened, v)
	return v, nil
}

func (p *fakePlatform) CloseView(_ host.UserID, v host.View) {
	p.mu.Lock()
	p.closeAsked = append(p.closeAsked, v)
	p.mu.Unlock()
}

func (p *fakePlatform) CursorItem(u host.UserID) host.Item {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor[u]
}

func (p *fakePlatform) SetCursorItem(u host.UserID, it host.Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if it.Empty() {
		delete(p.cursor, u)
		return
	}
	p.cursor[u] = it
}

func (p *fakePlatform) GiveItem(u host.UserID, it host.Item) {
	p.mu.Lock()
	p.given[u] = append(p.given[u], it)
	p.mu.Unlock()
}

func (p *fakePlatform) DropItem(u host.UserID, it host.Item) {
	p.mu.Lock()
	p.dropped[u] = append(p.dropped[u], it)
	p.mu.Unlock()
}

func (p *fakePlatform) openCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.opened)
}

type testEnv struct {
	svc   *Service
	sched *fakeSched
	plat  *fakePlatform
	disp  *Dispatcher
}

func newTestEnv() *testEnv {
	sched := &fakeSched{}
	plat := newFakePlatform()
	logger := log.New(os.Stderr, "[menu-test] ", log.LstdFlags)
	svc := NewService(plat, sched, logger)
	return &testEnv{svc: svc, sched: sched, plat: plat, disp: NewDispatcher(svc)}
}

func mustGrid(rows int) Type {
	t, err := GridType(rows)
	if err != nil {
		panic(fmt.Sprintf("grid type: %v", err))
	}
	return t
}
