package main

import (
	"fmt"
	"time"

	"menugrid.gg/internal/host"
	"menugrid.gg/internal/menu"
	"menugrid.gg/internal/menu/slot"
)

// Demo screens: a lobby with a single button and a paginated ware catalog.
// They double as a reference for how templates, iterators and the cache
// compose.

const (
	lobbyCatalogSlot = 13

	catalogPageSize  = 45 // top five rows
	catalogPrevSlot  = 45
	catalogCloseSlot = 49
	catalogNextSlot  = 53

	pageCacheKey = "catalog_page"
)

type demoMenus struct {
	stock   []host.Item
	lobby   *menu.Definition
	catalog *menu.Definition
}

func buildMenus(refresh time.Duration) (*menu.Definition, error) {
	m := &demoMenus{stock: wares()}
	var err error
	if m.catalog, err = m.buildCatalog(); err != nil {
		return nil, err
	}
	if m.lobby, err = m.buildLobby(refresh); err != nil {
		return nil, err
	}
	return m.lobby, nil
}

func wares() []host.Item {
	out := make([]host.Item, 0, 64)
	for i := 0; i < 64; i++ {
		out = append(out, host.Item{ID: fmt.Sprintf("ware_%02d", i), Count: 1})
	}
	return out
}

func (m *demoMenus) buildLobby(refresh time.Duration) (*menu.Definition, error) {
	return menu.NewBuilder(mustGrid(3)).
		Title(func(host.UserID) string { return "Lobby" }).
		Refresh(refresh).
		CursorPolicy(menu.CursorReturn).
		Render(func(a *menu.Actions) {
			v := a.View()
			frame := slot.Pattern('#',
				"#########",
				"#.......#",
				"#########",
			)
			for {
				i, ok := frame.Next()
				if !ok {
					break
				}
				v.SetSlot(i, host.Item{ID: "pane", Count: 1})
			}
			v.SetSlot(lobbyCatalogSlot, host.Item{ID: "catalog_book", Count: 1})
		}).
		OnClick(func(a *menu.Actions, ev *host.ClickEvent) {
			ev.Cancelled = true
			if ev.Slot == lobbyCatalogSlot {
				a.Cache().PutSession(a.User(), pageCacheKey, 0)
				a.TransitionTo(m.catalog)
			}
		}).
		Build()
}

func (m *demoMenus) buildCatalog() (*menu.Definition, error) {
	return menu.NewBuilder(mustGrid(6)).
		Title(func(host.UserID) string { return "Catalog" }).
		CursorPolicy(menu.CursorVoid).
		Render(m.drawCatalog).
		OnClick(func(a *menu.Actions, ev *host.ClickEvent) {
			ev.Cancelled = true
			switch ev.Slot {
			case catalogCloseSlot:
				a.Close()
			case catalogPrevSlot, catalogNextSlot:
				m.turnPage(a, ev.Slot == catalogNextSlot)
				// Redraw on the next pass; the platform is still
				// dispatching against this grid.
				sess := a.Session()
				view := ev.View
				a.NextTick(func() {
					if v := sess.View(); v != nil && v == view {
						m.drawCatalog(a)
					}
				})
			}
		}).
		OnClose(func(a *menu.Actions, willReopen bool) {
			if !willReopen {
				a.Cache().PutSession(a.User(), pageCacheKey, 0)
			}
		}).
		Build()
}

func (m *demoMenus) paginator(a *menu.Actions) *slot.Paginator[host.Item] {
	page, _ := menu.SessionAs[int](a.Cache(), a.User(), pageCacheKey)
	p := slot.NewPaginator(m.stock, catalogPageSize)
	p.SetPage(page)
	return p
}

func (m *demoMenus) turnPage(a *menu.Actions, forward bool) {
	p := m.paginator(a)
	if forward {
		p.NextPage()
	} else {
		p.PrevPage()
	}
	a.Cache().PutSession(a.User(), pageCacheKey, p.Page())
}

func (m *demoMenus) drawCatalog(a *menu.Actions) {
	v := a.View()
	items := m.paginator(a).PageItems()

	n := 0
	grid := slot.Grid(5, 9)
	for {
		i, ok := grid.Next()
		if !ok {
			break
		}
		if n < len(items) {
			v.SetSlot(i, items[n])
		} else {
			v.SetSlot(i, host.Item{})
		}
		n++
	}

	v.SetSlot(catalogPrevSlot, host.Item{ID: "arrow_prev", Count: 1})
	v.SetSlot(catalogCloseSlot, host.Item{ID: "barrier", Count: 1})
	v.SetSlot(catalogNextSlot, host.Item{ID: "arrow_next", Count: 1})
}

func mustGrid(rows int) menu.Type {
	t, err := menu.GridType(rows)
	if err != nil {
		panic(err)
	}
	return t
}
