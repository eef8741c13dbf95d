package menu

import "menugrid.gg/internal/host"

// Recorder observes session lifecycle and interaction events. It is an
// optional integration: register an implementation as a Service capability
// and the core starts calling it, no other coupling. Implementations must
// be safe for concurrent use and must not block; they run inline on owning
// contexts.
type Recorder interface {
	MenuOpened(user host.UserID, generation uint64, title string)
	MenuClosed(user host.UserID, generation uint64, willReopen bool)
	MenuClicked(user host.UserID, generation uint64, slot int)
}

// MultiRecorder fans out to several recorders in order.
type MultiRecorder []Recorder

func (m MultiRecorder) MenuOpened(user host.UserID, generation uint64, title string) {
	for _, r := range m {
		r.MenuOpened(user, generation, title)
	}
}

func (m MultiRecorder) MenuClosed(user host.UserID, generation uint64, willReopen bool) {
	for _, r := range m {
		r.MenuClosed(user, generation, willReopen)
	}
}

func (m MultiRecorder) MenuClicked(user host.UserID, generation uint64, slot int) {
	for _, r := range m {
		r.MenuClicked(user, generation, slot)
	}
}
