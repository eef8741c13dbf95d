package host

// View is the platform's concrete, rendered instance of a screen. Handles
// are compared by identity: two opens of the same template yield distinct
// Views. The generation stamp is set at construction and never changes.
type View interface {
	// Generation returns the session generation this view was opened under.
	Generation() uint64
	// Size returns the number of slots.
	Size() int
	// Slot reads a slot; out-of-range reads return the empty Item.
	Slot(i int) Item
	// SetSlot writes a slot; out-of-range writes are ignored.
	SetSlot(i int, it Item)
}

// Platform constructs and tears down views and owns the user's cursor.
// Every method must be called on the user's owning context.
type Platform interface {
	// OpenGrid opens a chest-style grid of rows*9 slots.
	OpenGrid(user UserID, rows int, title string, generation uint64) (View, error)
	// OpenNative opens a platform-native layout by name (e.g. "HOPPER").
	OpenNative(user UserID, layout string, title string, generation uint64) (View, error)
	// CloseView asks the platform to close the user's open view. The
	// platform will deliver a CloseEvent for it afterwards.
	CloseView(user UserID, v View)

	// CursorItem reports what the user is holding on their cursor.
	CursorItem(user UserID) Item
	// SetCursorItem replaces the cursor item (the zero Item clears it).
	SetCursorItem(user UserID, it Item)
	// GiveItem returns an item to the user's own inventory.
	GiveItem(user UserID, it Item)
	// DropItem drops an item into the world at the user's position.
	DropItem(user UserID, it Item)
}
