package host

// Events are delivered by the platform on the acting user's owning context.
// Handlers may flip Cancelled on click/drag events before returning; the
// platform reads it once dispatch finishes.

type ClickEvent struct {
	User   UserID
	View   View
	Slot   int
	Button Button
	Cursor Item

	Cancelled bool
}

type DragEvent struct {
	User  UserID
	View  View
	Slots []int

	Cancelled bool
}

type CloseEvent struct {
	User UserID
	View View
}

type DisconnectEvent struct {
	User UserID
}
