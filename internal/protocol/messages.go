package protocol

// ItemRef is an item stack on the wire. A missing/zero ref means empty.
type ItemRef struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// SlotItem pins an item to a slot index in a view payload.
type SlotItem struct {
	Slot  int    `json:"slot"`
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// Client -> server.

type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	PlayerName      string `json:"player_name"`
}

type ClickMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	ActionID        string   `json:"action_id"`
	ViewID          string   `json:"view_id"`
	Generation      uint64   `json:"generation"`
	Slot            int      `json:"slot"`
	Button          string   `json:"button"`
	Cursor          *ItemRef `json:"cursor,omitempty"`
}

type DragMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ActionID        string `json:"action_id"`
	ViewID          string `json:"view_id"`
	Generation      uint64 `json:"generation"`
	Slots           []int  `json:"slots"`
}

// ScreenClosedMsg reports that the client's screen was closed, whether by
// the user or in response to a VIEW_CLOSE.
type ScreenClosedMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ViewID          string `json:"view_id"`
	Generation      uint64 `json:"generation"`
}

// Server -> client.

type WelcomeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	UserID          string `json:"user_id"`
	PlayerName      string `json:"player_name"`
}

type ViewOpenMsg struct {
	Type       string     `json:"type"`
	ViewID     string     `json:"view_id"`
	Generation uint64     `json:"generation"`
	Rows       int        `json:"rows,omitempty"`
	Layout     string     `json:"layout,omitempty"`
	Size       int        `json:"size"`
	Title      string     `json:"title"`
	Slots      []SlotItem `json:"slots,omitempty"`
}

type ViewSlotsMsg struct {
	Type       string     `json:"type"`
	ViewID     string     `json:"view_id"`
	Generation uint64     `json:"generation"`
	Slots      []SlotItem `json:"slots"`
}

type ViewCloseMsg struct {
	Type       string `json:"type"`
	ViewID     string `json:"view_id"`
	Generation uint64 `json:"generation"`
}

// AckMsg answers every CLICK/DRAG. A stale interaction is acked with
// Accepted=false and a code; the client simply re-renders from the next
// VIEW_* frame. Cancelled reports that the handler vetoed the item
// movement of a delivered interaction.
type AckMsg struct {
	Type      string `json:"type"`
	AckFor    string `json:"ack_for"`
	Accepted  bool   `json:"accepted"`
	Cancelled bool   `json:"cancelled,omitempty"`
	Code      string `json:"code,omitempty"`
}
