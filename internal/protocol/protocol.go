package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello        = "HELLO"
	TypeWelcome      = "WELCOME"
	TypeViewOpen     = "VIEW_OPEN"
	TypeViewSlots    = "VIEW_SLOTS"
	TypeViewClose    = "VIEW_CLOSE"
	TypeClick        = "CLICK"
	TypeDrag         = "DRAG"
	TypeScreenClosed = "SCREEN_CLOSED"
	TypeAck          = "ACK"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
