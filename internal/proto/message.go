package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

const (
	InboundTypeNameAttempt = "nameAttempt"
	InboundTypeJoin        = "join"
	InboundTypeMessage     = "message"
	InboundTypeRooms       = "rooms"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventNameResult = "nameResult"
	EventJoinResult = "joinResult"
	EventMessage    = "message"
	EventRooms      = "rooms"
)

// NameAttemptData requests a new display name.
type NameAttemptData struct {
	Name string `json:"name"`
}

// JoinData requests a move to another room.
type JoinData struct {
	NewRoom string `json:"newRoom"`
}

// MessageData is a chat message from the client.
type MessageData struct {
	Room string `json:"room"`
	Text string `json:"text"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// NameResult answers a guest assignment or a rename attempt.
type NameResult struct {
	Success bool   `json:"success"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message,omitempty"`
}

// JoinResult confirms the room the client is now in.
type JoinResult struct {
	Room string `json:"room"`
}

// MessageText is a chat line or a system announcement.
type MessageText struct {
	Text string `json:"text"`
}

// RoomsSnapshot maps each occupied room to its members' names.
type RoomsSnapshot map[string][]string

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
