package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventNameResult answers a name assignment or rename attempt.
	EventNameResult EventKind = iota
	// EventJoinResult confirms the room a client is now in.
	EventJoinResult
	// EventMessage carries a chat line or a system announcement.
	EventMessage
	// EventRooms delivers a room to member-names snapshot.
	EventRooms
)

func (k EventKind) String() string {
	switch k {
	case EventNameResult:
		return "nameResult"
	case EventJoinResult:
		return "joinResult"
	case EventMessage:
		return "message"
	case EventRooms:
		return "rooms"
	default:
		return "unknown"
	}
}

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind    EventKind
	Success bool   // EventNameResult
	Name    string // EventNameResult on success
	Room    string // EventJoinResult
	Text    string // EventMessage
	Error   *CoreError
	Rooms   map[string][]string // EventRooms
}

// Delivery addresses an Event either to one connection or to a room.
type Delivery struct {
	// To is the target connection of a unicast. Empty for room broadcasts.
	To string
	// Room receives the event when To is empty.
	Room string
	// Except is skipped when broadcasting to Room.
	Except string
	Event  *Event
}

func unicast(conn string, ev *Event) Delivery {
	return Delivery{To: conn, Event: ev}
}

func broadcast(room, except string, ev *Event) Delivery {
	return Delivery{Room: room, Except: except, Event: ev}
}

func textEvent(text string) *Event {
	return &Event{Kind: EventMessage, Text: text}
}
