package core

import (
	"fmt"
	"strings"
)

// RoomPolicy decides which room a SendMessage is delivered to.
type RoomPolicy int

const (
	// TrustDeclaredRoom delivers to the room named in the message, even one the
	// sender never joined.
	TrustDeclaredRoom RoomPolicy = iota
	// TrackedRoom ignores the declared room and delivers to the sender's current room.
	TrackedRoom
)

// ParseRoomPolicy accepts "declared" or "tracked". Empty means declared.
func ParseRoomPolicy(s string) (RoomPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "declared":
		return TrustDeclaredRoom, nil
	case "tracked":
		return TrackedRoom, nil
	default:
		return TrustDeclaredRoom, fmt.Errorf("unknown message room policy %q", s)
	}
}

func (p RoomPolicy) String() string {
	if p == TrackedRoom {
		return "tracked"
	}
	return "declared"
}
