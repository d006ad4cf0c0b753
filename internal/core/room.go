package core

// Room groups the connections that receive each other's broadcasts.
type Room struct {
	Name    string
	members map[string]struct{}
}

// NewRoom constructs a room with no members.
func NewRoom(name string) *Room {
	return &Room{
		Name:    name,
		members: make(map[string]struct{}),
	}
}

// AddMember inserts a connection into the room. Returns true if newly added.
func (r *Room) AddMember(conn string) bool {
	if _, exists := r.members[conn]; exists {
		return false
	}
	r.members[conn] = struct{}{}
	return true
}

// RemoveMember deletes a connection from the room. Returns true if removed.
func (r *Room) RemoveMember(conn string) bool {
	if _, exists := r.members[conn]; !exists {
		return false
	}
	delete(r.members, conn)
	return true
}

// Members returns the connections in the room in no particular order.
func (r *Room) Members() []string {
	out := make([]string, 0, len(r.members))
	for conn := range r.members {
		out = append(out, conn)
	}
	return out
}

// Empty returns true if no connections are in the room.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}
