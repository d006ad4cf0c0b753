package core

// RoomDirectory tracks which room each connection is in.
// A connection is in at most one room; a room with no members is forgotten.
// Like IdentityRegistry it is owned by the Hub loop and not safe for concurrent use.
type RoomDirectory struct {
	current map[string]string
	rooms   map[string]*Room
}

// NewRoomDirectory returns an empty directory.
func NewRoomDirectory() *RoomDirectory {
	return &RoomDirectory{
		current: make(map[string]string),
		rooms:   make(map[string]*Room),
	}
}

// CurrentRoom returns the connection's room, if it has joined one.
func (d *RoomDirectory) CurrentRoom(conn string) (string, bool) {
	room, ok := d.current[conn]
	return room, ok
}

// MoveTo places the connection in room, taking it out of its previous room first.
func (d *RoomDirectory) MoveTo(conn, room string) {
	d.Leave(conn)

	r, ok := d.rooms[room]
	if !ok {
		r = NewRoom(room)
		d.rooms[room] = r
	}
	r.AddMember(conn)
	d.current[conn] = room
}

// MembersOf returns the connections in room. Order is unspecified.
func (d *RoomDirectory) MembersOf(room string) []string {
	r, ok := d.rooms[room]
	if !ok {
		return nil
	}
	return r.Members()
}

// Leave removes the connection from whatever room it occupies.
func (d *RoomDirectory) Leave(conn string) {
	room, ok := d.current[conn]
	if !ok {
		return
	}
	delete(d.current, conn)

	if r, exists := d.rooms[room]; exists {
		r.RemoveMember(conn)
		if r.Empty() {
			delete(d.rooms, room)
		}
	}
}

// Rooms returns the names of all rooms that currently have members.
func (d *RoomDirectory) Rooms() []string {
	out := make([]string, 0, len(d.rooms))
	for name := range d.rooms {
		out = append(out, name)
	}
	return out
}
