package core

import (
	"errors"
	"sort"
	"strings"
)

// DefaultRoom is where every connection lands after connecting.
const DefaultRoom = "Lobby"

var (
	// ErrUnknownConnection is returned for commands from a connection that is not active.
	ErrUnknownConnection = errors.New("unknown connection")
	// ErrAlreadyConnected is returned when Connect arrives twice for one connection.
	ErrAlreadyConnected = errors.New("connection already active")
	// ErrUnknownCommand is returned for Command implementations the coordinator does not know.
	ErrUnknownCommand = errors.New("unknown command")
)

// Options tune the coordinator's product decisions.
type Options struct {
	// DefaultRoom overrides the room joined on connect. Empty means "Lobby".
	DefaultRoom string
	// Policy picks the destination room for chat messages.
	Policy RoomPolicy
	// AnnounceDepartures broadcasts "<name> has left <room>." on disconnect and room change.
	AnnounceDepartures bool
}

// Coordinator turns per-connection commands into registry changes and outbound deliveries.
// It performs no I/O and is not safe for concurrent use.
type Coordinator struct {
	ids   *IdentityRegistry
	rooms *RoomDirectory
	opts  Options
}

// NewCoordinator builds a coordinator with fresh registries.
func NewCoordinator(opts Options) *Coordinator {
	if opts.DefaultRoom == "" {
		opts.DefaultRoom = DefaultRoom
	}
	return &Coordinator{
		ids:   NewIdentityRegistry(),
		rooms: NewRoomDirectory(),
		opts:  opts,
	}
}

// Identities exposes the identity registry for read access.
func (c *Coordinator) Identities() *IdentityRegistry { return c.ids }

// Directory exposes the room directory for read access.
func (c *Coordinator) Directory() *RoomDirectory { return c.rooms }

// Active reports whether conn has connected and not yet disconnected.
func (c *Coordinator) Active(conn string) bool {
	_, ok := c.ids.Lookup(conn)
	return ok
}

// Handle applies cmd for conn and returns the deliveries to perform, in order.
// Room broadcasts are meant to be resolved against the directory after Handle returns.
func (c *Coordinator) Handle(conn string, cmd Command) ([]Delivery, error) {
	if _, ok := cmd.(Connect); ok {
		if c.Active(conn) {
			return nil, ErrAlreadyConnected
		}
		return c.connect(conn), nil
	}
	if !c.Active(conn) {
		return nil, ErrUnknownConnection
	}

	switch cmd := cmd.(type) {
	case RenameRequest:
		return c.rename(conn, cmd.Name), nil
	case JoinRequest:
		return c.changeRoom(conn, cmd.Room), nil
	case SendMessage:
		return c.send(conn, cmd), nil
	case RoomsQuery:
		return []Delivery{unicast(conn, &Event{Kind: EventRooms, Rooms: c.Snapshot()})}, nil
	case Disconnect:
		return c.disconnect(conn), nil
	default:
		return nil, ErrUnknownCommand
	}
}

// Snapshot maps every occupied room to the sorted display names of its members.
func (c *Coordinator) Snapshot() map[string][]string {
	out := make(map[string][]string)
	for _, room := range c.rooms.Rooms() {
		members := c.rooms.MembersOf(room)
		names := make([]string, 0, len(members))
		for _, conn := range members {
			names = append(names, c.ids.NameOf(conn))
		}
		sort.Strings(names)
		out[room] = names
	}
	return out
}

func (c *Coordinator) connect(conn string) []Delivery {
	name := c.ids.AssignGuestName(conn)
	out := []Delivery{unicast(conn, &Event{Kind: EventNameResult, Success: true, Name: name})}
	return append(out, c.join(conn, c.opts.DefaultRoom)...)
}

func (c *Coordinator) join(conn, room string) []Delivery {
	c.rooms.MoveTo(conn, room)
	name := c.ids.NameOf(conn)

	out := []Delivery{
		unicast(conn, &Event{Kind: EventJoinResult, Room: room}),
		broadcast(room, conn, textEvent(name+" has joined "+room+".")),
	}

	members := c.rooms.MembersOf(room)
	if len(members) > 1 {
		others := make([]string, 0, len(members)-1)
		for _, member := range members {
			if member != conn {
				others = append(others, c.ids.NameOf(member))
			}
		}
		sort.Strings(others)
		summary := "Users currently in " + room + ": " + strings.Join(others, ", ") + "."
		out = append(out, unicast(conn, textEvent(summary)))
	}
	return out
}

func (c *Coordinator) rename(conn, requested string) []Delivery {
	previous, err := c.ids.AttemptRename(conn, requested)
	if err != nil {
		var coreErr *CoreError
		if !errors.As(err, &coreErr) {
			coreErr = coreError(ErrCodeBadRequest, err.Error())
		}
		return []Delivery{unicast(conn, &Event{Kind: EventNameResult, Error: coreErr})}
	}

	out := []Delivery{unicast(conn, &Event{Kind: EventNameResult, Success: true, Name: requested})}
	if room, ok := c.rooms.CurrentRoom(conn); ok {
		out = append(out, broadcast(room, conn, textEvent(previous+" is now known as "+requested+".")))
	}
	return out
}

// changeRoom re-runs the join sequence even when room is the current one.
func (c *Coordinator) changeRoom(conn, room string) []Delivery {
	var out []Delivery
	if current, ok := c.rooms.CurrentRoom(conn); ok {
		c.rooms.Leave(conn)
		if c.opts.AnnounceDepartures && current != room {
			out = append(out, c.departure(conn, current))
		}
	}
	return append(out, c.join(conn, room)...)
}

func (c *Coordinator) send(conn string, msg SendMessage) []Delivery {
	room := msg.Room
	if c.opts.Policy == TrackedRoom {
		current, ok := c.rooms.CurrentRoom(conn)
		if !ok {
			return nil
		}
		room = current
	}
	return []Delivery{broadcast(room, conn, textEvent(c.ids.NameOf(conn)+": "+msg.Text))}
}

func (c *Coordinator) disconnect(conn string) []Delivery {
	var out []Delivery
	if room, ok := c.rooms.CurrentRoom(conn); ok && c.opts.AnnounceDepartures {
		out = append(out, c.departure(conn, room))
	}
	c.ids.Release(conn)
	c.rooms.Leave(conn)
	return out
}

func (c *Coordinator) departure(conn, room string) Delivery {
	return broadcast(room, conn, textEvent(c.ids.NameOf(conn)+" has left "+room+"."))
}
