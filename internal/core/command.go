package core

// Command is an input the core reacts to for one connection.
// The set of implementations is closed: Connect, RenameRequest, JoinRequest,
// SendMessage, RoomsQuery and Disconnect.
type Command interface {
	command()
}

// Connect is emitted once when the transport accepts a connection.
type Connect struct{}

// RenameRequest asks to change the connection's display name.
type RenameRequest struct {
	Name string
}

// JoinRequest asks to move the connection to another room.
type JoinRequest struct {
	Room string
}

// SendMessage is a chat line addressed to Room.
type SendMessage struct {
	Room string
	Text string
}

// RoomsQuery asks for a snapshot of all occupied rooms.
type RoomsQuery struct{}

// Disconnect is emitted once when the transport drops the connection.
type Disconnect struct{}

func (Connect) command()       {}
func (RenameRequest) command() {}
func (JoinRequest) command()   {}
func (SendMessage) command()   {}
func (RoomsQuery) command()    {}
func (Disconnect) command()    {}
