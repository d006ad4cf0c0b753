package core

const defaultClientBuffer = 16

// Client is a connection as seen by the core layer.
// The transport writes to Commands and drains Events; the Hub closes Events
// once the client is unregistered.
type Client struct {
	ID       string
	Commands chan Command
	Events   chan *Event

	done chan struct{}
}

// NewClient constructs a client with initialized channels.
// A non-positive buffer falls back to a small default.
func NewClient(id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = defaultClientBuffer
	}
	return &Client{
		ID:       id,
		Commands: make(chan Command, buffer),
		Events:   make(chan *Event, buffer),
		done:     make(chan struct{}),
	}
}

// Done is closed when the Hub has forgotten the client.
func (c *Client) Done() <-chan struct{} {
	return c.done
}
