package core

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ErrHubStopped is returned by queries made after Run has exited.
var ErrHubStopped = errors.New("hub stopped")

type envelope struct {
	client *Client
	cmd    Command
}

// Hub owns all session state and serializes every change to it on the goroutine
// running Run. Transports talk to it through RegisterClient, UnregisterClient,
// Client.Commands and Rooms.
type Hub struct {
	coord   *Coordinator
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	inbox      chan envelope
	queries    chan chan map[string][]string
	done       chan struct{}

	log *zerolog.Logger
}

// NewHub creates a hub. A nil logger disables logging.
func NewHub(opts Options, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		coord:      NewCoordinator(opts),
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbox:      make(chan envelope),
		queries:    make(chan chan map[string][]string),
		done:       make(chan struct{}),
		log:        logger,
	}
}

// Run processes registrations, commands and queries until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.add(ctx, c)
		case c := <-h.unregister:
			h.remove(c)
		case env := <-h.inbox:
			if h.clients[env.client.ID] != env.client {
				h.log.Debug().Str("client_id", env.client.ID).Msg("dropping command from stale client")
				continue
			}
			if _, ok := env.cmd.(Disconnect); ok {
				h.remove(env.client)
				continue
			}
			h.dispatch(env.client.ID, env.cmd)
		case reply := <-h.queries:
			reply <- h.coord.Snapshot()
		}
	}
}

// RegisterClient connects c. The client immediately receives its guest name and
// joins the default room.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// UnregisterClient disconnects c and closes its Events channel.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Rooms returns the current room to member-names snapshot.
func (h *Hub) Rooms(ctx context.Context) (map[string][]string, error) {
	reply := make(chan map[string][]string, 1)
	select {
	case h.queries <- reply:
	case <-h.done:
		return nil, ErrHubStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case rooms := <-reply:
		return rooms, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Hub) add(ctx context.Context, c *Client) {
	if _, exists := h.clients[c.ID]; exists {
		h.log.Warn().Str("client_id", c.ID).Msg("client already registered")
		return
	}
	h.clients[c.ID] = c
	go h.forward(ctx, c)

	h.dispatch(c.ID, Connect{})
	h.log.Debug().
		Str("client_id", c.ID).
		Str("name", h.coord.Identities().NameOf(c.ID)).
		Int("clients", len(h.clients)).
		Msg("client connected")
}

func (h *Hub) remove(c *Client) {
	if h.clients[c.ID] != c {
		return
	}
	name, _ := h.coord.Identities().Lookup(c.ID)
	h.dispatch(c.ID, Disconnect{})
	delete(h.clients, c.ID)
	close(c.done)
	close(c.Events)
	h.log.Debug().Str("client_id", c.ID).Str("name", name).Int("clients", len(h.clients)).Msg("client disconnected")
}

// forward moves commands from one client into the hub inbox so that every
// mutation happens on the Run goroutine.
func (h *Hub) forward(ctx context.Context, c *Client) {
	for {
		select {
		case cmd := <-c.Commands:
			select {
			case h.inbox <- envelope{client: c, cmd: cmd}:
			case <-c.done:
				return
			case <-ctx.Done():
				return
			}
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) dispatch(conn string, cmd Command) {
	deliveries, err := h.coord.Handle(conn, cmd)
	if err != nil {
		h.log.Warn().Err(err).Str("client_id", conn).Msgf("rejected %T", cmd)
		return
	}
	h.deliver(deliveries)
}

func (h *Hub) deliver(deliveries []Delivery) {
	for _, d := range deliveries {
		if d.To != "" {
			h.send(d.To, d.Event)
			continue
		}
		for _, member := range h.coord.Directory().MembersOf(d.Room) {
			if member == d.Except {
				continue
			}
			h.send(member, d.Event)
		}
	}
}

func (h *Hub) send(conn string, ev *Event) {
	c, ok := h.clients[conn]
	if !ok {
		return
	}
	select {
	case c.Events <- ev:
	default:
		// Drop if slow consumer.
		h.log.Warn().Str("client_id", conn).Stringer("event", ev.Kind).Msg("client buffer full, event dropped")
	}
}

func (h *Hub) shutdown() {
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.done)
		close(c.Events)
	}
}
