package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func startHub(t *testing.T, opts Options) *Hub {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)

	hub := NewHub(opts, nil)
	go hub.Run(ctx)
	return hub
}

func connect(t *testing.T, hub *Hub, id string) *Client {
	t.Helper()

	c := NewClient(id, 32)
	hub.RegisterClient(c)
	if ev := mustEvent(t, c.Events, EventNameResult); !ev.Success {
		t.Fatalf("%s: unexpected name result %+v", id, ev)
	}
	mustEvent(t, c.Events, EventJoinResult)
	return c
}

func TestHubConnectJoinAndBroadcast(t *testing.T) {
	hub := startHub(t, Options{})

	alice := NewClient("a", 32)
	hub.RegisterClient(alice)

	nameEv := mustEvent(t, alice.Events, EventNameResult)
	if nameEv.Name != "Guest1" || !nameEv.Success {
		t.Fatalf("unexpected name event: %+v", nameEv)
	}
	joinEv := mustEvent(t, alice.Events, EventJoinResult)
	if joinEv.Room != "Lobby" {
		t.Fatalf("unexpected join event: %+v", joinEv)
	}

	bob := connect(t, hub, "b")
	mustText(t, bob.Events, "Users currently in Lobby: Guest1.")
	mustText(t, alice.Events, "Guest2 has joined Lobby.")

	alice.Commands <- SendMessage{Room: "Lobby", Text: "hi"}
	mustText(t, bob.Events, "Guest1: hi")
	expectQuiet(t, alice.Events)
}

func TestHubAliceScenario(t *testing.T) {
	hub := startHub(t, Options{})

	a := connect(t, hub, "A")
	b := connect(t, hub, "B")
	drain(a.Events)
	drain(b.Events)

	a.Commands <- RenameRequest{Name: "Alice"}
	if ev := mustEvent(t, a.Events, EventNameResult); !ev.Success || ev.Name != "Alice" {
		t.Fatalf("unexpected rename result: %+v", ev)
	}
	mustText(t, b.Events, "Guest1 is now known as Alice.")

	b.Commands <- RenameRequest{Name: "Alice"}
	ev := mustEvent(t, b.Events, EventNameResult)
	if ev.Success || ev.Error == nil || ev.Error.Code != ErrCodeNameTaken {
		t.Fatalf("expected name_taken, got %+v", ev)
	}

	b.Commands <- JoinRequest{Room: "Tech"}
	if ev := mustEvent(t, b.Events, EventJoinResult); ev.Room != "Tech" {
		t.Fatalf("unexpected join result: %+v", ev)
	}

	a.Commands <- SendMessage{Room: "Lobby", Text: "hi"}
	expectQuiet(t, a.Events)
	expectQuiet(t, b.Events)
}

func TestHubUnregisterFreesNameAndClosesEvents(t *testing.T) {
	hub := startHub(t, Options{})

	a := connect(t, hub, "a")
	b := connect(t, hub, "b")

	a.Commands <- RenameRequest{Name: "Alice"}
	mustEvent(t, a.Events, EventNameResult)

	hub.UnregisterClient(a)

	select {
	case <-a.Done():
	case <-time.After(time.Second):
		t.Fatalf("client not released")
	}
	for range a.Events {
	}

	drain(b.Events)
	b.Commands <- RenameRequest{Name: "Alice"}
	if ev := mustEvent(t, b.Events, EventNameResult); !ev.Success {
		t.Fatalf("Alice should be free after disconnect: %+v", ev)
	}

	rooms, err := hub.Rooms(context.Background())
	if err != nil {
		t.Fatalf("rooms: %v", err)
	}
	if lobby := rooms["Lobby"]; len(lobby) != 1 || lobby[0] != "Alice" {
		t.Fatalf("Lobby = %v, want [Alice]", lobby)
	}
}

func TestHubDisconnectCommandRemovesClient(t *testing.T) {
	hub := startHub(t, Options{AnnounceDepartures: true})

	a := connect(t, hub, "a")
	b := connect(t, hub, "b")
	drain(a.Events)

	b.Commands <- Disconnect{}
	mustText(t, a.Events, "Guest2 has left Lobby.")

	select {
	case <-b.Done():
	case <-time.After(time.Second):
		t.Fatalf("client not released")
	}
}

func TestHubRoomsQuery(t *testing.T) {
	hub := startHub(t, Options{})

	a := connect(t, hub, "a")
	b := connect(t, hub, "b")
	b.Commands <- JoinRequest{Room: "Tech"}
	mustEvent(t, b.Events, EventJoinResult)

	a.Commands <- RoomsQuery{}
	ev := mustEvent(t, a.Events, EventRooms)
	if len(ev.Rooms["Lobby"]) != 1 || len(ev.Rooms["Tech"]) != 1 {
		t.Fatalf("unexpected snapshot: %v", ev.Rooms)
	}
}

func TestHubRoomsAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(Options{}, nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := NewClient("a", 0)
	hub.RegisterClient(c)
	cancel()
	<-stopped

	if _, err := hub.Rooms(context.Background()); !errors.Is(err, ErrHubStopped) {
		t.Fatalf("expected ErrHubStopped, got %v", err)
	}
	select {
	case <-c.Done():
	default:
		t.Fatalf("clients should be released on shutdown")
	}
	hub.UnregisterClient(c)
}

func TestHubDropsEventsForSlowConsumer(t *testing.T) {
	hub := startHub(t, Options{})

	slow := NewClient("slow", 1)
	hub.RegisterClient(slow)
	b := connect(t, hub, "b")

	b.Commands <- SendMessage{Room: "Lobby", Text: "one"}
	b.Commands <- SendMessage{Room: "Lobby", Text: "two"}

	// The hub must keep serving other clients while slow never reads.
	b.Commands <- RoomsQuery{}
	mustEvent(t, b.Events, EventRooms)
}
