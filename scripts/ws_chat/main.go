package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/reman131/chat-app/internal/proto"
)

// session remembers the room the server last confirmed, so plain lines go there.
type session struct {
	mu   sync.Mutex
	room string
}

func (s *session) setRoom(room string) {
	s.mu.Lock()
	s.room = room
	s.mu.Unlock()
}

func (s *session) currentRoom() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:3000/ws", "WebSocket address")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	fmt.Printf("Connected to %s\n", *addr)
	fmt.Println("Commands: /nick <name>, /join <room>, /rooms. Other lines are sent to the current room. Ctrl+C to exit.")

	sess := &session{}
	go func() {
		defer cancel()
		readLoop(ctx, conn, sess)
	}()

	writeLoop(ctx, conn, sess)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn, sess *session) {
	for {
		var outbound struct {
			Type  string          `json:"type"`
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
			Error *proto.Error    `json:"error"`
		}
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		if outbound.Type == proto.OutboundTypeError && outbound.Error != nil {
			fmt.Printf("! %s: %s\n", outbound.Error.Code, outbound.Error.Msg)
			continue
		}

		switch outbound.Event {
		case proto.EventNameResult:
			var evt proto.NameResult
			if err := json.Unmarshal(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal nameResult: %v", err)
				continue
			}
			if evt.Success {
				fmt.Printf("You are now known as %s.\n", evt.Name)
			} else {
				fmt.Println(evt.Message)
			}
		case proto.EventJoinResult:
			var evt proto.JoinResult
			if err := json.Unmarshal(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal joinResult: %v", err)
				continue
			}
			sess.setRoom(evt.Room)
			fmt.Printf("Room changed to %s.\n", evt.Room)
		case proto.EventMessage:
			var evt proto.MessageText
			if err := json.Unmarshal(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal message: %v", err)
				continue
			}
			fmt.Println(evt.Text)
		case proto.EventRooms:
			var evt proto.RoomsSnapshot
			if err := json.Unmarshal(outbound.Data, &evt); err != nil {
				log.Printf("unmarshal rooms: %v", err)
				continue
			}
			names := make([]string, 0, len(evt))
			for room := range evt {
				names = append(names, room)
			}
			sort.Strings(names)
			for _, room := range names {
				fmt.Printf("  %s: %s\n", room, strings.Join(evt[room], ", "))
			}
		default:
			fmt.Printf("event=%s data=%s\n", outbound.Event, outbound.Data)
		}
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, sess *session) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}

			inbound, err := parseLine(text, sess.currentRoom())
			if err != nil {
				fmt.Printf("! %v\n", err)
				continue
			}
			if err := wsjson.Write(ctx, conn, inbound); err != nil {
				log.Printf("send error: %v", err)
				return
			}
		}
	}
}

func parseLine(text, room string) (proto.Inbound, error) {
	if !strings.HasPrefix(text, "/") {
		return envelope(proto.InboundTypeMessage, proto.MessageData{Room: room, Text: text})
	}

	command, arg, _ := strings.Cut(text[1:], " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(command) {
	case "nick":
		return envelope(proto.InboundTypeNameAttempt, proto.NameAttemptData{Name: arg})
	case "join":
		return envelope(proto.InboundTypeJoin, proto.JoinData{NewRoom: arg})
	case "rooms":
		return proto.Inbound{Type: proto.InboundTypeRooms}, nil
	default:
		return proto.Inbound{}, fmt.Errorf("unrecognized command %q", command)
	}
}

func envelope(typ string, data any) (proto.Inbound, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return proto.Inbound{}, fmt.Errorf("marshal %s: %w", typ, err)
	}
	return proto.Inbound{Type: typ, Data: payload}, nil
}
