package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/reman131/chat-app/internal/config"
	"github.com/reman131/chat-app/internal/proto"
)

func TestNewRejectsUnknownPolicy(t *testing.T) {
	logger := zerolog.Nop()
	cfg := config.Default()
	cfg.MessageRoomPolicy = "anything-goes"

	if _, err := New(&cfg, &logger); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}

func TestRunServesUntilCancelled(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	logger := zerolog.Nop()
	cfg := config.Default()
	cfg.Addr = addr
	cfg.ShutdownTimeout = time.Second

	application, err := New(&cfg, &logger)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("health status = %d", resp.StatusCode)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("run did not stop")
	}
}

func TestHandlerServesWebSocketHandshake(t *testing.T) {
	logger := zerolog.Nop()
	cfg := config.Default()
	cfg.StaticDir = t.TempDir()

	application, err := New(&cfg, &logger)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go application.hub.Run(ctx)

	ts := httptest.NewServer(application.Handler())
	defer ts.Close()

	conn, _, err := websocket.Dial(ctx, strings.Replace(ts.URL, "http", "ws", 1)+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	var name proto.NameResult
	if event := readEvent(ctx, t, conn, &name); event != proto.EventNameResult || !name.Success || name.Name != "Guest1" {
		t.Fatalf("unexpected first event %q: %+v", event, name)
	}

	var join proto.JoinResult
	if event := readEvent(ctx, t, conn, &join); event != proto.EventJoinResult || join.Room != "Lobby" {
		t.Fatalf("unexpected second event %q: %+v", event, join)
	}
}

func readEvent(ctx context.Context, t *testing.T, conn *websocket.Conn, into any) string {
	t.Helper()

	var frame struct {
		Type  string          `json:"type"`
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := wsjson.Read(ctx, conn, &frame); err != nil {
		t.Fatalf("read: %v", err)
	}
	if frame.Type != proto.OutboundTypeEvent {
		t.Fatalf("unexpected frame type %q", frame.Type)
	}
	if err := json.Unmarshal(frame.Data, into); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	return frame.Event
}
