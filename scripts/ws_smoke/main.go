package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/reman131/chat-app/internal/proto"
)

type frame struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error,omitempty"`
}

func main() {
	addr := flag.String("addr", "ws://localhost:3000/ws", "WebSocket address")
	name := flag.String("name", "smoke-tester", "display name to request")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	mustSend := func(typ string, data any) {
		var payload json.RawMessage
		if data != nil {
			payload, _ = json.Marshal(data)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: payload}); err != nil {
			log.Fatalf("send %s: %v", typ, err)
		}
	}

	expect := func(event string) frame {
		for {
			var f frame
			if err := wsjson.Read(ctx, conn, &f); err != nil {
				log.Fatalf("read while waiting for %s: %v", event, err)
			}
			if f.Type == proto.OutboundTypeError && f.Error != nil {
				log.Fatalf("server error while waiting for %s: %s %s", event, f.Error.Code, f.Error.Msg)
			}
			fmt.Printf("received event=%s data=%s\n", f.Event, f.Data)
			if f.Event == event {
				return f
			}
		}
	}

	expect(proto.EventNameResult)
	expect(proto.EventJoinResult)

	mustSend(proto.InboundTypeNameAttempt, proto.NameAttemptData{Name: *name})
	var result proto.NameResult
	if err := json.Unmarshal(expect(proto.EventNameResult).Data, &result); err != nil {
		log.Fatalf("decode nameResult: %v", err)
	}
	if !result.Success {
		log.Fatalf("rename refused: %s", result.Message)
	}

	mustSend(proto.InboundTypeRooms, nil)
	expect(proto.EventRooms)

	fmt.Println("smoke test passed")
}
