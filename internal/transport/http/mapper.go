package http

import (
	"encoding/json"

	"github.com/reman131/chat-app/internal/core"
	"github.com/reman131/chat-app/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (core.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeNameAttempt:
		var attempt proto.NameAttemptData
		if err := decode(inbound.Data, &attempt); err != nil {
			return nil, nil, err
		}
		if attempt.Name == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "name is required"}, nil
		}
		return core.RenameRequest{Name: attempt.Name}, nil, nil
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if err := decode(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.NewRoom == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "newRoom is required"}, nil
		}
		return core.JoinRequest{Room: join.NewRoom}, nil, nil
	case proto.InboundTypeMessage:
		var msg proto.MessageData
		if err := decode(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		if msg.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return core.SendMessage{Room: msg.Room, Text: msg.Text}, nil, nil
	case proto.InboundTypeRooms:
		return core.RoomsQuery{}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventNameResult:
		result := proto.NameResult{Success: event.Success, Name: event.Name}
		if event.Error != nil {
			result.Message = event.Error.Message
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameResult,
			Data:  result,
		}
	case core.EventJoinResult:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventJoinResult,
			Data:  proto.JoinResult{Room: event.Room},
		}
	case core.EventMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventMessage,
			Data:  proto.MessageText{Text: event.Text},
		}
	case core.EventRooms:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRooms,
			Data:  proto.RoomsSnapshot(event.Rooms),
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

// decode treats a missing data object as empty so validation can answer bad_request.
func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
