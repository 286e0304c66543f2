package messages

import (
	"encoding/json"
	"fmt"
)

// Serialize encodes a message as a flat JSON object with a "type"
// discriminant field alongside the message's own fields.
func Serialize(m Message) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %v", err)
	}

	obj := make(map[string]json.RawMessage)
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, fmt.Errorf("failed to serialize message: %v", err)
	}
	typeBytes, err := json.Marshal(m.MessageType())
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message type: %v", err)
	}
	obj["type"] = typeBytes

	return json.Marshal(obj)
}

// Deserialize decodes a flat JSON object into the concrete message named by
// its "type" field.
func Deserialize(data []byte) (Message, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	msg := newMessage(envelope.Type)
	if msg == nil {
		return nil, fmt.Errorf("unknown message type: %s", envelope.Type)
	}

	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("failed to deserialize %s message: %v", envelope.Type, err)
	}

	return msg, nil
}

// newMessage maps a type discriminant to an empty concrete message.
func newMessage(messageType string) Message {
	switch messageType {
	case MessageTypeCreateGameRequest:
		return &CreateGameRequest{}
	case MessageTypeCreateGameResponse:
		return &CreateGameResponse{}
	case MessageTypeJoinGameRequest:
		return &JoinGameRequest{}
	case MessageTypeWaitingForPlayer:
		return &WaitingForPlayer{}
	case MessageTypeListGamesRequest:
		return &ListGamesRequest{}
	case MessageTypeListGamesResponse:
		return &ListGamesResponse{}
	case MessageTypeGameStart:
		return &GameStart{}
	case MessageTypeMoveRequest:
		return &MoveRequest{}
	case MessageTypeMoveResult:
		return &MoveResult{}
	case MessageTypeExitGameRequest:
		return &ExitGameRequest{}
	case MessageTypeGameEnd:
		return &GameEnd{}
	case MessageTypePlayerDisconnect:
		return &PlayerDisconnect{}
	case MessageTypeErrorMessage:
		return &ErrorMessage{}
	case MessageTypePing:
		return &Ping{}
	case MessageTypePong:
		return &Pong{}
	default:
		return nil
	}
}
