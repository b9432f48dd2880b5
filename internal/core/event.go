package core

import (
	"encoding/json"

	"github.com/dkeye/projectchat/internal/domain"
)

type EventType string

// Events pushed to clients.
const (
	EventReceiveMessage EventType = "receive_message"
	EventUserTyping     EventType = "user_typing"
	EventUserStopTyping EventType = "user_stop_typing"
)

// Event is the outbound envelope: {"type": ..., "payload": ...}.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// TypingPayload is carried by user_typing.
type TypingPayload struct {
	ProjectID domain.ProjectID `json:"projectId"`
	UserID    domain.UserID    `json:"userId"`
	UserName  string           `json:"userName"`
}

// StopTypingPayload is carried by user_stop_typing.
type StopTypingPayload struct {
	ProjectID domain.ProjectID `json:"projectId"`
	UserID    domain.UserID    `json:"userId"`
}

// Encode marshals an event into a frame.
func Encode(t EventType, payload any) (Frame, error) {
	b, err := json.Marshal(Event{Type: t, Payload: payload})
	if err != nil {
		return nil, err
	}
	return Frame(b), nil
}
