/*
Package chat contains the core logic for handling real-time chatrooms, connections,
and message broadcasting.

This file defines the persisted Message model, the MessageStore contract, and the
JSON event envelope exchanged with clients over the WebSocket connection.
*/
package chat

import (
	"context"
	"encoding/json"
	"time"
)

// HistoryLimit caps how many recent messages a joining connection receives.
// Older history is unreachable through the chat interface.
const HistoryLimit = 50

// Message is one persisted chatroom message. Messages are immutable once
// created; exactly one of SenderUserID / AnonymousHandle is meaningful,
// selected by IsAnonymous.
type Message struct {
	ID      string `json:"id"`
	Room    string `json:"room"`
	Content string `json:"content"`

	// SenderUserID and SenderName attribute the message to a registered
	// account. Both are empty for anonymous messages.
	SenderUserID string `json:"senderUserId,omitempty"`
	SenderName   string `json:"username,omitempty"`

	// IsAnonymous selects anonymous attribution via AnonymousHandle,
	// regardless of whether the sending connection was authenticated.
	IsAnonymous     bool   `json:"isAnonymous"`
	AnonymousHandle string `json:"anonymousHandle,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// MessageStore is the durable, append-only, room-partitioned log of chat messages.
type MessageStore interface {
	// Append durably stores the message. A failure is surfaced to the acting
	// connection only, never broadcast.
	Append(ctx context.Context, msg Message) error

	// RecentHistory returns up to limit messages for the room, ordered
	// oldest-first by timestamp.
	RecentHistory(ctx context.Context, room string, limit int) ([]Message, error)
}

// EventType names a logical event on the chat wire protocol.
type EventType string

// Client -> server events.
const (
	EventJoinRoom    EventType = "joinRoom"
	EventLeaveRoom   EventType = "leaveRoom"
	EventSendMessage EventType = "sendMessage"
)

// Server -> client events.
const (
	EventLoadMessages   EventType = "loadMessages"
	EventNewMessage     EventType = "newMessage"
	EventUpdateUserList EventType = "updateUserList"
	EventError          EventType = "error"
)

// Event is the JSON envelope for every frame exchanged over a chat connection.
type Event struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinRoomPayload is the client payload for EventJoinRoom.
type JoinRoomPayload struct {
	Room     string `json:"room"`
	Password string `json:"password,omitempty"`
}

// LeaveRoomPayload is the client payload for EventLeaveRoom.
type LeaveRoomPayload struct {
	Room string `json:"room"`
}

// SendMessagePayload is the client payload for EventSendMessage.
type SendMessagePayload struct {
	Room        string `json:"room"`
	Content     string `json:"content"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// MemberEntry is one entry of an EventUpdateUserList payload.
type MemberEntry struct {
	Username string `json:"username"`
}

// ErrorPayload is the payload of an EventError frame.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MarshalEvent builds a wire frame for the given event type and payload.
func MarshalEvent(eventType EventType, payload any) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Event{
		Type:    eventType,
		Payload: payloadBytes,
	})
}
