/*
Package chat contains the core logic for handling real-time chatrooms, connections,
and message broadcasting.

This file defines the Client struct, representing an active WebSocket connection.
It manages the connection's lifecycle, the message pumps, and the dispatch of
joinRoom/leaveRoom/sendMessage events to the rooms the connection participates in.
*/
package chat

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"uminion/internal/pkg/errs"
	"uminion/internal/pkg/logx"
	"uminion/internal/pkg/randx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192

	// MaxContentBytes is the maximum allowed size (in bytes) for message content.
	MaxContentBytes = 5000
)

// Client represents an active WebSocket connection and its resolved identity.
type Client struct {
	// ID is the unique connection identifier, distinct from any account ID.
	ID string

	// server is the chat Server this connection belongs to.
	server *Server

	// conn is the underlying WebSocket connection object.
	conn *websocket.Conn

	// identity is resolved once at connection time and fixed thereafter.
	identity Identity

	// bannedFromChat blocks joinRoom for banned authenticated accounts.
	bannedFromChat bool

	// rooms tracks the rooms this connection has joined. It is mutated only
	// by the read-pump goroutine.
	rooms map[string]*Room

	// send is the buffered channel of frames waiting to go to the client.
	send chan []byte

	// sendMu guards sendClosed so rooms never write to a closed channel.
	sendMu     sync.RWMutex
	sendClosed bool

	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded WebSocket connection.
func NewClient(server *Server, conn *websocket.Conn, identity Identity, bannedFromChat bool) *Client {
	connectionID := randx.NewID()

	clientLogger := logx.Logger().With().
		Str("connection_id", connectionID).
		Str("display_name", identity.DisplayName()).
		Logger()

	return &Client{
		ID:             connectionID,
		server:         server,
		conn:           conn,
		identity:       identity,
		bannedFromChat: bannedFromChat,
		rooms:          make(map[string]*Room),
		send:           make(chan []byte, 256),
		logger:         clientLogger,
	}
}

// enqueue queues a marshaled frame for delivery, dropping it if the client's
// buffer is full or the connection is already closed.
func (c *Client) enqueue(frame []byte) {
	c.sendMu.RLock()
	defer c.sendMu.RUnlock()

	if c.sendClosed {
		return
	}

	select {
	case c.send <- frame:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping frame.")
	}
}

// closeSend marks the connection closed and releases the write pump.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.sendClosed {
		c.sendClosed = true
		close(c.send)
	}
}

// SendEvent marshals and queues an event for this connection only.
func (c *Client) SendEvent(eventType EventType, payload any) {
	frame, err := MarshalEvent(eventType, payload)
	if err != nil {
		c.logger.Error().Err(err).Str("event_type", string(eventType)).Msg("Error marshaling event for client.")
		return
	}

	c.enqueue(frame)
}

// SendError queues an error event for this connection only. Chat-path failures
// are always local: they never evict the connection from its rooms.
func (c *Client) SendError(err error) {
	payload := ErrorPayload{
		Code:    errs.ErrUnknown,
		Message: "Something went wrong. Please try again.",
	}

	var customErr *errs.CustomError
	if errors.As(err, &customErr) {
		payload.Code = customErr.Code
		payload.Message = customErr.Message
	}

	c.SendEvent(EventError, payload)
}

// ReadPump handles reading frames from the WebSocket connection.
// It handles heartbeats (Pong), event dispatch, and performs cleanup upon
// connection closure.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		c.dispatch(frame)
	}
}

// cleanupOnDisconnect removes the connection from every room it joined and
// closes the transport.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Int("joined_rooms", len(c.rooms)).Msg("Client connection cleanup starting.")

	for _, room := range c.rooms {
		room.UnregisterClient(c)
	}
	c.rooms = make(map[string]*Room)

	c.closeSend()

	if err := c.conn.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Client connection close error")
	}
}

// dispatch routes a raw inbound frame to the matching event handler.
func (c *Client) dispatch(frame []byte) {
	var event Event
	if err := json.Unmarshal(frame, &event); err != nil {
		c.logger.Warn().Err(err).Bytes("frame", frame).Msg("Client sent invalid JSON")
		return
	}

	switch event.Type {
	case EventJoinRoom:
		c.handleJoinRoom(event.Payload)

	case EventLeaveRoom:
		c.handleLeaveRoom(event.Payload)

	case EventSendMessage:
		c.handleSendMessage(event.Payload)

	default:
		c.logger.Warn().Str("event_type", string(event.Type)).Msg("Client sent unsupported event type")
	}
}

// handleJoinRoom validates the join and registers the connection in the room.
func (c *Client) handleJoinRoom(payloadBytes json.RawMessage) {
	var payload JoinRoomPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid joinRoom payload")
		return
	}

	if c.bannedFromChat {
		c.SendError(errs.NewError(errs.ErrChatBanned))
		return
	}

	if customErr := c.server.ValidateJoin(payload.Room, payload.Password); customErr != nil {
		c.SendError(customErr)
		return
	}

	if _, joined := c.rooms[payload.Room]; joined {
		c.logger.Info().Str("room", payload.Room).Msg("Ignoring duplicate join.")
		return
	}

	room := c.server.GetOrCreateRoom(payload.Room)
	if !room.RegisterClient(c) {
		// The room shut down between lookup and registration. Do not record
		// the membership; a retry gets a fresh room.
		c.SendError(errs.NewError(errs.ErrRoomKeyInvalid))
		return
	}
	c.rooms[payload.Room] = room
}

// handleLeaveRoom removes the connection from a room it previously joined.
func (c *Client) handleLeaveRoom(payloadBytes json.RawMessage) {
	var payload LeaveRoomPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid leaveRoom payload")
		return
	}

	room, joined := c.rooms[payload.Room]
	if !joined {
		c.SendError(errs.NewError(errs.ErrNotInRoom))
		return
	}

	delete(c.rooms, payload.Room)
	room.UnregisterClient(c)
}

// handleSendMessage validates the content, resolves the effective sender, and
// hands the message to the room for persist-and-broadcast.
func (c *Client) handleSendMessage(payloadBytes json.RawMessage) {
	var payload SendMessagePayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid sendMessage payload")
		return
	}

	room, joined := c.rooms[payload.Room]
	if !joined {
		c.SendError(errs.NewError(errs.ErrNotInRoom))
		return
	}

	if payload.Content == "" {
		c.SendError(errs.NewError(errs.ErrInvalidParams))
		return
	}

	if len(payload.Content) > MaxContentBytes {
		c.SendError(errs.NewError(errs.ErrMessageContentTooLong))
		return
	}

	room.Send(c, c.outboundMessage(payload.Room, payload.Content, payload.IsAnonymous))
}

// outboundMessage builds the persisted form of a message from this connection.
// A sender that opts into anonymity, or has no authenticated identity, is
// attributed to the connection's anonymous handle and never to the account.
func (c *Client) outboundMessage(roomKey, content string, wantsAnonymous bool) Message {
	msg := Message{
		ID:        randx.NewID(),
		Room:      roomKey,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}

	if wantsAnonymous || !c.identity.Authenticated() {
		msg.IsAnonymous = true
		msg.AnonymousHandle = c.identity.AnonHandle
	} else {
		msg.SenderUserID = c.identity.UserID
		msg.SenderName = c.identity.Username
	}

	return msg
}

// WritePump handles writing frames from the send channel to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame pulled from the send channel.
// Returns true if the WritePump loop should continue.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Error().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping to maintain the heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
