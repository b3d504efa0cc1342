/*
Package chat contains the core logic for handling real-time chatrooms, connections,
and message broadcasting.

This file defines the Room struct, the hub for a single chatroom partition. Its run
loop serializes joins, leaves, and sends: a join replays recent history to the joining
connection and fans out the updated membership list; a send is persisted first and
then broadcast to every current member. A persistence failure is reported to the
sender only and never tears down the room.
*/
package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"uminion/internal/pkg/errs"
	"uminion/internal/pkg/logx"
)

const (
	// sendQueueBuffer bounds the inbound message queue of a room.
	sendQueueBuffer = 1024

	// RoomInactivityTimeout is the duration after which an empty room shuts down.
	// Membership is ephemeral; the message log survives in the store.
	RoomInactivityTimeout = 5 * time.Minute

	// storeOpTimeout bounds each message store call made from the run loop.
	storeOpTimeout = 5 * time.Second
)

// sendRequest carries a not-yet-persisted message through the room's run loop
// together with the connection to notify on persistence failure.
type sendRequest struct {
	sender *Client
	msg    Message
}

// Room represents a single active chatroom session.
type Room struct {
	// Key is the composite room identifier "{page}-chatroom-{slot}".
	Key string

	// store is the durable message log for history replay and appends.
	store MessageStore

	// clients maps connection IDs to their Client. Ephemeral; lost on restart.
	clients map[string]*Client

	// register and unregister queue membership changes for the run loop.
	register   chan *Client
	unregister chan *Client

	// sendQueue carries inbound messages awaiting persist-and-broadcast.
	sendQueue chan sendRequest

	// cleanupChan notifies the Server to remove this room after shutdown.
	cleanupChan chan<- RoomCleanupMsg

	// stopChan terminates the run loop immediately.
	stopChan chan struct{}

	// shutdownTimer tracks room inactivity.
	shutdownTimer *time.Timer

	logger zerolog.Logger
}

// NewRoom creates and initializes a new Room instance.
func NewRoom(roomKey string, store MessageStore, cleanupChan chan<- RoomCleanupMsg) *Room {
	roomLogger := logx.Logger().With().
		Str("room", roomKey).
		Logger()

	return &Room{
		Key:           roomKey,
		store:         store,
		clients:       make(map[string]*Client),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		sendQueue:     make(chan sendRequest, sendQueueBuffer),
		cleanupChan:   cleanupChan,
		stopChan:      make(chan struct{}),
		shutdownTimer: time.NewTimer(RoomInactivityTimeout),
		logger:        roomLogger,
	}
}

// Stop sends a signal to immediately terminate the Room's run loop.
func (r *Room) Stop() {
	select {
	case <-r.stopChan:
	default:
		close(r.stopChan)
	}
}

// RegisterClient queues a client for membership in this room. It reports
// false when the room has already shut down; the caller must fetch a fresh
// room before retrying.
func (r *Room) RegisterClient(client *Client) bool {
	select {
	case r.register <- client:
		return true
	case <-r.stopChan:
		return false
	}
}

// stopped reports whether the run loop has terminated (or is about to).
func (r *Room) stopped() bool {
	select {
	case <-r.stopChan:
		return true
	default:
		return false
	}
}

// UnregisterClient queues a client's removal from this room.
func (r *Room) UnregisterClient(client *Client) {
	select {
	case r.unregister <- client:
	case <-r.stopChan:
	}
}

// Send queues a message for persist-and-broadcast.
func (r *Room) Send(sender *Client, msg Message) {
	select {
	case r.sendQueue <- sendRequest{sender: sender, msg: msg}:
	default:
		r.logger.Warn().Str("connection_id", sender.ID).Msg("Room send queue full, dropping message.")
		sender.SendError(errs.NewError(errs.ErrMessageStoreFailed))
	}
}

// Run starts the main event loop for the Room. All membership mutation and
// message fan-out happens on this single goroutine, so broadcast order equals
// append order within the room.
func (r *Room) Run() {
	defer func() {
		r.logger.Info().Msg("Room run loop finished. Notifying server for cleanup.")

		// Close stopChan first so connections blocked in RegisterClient,
		// UnregisterClient, or Send are released immediately.
		r.Stop()

		if r.shutdownTimer != nil {
			r.shutdownTimer.Stop()
		}

		func() {
			defer func() {
				if rec := recover(); rec != nil {
					logx.Warn("Recovered from panic during server cleanup notification (channel likely closed).")
				}
			}()

			// Blocking send: the server runs a dedicated drain loop, and a
			// dropped notification would leave a dead room in the registry.
			r.cleanupChan <- RoomCleanupMsg{RoomKey: r.Key, Room: r}
		}()
	}()

	timerChan := r.shutdownTimer.C

	for {
		select {
		case client := <-r.register:
			r.handleRegister(client)

		case client := <-r.unregister:
			r.handleUnregister(client)

		case request := <-r.sendQueue:
			r.handleSend(request)

		case <-timerChan:
			r.logger.Info().Msgf("Room inactivity timeout (%s) reached. Shutting down run loop.", RoomInactivityTimeout)
			return

		case <-r.stopChan:
			r.logger.Info().Msg("Room forced stop initiated.")
			return
		}
	}
}

// handleRegister adds the client, replays recent history to it alone, and
// broadcasts the updated membership list to everyone in the room.
func (r *Room) handleRegister(client *Client) {
	if r.shutdownTimer.Stop() {
		select {
		case <-r.shutdownTimer.C:
		default:
		}
	}

	r.clients[client.ID] = client

	r.logger.Info().
		Str("connection_id", client.ID).
		Str("display_name", client.identity.DisplayName()).
		Int("total_members", len(r.clients)).
		Msg("Client joined room.")

	ctx, cancel := context.WithTimeout(context.Background(), storeOpTimeout)
	history, err := r.store.RecentHistory(ctx, r.Key, HistoryLimit)
	cancel()

	if err != nil {
		// History replay failure is local to the joining connection; the
		// join itself stands.
		r.logger.Error().Err(err).Str("connection_id", client.ID).Msg("Failed to load room history.")
		client.SendError(errs.NewError(errs.ErrMessageStoreFailed))
	} else {
		client.SendEvent(EventLoadMessages, history)
	}

	r.broadcastUserList()
}

// handleUnregister removes the client and broadcasts the updated membership
// list to the remaining members.
func (r *Room) handleUnregister(client *Client) {
	if _, ok := r.clients[client.ID]; !ok {
		return
	}

	delete(r.clients, client.ID)

	r.logger.Info().
		Str("connection_id", client.ID).
		Int("total_members", len(r.clients)).
		Msg("Client left room.")

	r.broadcastUserList()

	if len(r.clients) == 0 {
		if r.shutdownTimer.Stop() {
			select {
			case <-r.shutdownTimer.C:
			default:
			}
		}
		r.shutdownTimer.Reset(RoomInactivityTimeout)
	}
}

// handleSend persists the message and, on success, fans it out to every
// current member. An append failure is reported to the sender only; room
// membership is untouched.
func (r *Room) handleSend(request sendRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), storeOpTimeout)
	err := r.store.Append(ctx, request.msg)
	cancel()

	if err != nil {
		r.logger.Error().Err(err).
			Str("message_id", request.msg.ID).
			Str("connection_id", request.sender.ID).
			Msg("Failed to persist message.")
		request.sender.SendError(errs.NewError(errs.ErrMessageStoreFailed))
		return
	}

	frame, err := MarshalEvent(EventNewMessage, request.msg)
	if err != nil {
		r.logger.Error().Err(err).Str("message_id", request.msg.ID).Msg("Error marshaling message for broadcast.")
		return
	}

	for _, client := range r.clients {
		client.enqueue(frame)
	}
}

// broadcastUserList fans the current membership snapshot out to all members.
func (r *Room) broadcastUserList() {
	members := make([]MemberEntry, 0, len(r.clients))
	for _, client := range r.clients {
		members = append(members, MemberEntry{Username: client.identity.DisplayName()})
	}

	frame, err := MarshalEvent(EventUpdateUserList, members)
	if err != nil {
		r.logger.Error().Err(err).Msg("Error marshaling membership list.")
		return
	}

	for _, client := range r.clients {
		client.enqueue(frame)
	}
}
