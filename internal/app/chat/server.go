/*
Package chat contains the core logic for handling real-time chatrooms, connections,
and message broadcasting.

This file defines the Server struct, the single owner of all in-process chat state:
the registry of active Room instances and the process-wide anonymous handle counter.
It is constructed once at process start and injected into the handlers.
*/
package chat

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"uminion/internal/pkg/errs"
	"uminion/internal/pkg/logx"
)

// RoomCleanupMsg is sent by a Room to notify the Server to remove it.
type RoomCleanupMsg struct {
	RoomKey string

	// Room identifies the exact instance that stopped, so the server never
	// removes a replacement room registered under the same key.
	Room *Room
}

// ServerConfig holds the chat-specific configuration slice of the application config.
type ServerConfig struct {
	// ChatroomPassword guards the protected slot of every page.
	ChatroomPassword string

	// TruncatedPages lists page names limited to TruncatedRoomSlots slots.
	TruncatedPages []string
}

// Server coordinates all active chatrooms and owns the anonymous handle sequence.
type Server struct {
	// store is the durable message log shared by all rooms.
	store MessageStore

	config ServerConfig

	// truncatedPages indexes config.TruncatedPages for joins.
	truncatedPages map[string]struct{}

	// rooms stores all active Room instances, keyed by their composite room key.
	rooms map[string]*Room

	// mu protects concurrent access to the rooms map.
	mu sync.RWMutex

	// anonSeq is the process-wide monotonically increasing anonymous handle
	// counter. Values are never reused, even across disconnects.
	anonSeq atomic.Uint64

	// cleanup is the channel Rooms use to ask the Server to remove them.
	cleanup chan RoomCleanupMsg

	// wg waits for the cleanup goroutine during shutdown.
	wg sync.WaitGroup

	logger zerolog.Logger
}

// NewServer constructs the chat Server and starts its room cleanup loop.
func NewServer(store MessageStore, config ServerConfig) *Server {
	serverLogger := logx.Logger().With().Str("component", "ChatServer").Logger()

	truncated := make(map[string]struct{}, len(config.TruncatedPages))
	for _, page := range config.TruncatedPages {
		truncated[page] = struct{}{}
	}

	s := &Server{
		store:          store,
		config:         config,
		truncatedPages: truncated,
		rooms:          make(map[string]*Room),
		cleanup:        make(chan RoomCleanupMsg, 10),
		logger:         serverLogger,
	}

	s.wg.Add(1)

	go s.runCleanupLoop()

	return s
}

// NextAnonymousHandle reserves the next anonymous display handle, e.g. "Anonymous001".
// The sequence is strictly increasing for the lifetime of the process.
func (s *Server) NextAnonymousHandle() string {
	return fmt.Sprintf("Anonymous%03d", s.anonSeq.Add(1))
}

// ValidateJoin checks a joinRoom request against the room key convention,
// the page's slot range, and the protected-slot password. The password is
// enforced here, server-side, rather than trusting the client's unlock state.
func (s *Server) ValidateJoin(roomName, password string) *errs.CustomError {
	key, ok := ParseRoomKey(roomName)
	if !ok {
		return errs.NewError(errs.ErrRoomKeyInvalid)
	}

	maxSlot := MaxRoomSlots
	if _, truncated := s.truncatedPages[key.Page]; truncated {
		maxSlot = TruncatedRoomSlots
	}

	if key.Slot > maxSlot {
		return errs.NewError(errs.ErrRoomKeyInvalid)
	}

	if key.Protected() && password != s.config.ChatroomPassword {
		return errs.NewError(errs.ErrRoomPasswordInvalid)
	}

	return nil
}

// GetOrCreateRoom returns the active Room for the given key, creating and
// starting it on first join. Rooms exist implicitly as grouping keys; an
// inactive room shuts itself down and is removed via the cleanup loop. A room
// caught between its inactivity shutdown and its cleanup is replaced, never
// handed out.
func (s *Server) GetOrCreateRoom(roomKey string) *Room {
	s.mu.RLock()
	room, ok := s.rooms[roomKey]
	s.mu.RUnlock()

	if ok && !room.stopped() {
		return room
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if room, ok = s.rooms[roomKey]; ok && !room.stopped() {
		return room
	}

	room = NewRoom(roomKey, s.store, s.cleanup)
	s.rooms[roomKey] = room

	go room.Run()

	s.logger.Info().Str("room", roomKey).Msg("Room created and started.")
	return room
}

// runCleanupLoop is a blocking loop that listens on the cleanup channel.
// When a RoomCleanupMsg is received, it removes the corresponding room.
func (s *Server) runCleanupLoop() {
	defer s.wg.Done()

	s.logger.Info().Msg("Cleanup loop started.")

	for msg := range s.cleanup {
		s.deleteRoom(msg)
	}

	s.logger.Info().Msg("Cleanup loop stopped.")
}

// deleteRoom removes the stopped room from the Server's rooms map, unless a
// replacement room has already been registered under the same key.
func (s *Server) deleteRoom(msg RoomCleanupMsg) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.rooms[msg.RoomKey]; ok && current == msg.Room {
		delete(s.rooms, msg.RoomKey)
		s.logger.Info().Str("room", msg.RoomKey).Msg("Room successfully removed.")
	}
}

// Shutdown gracefully stops all room loops, closes the cleanup channel, and
// waits for the cleanup goroutine to exit.
func (s *Server) Shutdown() {
	s.logger.Info().Msg("Shutting down chat server...")

	s.mu.Lock()

	for _, room := range s.rooms {
		room.Stop()
	}
	s.rooms = nil

	s.mu.Unlock()

	close(s.cleanup)
	s.wg.Wait()

	s.logger.Info().Msg("Chat server shutdown complete.")
}
