package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uminion/internal/pkg/randx"
)

// startTestRoom spins up a room with its run loop and tears it down with the test.
func startTestRoom(t *testing.T, store MessageStore) *Room {
	t.Helper()

	cleanup := make(chan RoomCleanupMsg, 1)
	room := NewRoom("market-chatroom-1", store, cleanup)

	go room.Run()
	t.Cleanup(room.Stop)

	return room
}

func testMessage(room, content, handle string) Message {
	return Message{
		ID:              randx.NewID(),
		Room:            room,
		Content:         content,
		IsAnonymous:     true,
		AnonymousHandle: handle,
		Timestamp:       time.Now().UTC(),
	}
}

func TestRoomJoinReplaysHistoryAndBroadcastsMembership(t *testing.T) {
	store := &fakeMessageStore{}
	server := newTestServer(store)
	defer server.Shutdown()

	require.NoError(t, store.Append(context.Background(), testMessage("market-chatroom-1", "hello", "Anonymous001")))
	require.NoError(t, store.Append(context.Background(), testMessage("market-chatroom-1", "again", "Anonymous001")))
	require.NoError(t, store.Append(context.Background(), testMessage("other-chatroom-1", "elsewhere", "Anonymous002")))

	room := startTestRoom(t, store)

	alice := newTestClient(t, server, Identity{UserID: "u1", Username: "alice", AnonHandle: "Anonymous003"})
	room.RegisterClient(alice)

	loaded := recvEventOfType(t, alice, EventLoadMessages)
	var history []Message
	require.NoError(t, json.Unmarshal(loaded.Payload, &history))
	require.Len(t, history, 2)
	assert.Equal(t, "hello", history[0].Content)
	assert.Equal(t, "again", history[1].Content)

	userList := recvEventOfType(t, alice, EventUpdateUserList)
	var members []MemberEntry
	require.NoError(t, json.Unmarshal(userList.Payload, &members))
	require.Len(t, members, 1)
	assert.Equal(t, "alice", members[0].Username)

	// A second join is seen by both connections.
	ghost := newTestClient(t, server, Identity{AnonHandle: "Anonymous004"})
	room.RegisterClient(ghost)

	recvEventOfType(t, ghost, EventLoadMessages)

	for _, client := range []*Client{alice, ghost} {
		userList = recvEventOfType(t, client, EventUpdateUserList)
		members = nil
		require.NoError(t, json.Unmarshal(userList.Payload, &members))
		assert.Len(t, members, 2)
		assert.ElementsMatch(t, []MemberEntry{{Username: "alice"}, {Username: "Anonymous004"}}, members)
	}
}

func TestRoomHistoryFailureDoesNotEvictJoiner(t *testing.T) {
	store := &fakeMessageStore{historyErr: errStoreDown}
	server := newTestServer(store)
	defer server.Shutdown()

	room := startTestRoom(t, store)

	client := newTestClient(t, server, Identity{AnonHandle: "Anonymous001"})
	room.RegisterClient(client)

	errEvent := recvEventOfType(t, client, EventError)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(errEvent.Payload, &payload))
	assert.Equal(t, 2202, payload.Code)

	// The join stands: the membership broadcast still arrives.
	userList := recvEventOfType(t, client, EventUpdateUserList)
	var members []MemberEntry
	require.NoError(t, json.Unmarshal(userList.Payload, &members))
	assert.Len(t, members, 1)
}

func TestRoomSendPersistsThenBroadcastsToAllMembers(t *testing.T) {
	store := &fakeMessageStore{}
	server := newTestServer(store)
	defer server.Shutdown()

	room := startTestRoom(t, store)

	alice := newTestClient(t, server, Identity{UserID: "u1", Username: "alice", AnonHandle: "Anonymous001"})
	bob := newTestClient(t, server, Identity{UserID: "u2", Username: "bob", AnonHandle: "Anonymous002"})

	room.RegisterClient(alice)
	room.RegisterClient(bob)

	for _, client := range []*Client{alice, bob} {
		recvEventOfType(t, client, EventUpdateUserList)
	}

	msg := Message{
		ID:           randx.NewID(),
		Room:         room.Key,
		Content:      "anyone trading?",
		SenderUserID: "u1",
		SenderName:   "alice",
		Timestamp:    time.Now().UTC(),
	}
	room.Send(alice, msg)

	// The sender receives its own message too.
	for _, client := range []*Client{alice, bob} {
		event := recvEventOfType(t, client, EventNewMessage)

		var got Message
		require.NoError(t, json.Unmarshal(event.Payload, &got))
		assert.Equal(t, msg.ID, got.ID)
		assert.Equal(t, "anyone trading?", got.Content)
		assert.Equal(t, "alice", got.SenderName)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.messages, 1)
	assert.Equal(t, msg.ID, store.messages[0].ID)
}

func TestRoomAppendFailureReportsToSenderOnly(t *testing.T) {
	store := &fakeMessageStore{}
	server := newTestServer(store)
	defer server.Shutdown()

	room := startTestRoom(t, store)

	alice := newTestClient(t, server, Identity{UserID: "u1", Username: "alice", AnonHandle: "Anonymous001"})
	bob := newTestClient(t, server, Identity{UserID: "u2", Username: "bob", AnonHandle: "Anonymous002"})

	room.RegisterClient(alice)
	room.RegisterClient(bob)

	for _, client := range []*Client{alice, bob} {
		recvEventOfType(t, client, EventUpdateUserList)
	}

	store.failAppends(errStoreDown)

	room.Send(alice, testMessage(room.Key, "lost", "Anonymous001"))

	errEvent := recvEventOfType(t, alice, EventError)
	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(errEvent.Payload, &payload))
	assert.Equal(t, 2202, payload.Code)

	requireNoEvent(t, bob)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.messages)
}

func TestRoomInactivityShutdownReleasesRegisteringClients(t *testing.T) {
	store := &fakeMessageStore{}
	server := newTestServer(store)
	defer server.Shutdown()

	cleanup := make(chan RoomCleanupMsg, 1)
	room := NewRoom("market-chatroom-1", store, cleanup)
	room.shutdownTimer.Reset(10 * time.Millisecond)

	go room.Run()

	// The run loop must close stopChan before notifying cleanup.
	select {
	case msg := <-cleanup:
		assert.Equal(t, room.Key, msg.RoomKey)
		assert.Same(t, room, msg.Room)
	case <-time.After(2 * time.Second):
		t.Fatal("room never sent its cleanup notification after the inactivity timeout")
	}

	assert.True(t, room.stopped())

	// A registration racing the shutdown returns promptly instead of
	// blocking the connection's read pump forever.
	client := newTestClient(t, server, Identity{AnonHandle: "Anonymous001"})

	done := make(chan bool, 1)
	go func() {
		done <- room.RegisterClient(client)
	}()

	select {
	case registered := <-done:
		assert.False(t, registered)
	case <-time.After(2 * time.Second):
		t.Fatal("RegisterClient blocked after the room's run loop exited")
	}
}

func TestRoomHistoryReplayCappedToMostRecent(t *testing.T) {
	store := &fakeMessageStore{}
	server := newTestServer(store)
	defer server.Shutdown()

	base := time.Now().UTC()
	const total = HistoryLimit + 10

	for i := 0; i < total; i++ {
		msg := testMessage("market-chatroom-1", fmt.Sprintf("msg-%03d", i), "Anonymous001")
		msg.Timestamp = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, store.Append(context.Background(), msg))
	}

	room := startTestRoom(t, store)

	client := newTestClient(t, server, Identity{AnonHandle: "Anonymous002"})
	room.RegisterClient(client)

	loaded := recvEventOfType(t, client, EventLoadMessages)
	var history []Message
	require.NoError(t, json.Unmarshal(loaded.Payload, &history))

	// Exactly the most recent HistoryLimit messages, oldest-first.
	require.Len(t, history, HistoryLimit)
	assert.Equal(t, fmt.Sprintf("msg-%03d", total-HistoryLimit), history[0].Content)
	assert.Equal(t, fmt.Sprintf("msg-%03d", total-1), history[len(history)-1].Content)

	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].Timestamp.Before(history[i-1].Timestamp),
			"history not in ascending timestamp order at index %d", i)
	}
}

func TestRoomLeaveBroadcastsUpdatedMembership(t *testing.T) {
	store := &fakeMessageStore{}
	server := newTestServer(store)
	defer server.Shutdown()

	room := startTestRoom(t, store)

	alice := newTestClient(t, server, Identity{UserID: "u1", Username: "alice", AnonHandle: "Anonymous001"})
	bob := newTestClient(t, server, Identity{UserID: "u2", Username: "bob", AnonHandle: "Anonymous002"})

	room.RegisterClient(alice)
	room.RegisterClient(bob)

	for _, client := range []*Client{alice, bob} {
		recvEventOfType(t, client, EventUpdateUserList)
	}
	recvEventOfType(t, alice, EventUpdateUserList)

	room.UnregisterClient(alice)

	userList := recvEventOfType(t, bob, EventUpdateUserList)
	var members []MemberEntry
	require.NoError(t, json.Unmarshal(userList.Payload, &members))
	require.Len(t, members, 1)
	assert.Equal(t, "bob", members[0].Username)
}
