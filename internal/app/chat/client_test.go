package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutboundMessageAuthenticatedSender(t *testing.T) {
	server := newTestServer(&fakeMessageStore{})
	defer server.Shutdown()

	client := newTestClient(t, server, Identity{UserID: "u1", Username: "alice", AnonHandle: "Anonymous001"})

	msg := client.outboundMessage("market-chatroom-1", "hi", false)

	assert.False(t, msg.IsAnonymous)
	assert.Equal(t, "u1", msg.SenderUserID)
	assert.Equal(t, "alice", msg.SenderName)
	assert.Empty(t, msg.AnonymousHandle)
	assert.Equal(t, "market-chatroom-1", msg.Room)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestOutboundMessageAuthenticatedSenderOptsIntoAnonymity(t *testing.T) {
	server := newTestServer(&fakeMessageStore{})
	defer server.Shutdown()

	client := newTestClient(t, server, Identity{UserID: "u1", Username: "alice", AnonHandle: "Anonymous001"})

	msg := client.outboundMessage("market-chatroom-1", "hi", true)

	assert.True(t, msg.IsAnonymous)
	assert.Equal(t, "Anonymous001", msg.AnonymousHandle)
	assert.Empty(t, msg.SenderUserID)
	assert.Empty(t, msg.SenderName)
}

func TestOutboundMessageUnauthenticatedSenderIsAlwaysAnonymous(t *testing.T) {
	server := newTestServer(&fakeMessageStore{})
	defer server.Shutdown()

	client := newTestClient(t, server, Identity{AnonHandle: "Anonymous002"})

	msg := client.outboundMessage("market-chatroom-1", "hi", false)

	assert.True(t, msg.IsAnonymous)
	assert.Equal(t, "Anonymous002", msg.AnonymousHandle)
	assert.Empty(t, msg.SenderUserID)
}

func TestClientEnqueueAfterCloseDoesNotPanic(t *testing.T) {
	server := newTestServer(&fakeMessageStore{})
	defer server.Shutdown()

	client := newTestClient(t, server, Identity{AnonHandle: "Anonymous003"})
	client.closeSend()

	assert.NotPanics(t, func() {
		client.enqueue([]byte(`{"type":"newMessage"}`))
		client.SendEvent(EventError, ErrorPayload{Code: 5000, Message: "x"})
	})
}
