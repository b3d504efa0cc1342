package chat

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeMessageStore is an in-memory MessageStore with switchable failure modes.
type fakeMessageStore struct {
	mu         sync.Mutex
	messages   []Message
	appendErr  error
	historyErr error
}

func (f *fakeMessageStore) Append(_ context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.appendErr != nil {
		return f.appendErr
	}

	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeMessageStore) RecentHistory(_ context.Context, room string, limit int) ([]Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.historyErr != nil {
		return nil, f.historyErr
	}

	var history []Message
	for _, msg := range f.messages {
		if msg.Room == room {
			history = append(history, msg)
		}
	}

	if len(history) > limit {
		history = history[len(history)-limit:]
	}

	return history, nil
}

func (f *fakeMessageStore) failAppends(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendErr = err
}

var errStoreDown = errors.New("store down")

// newTestClient builds a Client that is never attached to a real WebSocket
// connection. Only the send channel is exercised.
func newTestClient(t *testing.T, server *Server, identity Identity) *Client {
	t.Helper()
	return NewClient(server, nil, identity, false)
}

// recvEvent pulls the next frame off the client's send channel and decodes the
// envelope, failing the test after a timeout.
func recvEvent(t *testing.T, client *Client) Event {
	t.Helper()

	select {
	case frame, ok := <-client.send:
		require.True(t, ok, "send channel closed unexpectedly")

		var event Event
		require.NoError(t, json.Unmarshal(frame, &event))
		return event

	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

// recvEventOfType skips frames until one of the wanted type arrives.
func recvEventOfType(t *testing.T, client *Client, eventType EventType) Event {
	t.Helper()

	for i := 0; i < 10; i++ {
		event := recvEvent(t, client)
		if event.Type == eventType {
			return event
		}
	}

	t.Fatalf("never received event of type %s", eventType)
	return Event{}
}

// requireNoEvent asserts the client receives nothing within the window.
func requireNoEvent(t *testing.T, client *Client) {
	t.Helper()

	select {
	case frame := <-client.send:
		t.Fatalf("unexpected frame: %s", frame)
	case <-time.After(100 * time.Millisecond):
	}
}

func newTestServer(store MessageStore) *Server {
	return NewServer(store, ServerConfig{
		ChatroomPassword: "sesame",
		TruncatedPages:   []string{"minor-page"},
	})
}
