package chat

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextAnonymousHandleSequence(t *testing.T) {
	server := newTestServer(&fakeMessageStore{})
	defer server.Shutdown()

	assert.Equal(t, "Anonymous001", server.NextAnonymousHandle())
	assert.Equal(t, "Anonymous002", server.NextAnonymousHandle())
	assert.Equal(t, "Anonymous003", server.NextAnonymousHandle())
}

func TestNextAnonymousHandleNeverReused(t *testing.T) {
	server := newTestServer(&fakeMessageStore{})
	defer server.Shutdown()

	const workers = 8
	const perWorker = 50

	var mu sync.Mutex
	seen := make(map[string]struct{})

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				handle := server.NextAnonymousHandle()
				mu.Lock()
				seen[handle] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}

func TestNextAnonymousHandlePadding(t *testing.T) {
	server := newTestServer(&fakeMessageStore{})
	defer server.Shutdown()

	for i := 0; i < 99; i++ {
		server.NextAnonymousHandle()
	}

	assert.Equal(t, "Anonymous100", server.NextAnonymousHandle())
	assert.Equal(t, fmt.Sprintf("Anonymous%03d", 101), server.NextAnonymousHandle())
}

func TestValidateJoin(t *testing.T) {
	server := newTestServer(&fakeMessageStore{})
	defer server.Shutdown()

	tests := []struct {
		name     string
		room     string
		password string
		wantCode int
	}{
		{name: "regular slot", room: "market-chatroom-1", wantCode: 0},
		{name: "highest regular slot", room: "market-chatroom-7", wantCode: 0},
		{name: "slot out of range", room: "market-chatroom-8", wantCode: 2101},
		{name: "malformed key", room: "market-room-1", wantCode: 2101},
		{name: "truncated page in range", room: "minor-page-chatroom-2", wantCode: 0},
		{name: "truncated page out of range", room: "minor-page-chatroom-4", wantCode: 2101},
		{name: "protected slot without password", room: "market-chatroom-3", wantCode: 2102},
		{name: "protected slot wrong password", room: "market-chatroom-3", password: "nope", wantCode: 2102},
		{name: "protected slot correct password", room: "market-chatroom-3", password: "sesame", wantCode: 0},
		{name: "protected slot on truncated page", room: "minor-page-chatroom-3", password: "sesame", wantCode: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customErr := server.ValidateJoin(tt.room, tt.password)

			if tt.wantCode == 0 {
				assert.Nil(t, customErr)
			} else {
				require.NotNil(t, customErr)
				assert.Equal(t, tt.wantCode, customErr.Code)
			}
		})
	}
}

func TestGetOrCreateRoomReturnsSameInstance(t *testing.T) {
	server := newTestServer(&fakeMessageStore{})
	defer server.Shutdown()

	first := server.GetOrCreateRoom("market-chatroom-1")
	second := server.GetOrCreateRoom("market-chatroom-1")
	other := server.GetOrCreateRoom("market-chatroom-2")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
}

func TestGetOrCreateRoomReplacesStoppedRoom(t *testing.T) {
	server := newTestServer(&fakeMessageStore{})
	defer server.Shutdown()

	first := server.GetOrCreateRoom("market-chatroom-1")
	first.Stop()

	// A stopped room is never handed out again, even before its cleanup
	// notification has been processed.
	second := server.GetOrCreateRoom("market-chatroom-1")
	assert.NotSame(t, first, second)
	assert.False(t, second.stopped())

	assert.Same(t, second, server.GetOrCreateRoom("market-chatroom-1"))
}
