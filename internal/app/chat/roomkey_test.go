package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoomKey(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantPage string
		wantSlot int
		wantOK   bool
	}{
		{name: "simple page", raw: "market-chatroom-1", wantPage: "market", wantSlot: 1, wantOK: true},
		{name: "page containing hyphens", raw: "card-trade-chatroom-7", wantPage: "card-trade", wantSlot: 7, wantOK: true},
		{name: "missing separator", raw: "market-room-1", wantOK: false},
		{name: "empty page", raw: "-chatroom-1", wantOK: false},
		{name: "non numeric slot", raw: "market-chatroom-x", wantOK: false},
		{name: "zero slot", raw: "market-chatroom-0", wantOK: false},
		{name: "negative slot", raw: "market-chatroom--1", wantOK: false},
		{name: "empty string", raw: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := ParseRoomKey(tt.raw)
			require.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Equal(t, tt.wantPage, key.Page)
				assert.Equal(t, tt.wantSlot, key.Slot)
				assert.Equal(t, tt.raw, key.String())
			}
		})
	}
}

func TestRoomKeyProtected(t *testing.T) {
	assert.False(t, RoomKey{Page: "market", Slot: 1}.Protected())
	assert.True(t, RoomKey{Page: "market", Slot: 3}.Protected())
	assert.False(t, RoomKey{Page: "market", Slot: 4}.Protected())
}
