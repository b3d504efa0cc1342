package chat

import (
	"strconv"
	"strings"
)

const (
	// MaxRoomSlots is the number of chatroom slots a normal page exposes.
	MaxRoomSlots = 7

	// TruncatedRoomSlots is the reduced slot range for truncated pages.
	TruncatedRoomSlots = 3

	// ProtectedSlot is the 1-based chatroom slot guarded by a shared password
	// on every page.
	ProtectedSlot = 3

	roomKeySeparator = "-chatroom-"
)

// RoomKey is the parsed form of a composite room identifier
// "{pageName}-chatroom-{slot}". A room is a logical partition, not a stored
// entity; the key is simply a grouping key over messages and memberships.
type RoomKey struct {
	Page string
	Slot int
}

// String reassembles the composite room identifier.
func (k RoomKey) String() string {
	return k.Page + roomKeySeparator + strconv.Itoa(k.Slot)
}

// Protected reports whether the key targets the password-gated slot.
func (k RoomKey) Protected() bool {
	return k.Slot == ProtectedSlot
}

// ParseRoomKey splits a composite room identifier into page name and 1-based
// slot number. It reports false for names that do not follow the convention.
func ParseRoomKey(raw string) (RoomKey, bool) {
	idx := strings.LastIndex(raw, roomKeySeparator)
	if idx <= 0 {
		return RoomKey{}, false
	}

	page := raw[:idx]
	slotStr := raw[idx+len(roomKeySeparator):]

	slot, err := strconv.Atoi(slotStr)
	if err != nil || slot < 1 {
		return RoomKey{}, false
	}

	return RoomKey{Page: page, Slot: slot}, true
}
