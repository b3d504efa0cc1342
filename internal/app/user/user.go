/*
Package user contains core data structures and logic related to accounts and roles.

It defines the persisted representation of a platform account and the ordered
marketplace role tiers that govern which product partition an account may write to.
*/
package user

import "time"

// Role is the ordered marketplace tier of an account. Higher values outrank
// lower ones; exactly the highest tier governs write authorization.
type Role int

const (
	// RoleMember is a regular account confined to its personal store partition.
	RoleMember Role = iota

	// RoleStoreManager manages the numbered stores (1-30).
	RoleStoreManager

	// RoleOwner owns the global main store.
	RoleOwner
)

// String returns the stable textual form of the role as persisted in the database.
func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleStoreManager:
		return "store_manager"
	default:
		return "member"
	}
}

// RoleFromString parses the persisted textual form of a role.
// Unknown values resolve to RoleMember, the non-privileged default.
func RoleFromString(s string) Role {
	switch s {
	case "owner":
		return RoleOwner
	case "store_manager":
		return RoleStoreManager
	default:
		return RoleMember
	}
}

// ReservedRole returns the role a username is entitled to at signup.
// Roles are assigned only for the fixed allow-lists of reserved usernames;
// everyone else starts as a regular member.
func ReservedRole(username string, owners, storeManagers []string) Role {
	for _, reserved := range owners {
		if username == reserved {
			return RoleOwner
		}
	}
	for _, reserved := range storeManagers {
		if username == reserved {
			return RoleStoreManager
		}
	}
	return RoleMember
}

// User represents a persisted platform account.
type User struct {
	// ID is the account's UUID.
	ID string `json:"id"`

	// Username is the unique login name.
	Username string `json:"username"`

	// Nickname is the display name shown in chat and on the profile.
	Nickname string `json:"nickname"`

	// AvatarKey is the object-storage key of the account's avatar image, if any.
	AvatarKey string `json:"-"`

	// Role is the marketplace tier resolved at signup.
	Role Role `json:"role"`

	// Blocked accounts may not write to any marketplace partition.
	Blocked bool `json:"-"`

	// BannedFromChat accounts may not join chatrooms.
	BannedFromChat bool `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}
