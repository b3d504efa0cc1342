/*
Package chat contains the core logic for handling real-time chatrooms, connections,
and message broadcasting.

This file defines the per-connection Identity and its resolution from an optional
bearer token presented at connection time.
*/
package chat

import (
	"uminion/internal/pkg/auth/jwt"
	"uminion/internal/pkg/logx"
)

// Identity describes who a connection is for its whole lifetime.
// It is resolved exactly once, at connection establishment, and passed
// explicitly thereafter.
type Identity struct {
	// UserID and Username are set only when the connection presented a token
	// that verified against the signing secret.
	UserID   string
	Username string

	// AnonHandle is drawn from the server-wide counter at connection time and
	// never reused within the process lifetime. It names the connection when
	// it has no authenticated identity, and when an authenticated sender opts
	// into anonymity for a message.
	AnonHandle string
}

// Authenticated reports whether the connection carries a verified account identity.
func (id Identity) Authenticated() bool {
	return id.UserID != ""
}

// DisplayName returns the name shown in membership lists: the account's
// username when authenticated, the anonymous handle otherwise.
func (id Identity) DisplayName() string {
	if id.Authenticated() {
		return id.Username
	}
	return id.AnonHandle
}

// ResolveIdentity derives a connection identity from an optional bearer token.
// A missing or invalid token never fails the connection; it silently downgrades
// to the anonymous handle. anonHandle must already be reserved via
// Server.NextAnonymousHandle.
func ResolveIdentity(tokenString, secretKey, anonHandle string) Identity {
	identity := Identity{AnonHandle: anonHandle}

	if tokenString == "" {
		return identity
	}

	payload, err := jwt.ParseToken(tokenString, secretKey)
	if err != nil {
		logx.Warn("Invalid or expired token on chat connection, treating as anonymous", "error", err)
		return identity
	}

	identity.UserID = payload.UserID
	identity.Username = payload.Username

	return identity
}
