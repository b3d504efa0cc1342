package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"uminion/internal/app/chat"
	"uminion/internal/app/store"
	"uminion/internal/pkg/logx"
)

const (
	wsReadBufferSize  = 1024
	wsWriteBufferSize = 1024
)

// newUpgrader builds the WebSocket upgrader with origin checks tied to the
// configured allow-list. Development allows any origin.
func newUpgrader(deps *AppDeps) websocket.Upgrader {
	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	return websocket.Upgrader{
		ReadBufferSize:  wsReadBufferSize,
		WriteBufferSize: wsWriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}
}

// connectionToken pulls the optional bearer token from the query string or the
// Authorization header. Browsers cannot set headers on WebSocket dials, so the
// query parameter is the primary path.
func connectionToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	header := r.Header.Get("Authorization")
	if after, found := strings.CutPrefix(header, "Bearer "); found {
		return after
	}

	return ""
}

// HandleChatSocket upgrades the connection and hands it to the chat server.
//
// Identity is resolved exactly once, here. Every connection reserves an
// anonymous handle first; a valid token adds the account identity on top of
// it. A missing or invalid token never rejects the connection.
func HandleChatSocket(deps *AppDeps) http.HandlerFunc {
	upgrader := newUpgrader(deps)

	return func(w http.ResponseWriter, r *http.Request) {
		anonHandle := deps.Chat.NextAnonymousHandle()
		identity := chat.ResolveIdentity(connectionToken(r), deps.Config.JWTSecret, anonHandle)

		bannedFromChat := false
		if identity.Authenticated() {
			rec, err := deps.Users.GetByID(r.Context(), identity.UserID)
			switch {
			case err == nil:
				bannedFromChat = rec.BannedFromChat
			case errors.Is(err, store.ErrNotFound):
				// Token for a deleted account. Degrade to anonymous.
				identity = chat.Identity{AnonHandle: anonHandle}
			default:
				logx.Warn("chat connect: account lookup failed, degrading to anonymous",
					"user_id", identity.UserID, "error", err)
				identity = chat.Identity{AnonHandle: anonHandle}
			}
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Warn("chat connect: websocket upgrade failed", "error", err)
			return
		}

		client := chat.NewClient(deps.Chat, conn, identity, bannedFromChat)

		go client.WritePump()
		client.ReadPump()
	}
}
