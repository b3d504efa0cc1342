package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"uminion/internal/app/db"
	"uminion/internal/app/store"
	"uminion/internal/pkg/errs"
	"uminion/internal/pkg/logx"
	"uminion/internal/pkg/req"
	"uminion/internal/pkg/resp"
)

type FriendRequestInput struct {
	Username string `json:"username"`
}

// HandleFriendRequest sends a friend request to the named account. Requests to
// yourself and duplicate requests in either direction are rejected.
func HandleFriendRequest(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, customErr := deps.currentUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input FriendRequestInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		target, err := deps.Users.GetByUsername(r.Context(), input.Username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			logx.Error(err, "friend request: target lookup failed", "username", input.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if target.ID == rec.ID {
			resp.RespondError(w, r, errs.NewError(errs.ErrFriendRequestInvalid))
			return
		}

		exists, err := deps.Friends.Exists(r.Context(), rec.ID, target.ID)
		if err != nil {
			logx.Error(err, "friend request: existence check failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if exists {
			resp.RespondError(w, r, errs.NewError(errs.ErrFriendRequestInvalid))
			return
		}

		if err := deps.Friends.Request(r.Context(), rec.ID, target.ID); err != nil {
			if db.IsUniqueViolation(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrFriendRequestInvalid))
				return
			}
			logx.Error(err, "friend request: insert failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

type FriendAcceptInput struct {
	Username string `json:"username"`
}

// HandleFriendAccept accepts a pending request addressed to the caller.
func HandleFriendAccept(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, customErr := deps.currentUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input FriendAcceptInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		requester, err := deps.Users.GetByUsername(r.Context(), input.Username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			logx.Error(err, "friend accept: requester lookup failed", "username", input.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.Friends.Accept(r.Context(), requester.ID, rec.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrFriendRequestInvalid))
				return
			}
			logx.Error(err, "friend accept: update failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleFriendList returns the caller's friends, or pending requests when
// ?status=pending is given.
func HandleFriendList(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, customErr := deps.currentUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var entries []store.FriendEntry
		var err error

		switch r.URL.Query().Get("status") {
		case "", store.FriendStatusAccepted:
			entries, err = deps.Friends.ListAccepted(r.Context(), rec.ID)
		case store.FriendStatusPending:
			entries, err = deps.Friends.ListPending(r.Context(), rec.ID)
		default:
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if err != nil {
			logx.Error(err, "friend list: query failed", "user_id", rec.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if entries == nil {
			entries = []store.FriendEntry{}
		}

		resp.RespondSuccess(w, r, entries)
	}
}

// HandleFriendRemove removes a friendship or withdraws a pending request with
// the named account.
func HandleFriendRemove(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, customErr := deps.currentUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		username := chi.URLParam(r, "username")
		other, err := deps.Users.GetByUsername(r.Context(), username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			logx.Error(err, "friend remove: lookup failed", "username", username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.Friends.Remove(r.Context(), rec.ID, other.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrFriendRequestInvalid))
				return
			}
			logx.Error(err, "friend remove: delete failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}
