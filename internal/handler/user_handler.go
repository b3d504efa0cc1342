package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"uminion/internal/app/store"
	"uminion/internal/pkg/errs"
	"uminion/internal/pkg/logx"
	"uminion/internal/pkg/req"
	"uminion/internal/pkg/resp"
)

// normalizeAvatarKey validates a client-supplied avatar reference. Only keys
// under the avatar prefix are accepted: the stored key later feeds the
// replaced-avatar delete, so pointing it at a foreign object would let a user
// destroy someone else's asset.
func (d *AppDeps) normalizeAvatarKey(raw string) (string, *errs.CustomError) {
	key, err := d.NormalizeAssetKey(raw)
	if err != nil || !strings.HasPrefix(key, "avatars/") {
		return "", errs.NewError(errs.ErrInvalidParams)
	}
	return key, nil
}

// HandleGetProfile returns the caller's own account.
func HandleGetProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, customErr := deps.currentUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, deps.userResponse(rec.User, rec.AvatarKey))
	}
}

type UpdateProfileInput struct {
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

// HandleUpdateProfile sets the caller's nickname and avatar. The avatar field
// accepts either an object key or the full public URL of a previously
// presign-uploaded image. When the avatar changes, the old object is deleted
// in the background.
func HandleUpdateProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, customErr := deps.currentUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input UpdateProfileInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		nicknameLen := utf8.RuneCountInString(input.Nickname)
		if nicknameLen < 1 || nicknameLen > 30 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		avatarKey := rec.AvatarKey
		if input.Avatar != "" {
			key, customErr := deps.normalizeAvatarKey(input.Avatar)
			if customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
			avatarKey = key
		}

		updated, err := deps.Users.UpdateProfile(r.Context(), rec.ID, input.Nickname, avatarKey)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			logx.Error(err, "failed to update profile", "user_id", rec.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if rec.AvatarKey != "" && rec.AvatarKey != avatarKey {
			go func(oldKey string) {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := deps.Storage.Delete(ctx, oldKey); err != nil {
					logx.Warn("failed to delete replaced avatar", "key", oldKey, "error", err)
				}
			}(rec.AvatarKey)
		}

		resp.RespondSuccess(w, r, deps.userResponse(updated, updated.AvatarKey))
	}
}

// HandleGetUser returns the public view of another account by username.
func HandleGetUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")
		if username == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		rec, err := deps.Users.GetByUsername(r.Context(), username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			logx.Error(err, "failed to fetch user", "username", username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, deps.userResponse(rec.User, rec.AvatarKey))
	}
}
