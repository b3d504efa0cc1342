package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"uminion/internal/app/chat"
	"uminion/internal/app/storage"
	"uminion/internal/app/store"
	"uminion/internal/configs"
	"uminion/internal/pkg/auth/jwt"
	"uminion/internal/pkg/errs"
)

// AppDeps bundles the services and repositories the HTTP handlers depend on.
type AppDeps struct {
	Chat    *chat.Server
	Config  *configs.AppConfig
	Storage storage.StorageService

	Users    *store.UserRepository
	Products *store.ProductRepository
	Friends  *store.FriendRepository
	Carts    *store.CartRepository
	Wants    *store.WantRepository
}

// FullAssetURL turns a stored object key into its public URL. Empty keys map
// to an empty URL.
func (d *AppDeps) FullAssetURL(key string) string {
	if key == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s", d.Config.PublicAssetBase, key)
}

// NormalizeAssetKey reduces a client-supplied image reference to a bare object
// key, accepting either a key or the full public URL. Path traversal is rejected.
func (d *AppDeps) NormalizeAssetKey(raw string) (string, error) {
	key := strings.TrimPrefix(raw, d.Config.PublicAssetBase+"/")
	key = strings.TrimPrefix(key, "/")

	if strings.Contains(key, "..") || strings.Contains(key, "://") {
		return "", errors.New("invalid asset key")
	}

	return key, nil
}

// currentUser resolves the authenticated account behind the request, or an
// unauthorized error when the request carries no valid identity.
func (d *AppDeps) currentUser(r *http.Request) (store.UserRecord, *errs.CustomError) {
	identity := jwt.GetPayloadFromContext(r)
	if identity == nil {
		return store.UserRecord{}, errs.NewError(errs.ErrUnauthorized)
	}

	rec, err := d.Users.GetByID(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.UserRecord{}, errs.NewError(errs.ErrUnauthorized)
		}
		return store.UserRecord{}, errs.NewError(errs.ErrUnknown, err)
	}

	return rec, nil
}
