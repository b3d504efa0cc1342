package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"uminion/internal/app/storage"
	"uminion/internal/pkg/errs"
	"uminion/internal/pkg/logx"
	"uminion/internal/pkg/randx"
	"uminion/internal/pkg/req"
	"uminion/internal/pkg/resp"
)

// uploadKinds maps the accepted upload kinds to their object key prefixes.
var uploadKinds = map[string]string{
	"product": "products",
	"avatar":  "avatars",
}

type PresignUploadInput struct {
	Kind     string `json:"kind"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	FileSize int64  `json:"fileSize"`
}

// HandlePresignUpload validates the intended image and hands back a short-lived
// presigned PUT URL plus the object key the client must reference afterwards.
// The object is uploaded by the client directly; the server only ever stores
// the key.
func HandlePresignUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, customErr := deps.currentUser(r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input PresignUploadInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		prefix, ok := uploadKinds[input.Kind]
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if customErr := storage.ValidateImageSize(input.FileSize); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if customErr := storage.ValidateImageType(input.FileName, input.MimeType); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		ext := strings.ToLower(filepath.Ext(input.FileName))
		key := fmt.Sprintf("%s/%s%s", prefix, randx.NewID(), ext)

		url, err := deps.Storage.PresignUpload(r.Context(), key, strings.ToLower(input.MimeType), input.FileSize, storage.PresignedURLDuration)
		if err != nil {
			logx.Error(err, "failed to presign upload", "key", key)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"uploadUrl": url,
			"key":       key,
			"publicUrl": deps.FullAssetURL(key),
			"expiresIn": int(storage.PresignedURLDuration.Seconds()),
		})
	}
}

// HandlePresignDownload hands back a short-lived presigned GET URL for a
// stored object key.
func HandlePresignDownload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, customErr := deps.currentUser(r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		key, err := deps.NormalizeAssetKey(r.URL.Query().Get("key"))
		if err != nil || key == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		url, err := deps.Storage.PresignDownload(r.Context(), key, storage.PresignedURLDuration)
		if err != nil {
			logx.Error(err, "failed to presign download", "key", key)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"downloadUrl": url,
			"expiresIn":   int(storage.PresignedURLDuration.Seconds()),
		})
	}
}
