package handler

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"uminion/internal/app/market"
	"uminion/internal/app/store"
	"uminion/internal/pkg/errs"
	"uminion/internal/pkg/logx"
	"uminion/internal/pkg/req"
	"uminion/internal/pkg/resp"
)

type WantInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleWantCreate adds an entry to the caller's want list.
func HandleWantCreate(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, customErr := deps.currentUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input WantInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		nameLen := utf8.RuneCountInString(input.Name)
		if nameLen < 1 || nameLen > 100 || utf8.RuneCountInString(input.Description) > 500 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		item, err := deps.Wants.Create(r.Context(), rec.ID, input.Name, input.Description)
		if err != nil {
			logx.Error(err, "want create: insert failed", "user_id", rec.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, item)
	}
}

// HandleWantList returns the caller's want list.
func HandleWantList(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, customErr := deps.currentUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		items, err := deps.Wants.ListByUser(r.Context(), rec.ID)
		if err != nil {
			logx.Error(err, "want list: query failed", "user_id", rec.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if items == nil {
			items = []market.WantedItem{}
		}

		resp.RespondSuccess(w, r, items)
	}
}

// HandleWantDelete removes one of the caller's want-list entries.
func HandleWantDelete(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, customErr := deps.currentUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		wantID := chi.URLParam(r, "wantID")

		if err := deps.Wants.Delete(r.Context(), wantID, rec.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrWantNotFound))
				return
			}
			logx.Error(err, "want delete: delete failed", "want_id", wantID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}
