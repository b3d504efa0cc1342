package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"uminion/internal/app/market"
	"uminion/internal/app/store"
	"uminion/internal/pkg/errs"
	"uminion/internal/pkg/logx"
	"uminion/internal/pkg/req"
	"uminion/internal/pkg/resp"
)

type CartAddInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// HandleCartAdd puts a product in the caller's cart. Re-adding an existing
// product bumps its quantity.
func HandleCartAdd(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, customErr := deps.currentUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input CartAddInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.ProductID == "" || input.Quantity < 1 || input.Quantity > 999 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		product, err := deps.Products.GetByID(r.Context(), input.ProductID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrProductNotFound))
				return
			}
			logx.Error(err, "cart add: product lookup failed", "product_id", input.ProductID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if product.IsInTrash {
			resp.RespondError(w, r, errs.NewError(errs.ErrProductNotFound))
			return
		}

		if err := deps.Carts.Add(r.Context(), rec.ID, product.ID, input.Quantity); err != nil {
			logx.Error(err, "cart add: insert failed", "product_id", product.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleCartList returns the caller's cart.
func HandleCartList(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, customErr := deps.currentUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		items, err := deps.Carts.List(r.Context(), rec.ID)
		if err != nil {
			logx.Error(err, "cart list: query failed", "user_id", rec.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if items == nil {
			items = []market.CartItem{}
		}
		for i := range items {
			items[i].Product = deps.withImageURL(items[i].Product)
		}

		resp.RespondSuccess(w, r, items)
	}
}

// HandleCartRemove drops a product from the caller's cart.
func HandleCartRemove(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, customErr := deps.currentUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		productID := chi.URLParam(r, "productID")

		if err := deps.Carts.Remove(r.Context(), rec.ID, productID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrProductNotFound))
				return
			}
			logx.Error(err, "cart remove: delete failed", "product_id", productID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}
