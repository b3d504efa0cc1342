package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"uminion/internal/app/market"
	"uminion/internal/app/store"
	"uminion/internal/pkg/errs"
	"uminion/internal/pkg/logx"
	"uminion/internal/pkg/req"
	"uminion/internal/pkg/resp"
)

type ProductInput struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`

	// StoreID names the target numbered store. Only store managers need it.
	StoreID int `json:"storeId"`
}

// validateProductFields checks the writable listing fields and returns the
// normalized image key.
func (d *AppDeps) validateProductFields(input ProductInput) (string, *errs.CustomError) {
	nameLen := utf8.RuneCountInString(input.Name)
	if nameLen < 1 || nameLen > 100 {
		return "", errs.NewError(errs.ErrProductInvalid)
	}

	if input.Price < 0 || math.IsNaN(input.Price) || math.IsInf(input.Price, 0) {
		return "", errs.NewError(errs.ErrProductInvalid)
	}

	if input.Image == "" {
		return "", nil
	}

	key, err := d.NormalizeAssetKey(input.Image)
	if err != nil || !strings.HasPrefix(key, "products/") {
		return "", errs.NewError(errs.ErrProductInvalid)
	}

	return key, nil
}

// withImageURL fills the public image URL on a listing.
func (d *AppDeps) withImageURL(p market.Product) market.Product {
	p.ImageURL = d.FullAssetURL(p.ImageKey)
	return p
}

func (d *AppDeps) withImageURLs(products []market.Product) []market.Product {
	out := make([]market.Product, 0, len(products))
	for _, p := range products {
		out = append(out, d.withImageURL(p))
	}
	return out
}

// HandleProductCreate creates a listing in the partition resolved from the
// caller's role. The requested store id matters only for store managers.
func HandleProductCreate(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, customErr := deps.currentUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input ProductInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		imageKey, customErr := deps.validateProductFields(input)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		partition, customErr := market.ResolvePartition(rec.User, input.StoreID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		created, err := deps.Products.Create(r.Context(), input.Name, input.Price, imageKey, partition)
		if err != nil {
			logx.Error(err, "failed to create product", "user_id", rec.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, deps.withImageURL(created))
	}
}

// HandleProductListMain lists the main store.
func HandleProductListMain(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		partition := market.Partition{StoreType: market.StoreTypeMain, StoreID: market.MainStoreID}
		listPartition(deps, w, r, partition)
	}
}

// HandleProductListStore lists one numbered store.
func HandleProductListStore(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := strconv.Atoi(chi.URLParam(r, "storeID"))
		if err != nil || storeID < market.MinStoreID || storeID > market.MaxStoreID {
			resp.RespondError(w, r, errs.NewError(errs.ErrStoreIDInvalid))
			return
		}

		partition := market.Partition{StoreType: market.StoreTypeNumbered, StoreID: storeID}
		listPartition(deps, w, r, partition)
	}
}

// HandleProductListUser lists another member's personal store.
func HandleProductListUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		owner, err := deps.Users.GetByUsername(r.Context(), username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			logx.Error(err, "product list: owner lookup failed", "username", username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		partition := market.Partition{StoreType: market.StoreTypeUser, OwnerID: owner.ID}
		listPartition(deps, w, r, partition)
	}
}

// HandleProductListMine lists the caller's own write partition. Store managers
// pick the numbered store with ?storeId=.
func HandleProductListMine(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, customErr := deps.currentUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		partition, customErr := callerPartition(deps, r, rec)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		listPartition(deps, w, r, partition)
	}
}

// HandleProductListTrash lists the trashed products of the caller's partition.
func HandleProductListTrash(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, customErr := deps.currentUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		partition, customErr := callerPartition(deps, r, rec)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		products, err := deps.Products.ListByPartition(r.Context(), partition, true)
		if err != nil {
			logx.Error(err, "failed to list trashed products")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, deps.withImageURLs(products))
	}
}

// callerPartition resolves the caller's own partition, reading the optional
// ?storeId= query parameter used by store managers.
func callerPartition(deps *AppDeps, r *http.Request, rec store.UserRecord) (market.Partition, *errs.CustomError) {
	requestedStoreID := 0
	if raw := r.URL.Query().Get("storeId"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return market.Partition{}, errs.NewError(errs.ErrStoreIDInvalid)
		}
		requestedStoreID = parsed
	}

	return market.ResolvePartition(rec.User, requestedStoreID)
}

func listPartition(deps *AppDeps, w http.ResponseWriter, r *http.Request, partition market.Partition) {
	products, err := deps.Products.ListByPartition(r.Context(), partition, false)
	if err != nil {
		logx.Error(err, "failed to list products")
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		return
	}

	resp.RespondSuccess(w, r, deps.withImageURLs(products))
}

// loadGovernedProduct fetches the listing and checks the caller's tier governs
// its partition.
func loadGovernedProduct(deps *AppDeps, r *http.Request, rec store.UserRecord) (market.Product, *errs.CustomError) {
	productID := chi.URLParam(r, "productID")

	product, err := deps.Products.GetByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return market.Product{}, errs.NewError(errs.ErrProductNotFound)
		}
		return market.Product{}, errs.NewError(errs.ErrUnknown, err)
	}

	if customErr := market.CanWrite(rec.User, product); customErr != nil {
		return market.Product{}, customErr
	}

	return product, nil
}

// HandleProductUpdate replaces the mutable fields of a listing.
func HandleProductUpdate(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, customErr := deps.currentUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		product, customErr := loadGovernedProduct(deps, r, rec)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input ProductInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		imageKey, customErr := deps.validateProductFields(input)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if imageKey == "" {
			imageKey = product.ImageKey
		}

		updated, err := deps.Products.Update(r.Context(), product.ID, input.Name, input.Price, imageKey)
		if err != nil {
			logx.Error(err, "failed to update product", "product_id", product.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, deps.withImageURL(updated))
	}
}

// HandleProductTrash soft-deletes a listing into the trash.
func HandleProductTrash(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, customErr := deps.currentUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		product, customErr := loadGovernedProduct(deps, r, rec)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if err := deps.Products.MoveToTrash(r.Context(), product.ID, rec.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrProductNotFound))
				return
			}
			logx.Error(err, "failed to trash product", "product_id", product.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleProductRestore brings a trashed listing back.
func HandleProductRestore(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, customErr := deps.currentUser(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		product, customErr := loadGovernedProduct(deps, r, rec)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if err := deps.Products.Restore(r.Context(), product.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrProductNotFound))
				return
			}
			logx.Error(err, "failed to restore product", "product_id", product.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}
