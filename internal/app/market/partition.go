/*
Package market implements the role-gated marketplace write model.

This file defines the partition resolution that decides which product-storage
partition (main store, numbered store, or personal store) a write targets,
based strictly on the caller's role tier.
*/
package market

import (
	"uminion/internal/app/user"
	"uminion/internal/pkg/errs"
)

// StoreType identifies a product-storage partition kind.
type StoreType string

const (
	// StoreTypeMain is the single admin-owned global store.
	StoreTypeMain StoreType = "main"

	// StoreTypeNumbered is one of the numbered stores managed by store managers.
	StoreTypeNumbered StoreType = "store"

	// StoreTypeUser is a regular member's personal store.
	StoreTypeUser StoreType = "user"
)

const (
	// MinStoreID and MaxStoreID bound the numbered store range, inclusive.
	MinStoreID = 1
	MaxStoreID = 30

	// MainStoreID is the fixed store id of the global main store.
	MainStoreID = 0
)

// Partition is the resolved product-storage bucket of a write.
type Partition struct {
	StoreType StoreType

	// StoreID is MainStoreID for the main store and 1-30 for numbered stores.
	// It carries no meaning for personal partitions.
	StoreID int

	// OwnerID is set only for personal partitions.
	OwnerID string
}

// ResolvePartition decides the partition a product write by u targets.
// Resolution is strict tier priority: the highest role always wins regardless
// of the requested store id. requestedStoreID of 0 means absent.
//
//   - Blocked accounts are rejected outright.
//   - Owners always write to the main store; a requested numbered store is ignored.
//   - Store managers must name a numbered store in [1,30].
//   - Members always write to their personal partition; a requested numbered
//     store is ignored, not rejected.
func ResolvePartition(u user.User, requestedStoreID int) (Partition, *errs.CustomError) {
	if u.Blocked {
		return Partition{}, errs.NewError(errs.ErrAccountBlocked)
	}

	switch u.Role {
	case user.RoleOwner:
		return Partition{StoreType: StoreTypeMain, StoreID: MainStoreID}, nil

	case user.RoleStoreManager:
		if requestedStoreID < MinStoreID || requestedStoreID > MaxStoreID {
			return Partition{}, errs.NewError(errs.ErrStoreIDInvalid)
		}
		return Partition{StoreType: StoreTypeNumbered, StoreID: requestedStoreID}, nil

	default:
		return Partition{StoreType: StoreTypeUser, OwnerID: u.ID}, nil
	}
}

// CanWrite reports whether u's resolved tier governs the product's partition.
// It is the authorization predicate for update/trash/restore operations: an
// owner governs the main store, a store manager governs every numbered store,
// and a member governs only their own personal partition.
func CanWrite(u user.User, p Product) *errs.CustomError {
	requested := 0
	if p.StoreType == StoreTypeNumbered {
		requested = p.StoreID
	}

	partition, customErr := ResolvePartition(u, requested)
	if customErr != nil {
		// A store manager resolving against a non-numbered product fails on
		// the store id. That is an authorization mismatch here, not a request
		// validation problem, so report it as forbidden.
		if customErr.Code == errs.ErrStoreIDInvalid {
			return errs.NewError(errs.ErrProductWriteForbidden)
		}
		return customErr
	}

	if partition.StoreType != p.StoreType {
		return errs.NewError(errs.ErrProductWriteForbidden)
	}

	switch p.StoreType {
	case StoreTypeNumbered:
		if partition.StoreID != p.StoreID {
			return errs.NewError(errs.ErrProductWriteForbidden)
		}
	case StoreTypeUser:
		if partition.OwnerID != p.OwnerID {
			return errs.NewError(errs.ErrProductWriteForbidden)
		}
	}

	return nil
}
