package market

import "time"

// Product is one marketplace listing. Products are soft-deleted: trashed rows
// keep their partition and are hidden from listings, never hard-deleted.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageKey string  `json:"-"`

	// ImageURL is the public form of ImageKey, filled in at the HTTP boundary.
	ImageURL string `json:"imageUrl,omitempty"`

	StoreType StoreType `json:"storeType"`

	// StoreID is meaningful for main (always 0) and numbered partitions.
	StoreID int `json:"storeId"`

	// OwnerID is set only for personal-store products.
	OwnerID string `json:"ownerUserId,omitempty"`

	IsInTrash bool      `json:"isInTrash"`
	CreatedAt time.Time `json:"createdAt"`
}

// WantedItem is one entry on a member's "looking for" want list.
type WantedItem struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CartItem is one product in a member's cart, joined with its listing.
type CartItem struct {
	Product  Product   `json:"product"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"addedAt"`
}
