package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProductSummary carries the display fields a cart response joins in for
// each line item.
type ProductSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Brand    string    `json:"brand"`
	Category string    `json:"category"`
	Price    float64   `json:"price"`
	Image    string    `json:"image,omitempty"`
}

// CartItem snapshots product, size, color and unit price at the time the
// item was added. Price is never refreshed when quantities merge.
type CartItem struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Price     float64         `json:"price"`
	Product   *ProductSummary `json:"product,omitempty"`
}

type Cart struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice float64    `json:"total_price"`
	Version    int64      `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewCart returns an empty cart shell for the user. It is not persisted
// until the first mutation.
func NewCart(userID uuid.UUID) *Cart {
	now := time.Now()

	return &Cart{
		ID:        uuid.New(),
		UserID:    userID,
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RecomputeTotals rebuilds TotalItems and TotalPrice from the line items.
// Every mutation must call this immediately before persisting.
func (c *Cart) RecomputeTotals() {
	totalItems := 0
	totalPrice := 0.0

	for _, item := range c.Items {
		totalItems += item.Quantity
		totalPrice += float64(item.Quantity) * item.Price
	}

	c.TotalItems = totalItems
	c.TotalPrice = totalPrice
}

// FindItem locates a line item by its id.
func (c *Cart) FindItem(itemID uuid.UUID) (*CartItem, bool) {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i], true
		}
	}

	return nil, false
}

// MatchItem locates the line item sharing the merge key
// (product, size, color), color compared case-insensitively.
func (c *Cart) MatchItem(productID uuid.UUID, size, color string) (*CartItem, bool) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID &&
			c.Items[i].Size == size &&
			strings.EqualFold(c.Items[i].Color, color) {
			return &c.Items[i], true
		}
	}

	return nil, false
}

// RemoveItem drops the line item with the given id. Removing an id that is
// not in the cart is not an error; the cart is returned unchanged.
func (c *Cart) RemoveItem(itemID uuid.UUID) {
	filtered := c.Items[:0]

	for _, item := range c.Items {
		if item.ID != itemID {
			filtered = append(filtered, item)
		}
	}

	c.Items = filtered
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,min=1"`
	Size      string    `json:"size" validate:"required"`
	Color     string    `json:"color" validate:"required"`
}

type UpdateCartItemRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1"`
}
