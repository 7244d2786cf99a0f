package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type SizeStock struct {
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

type Color struct {
	Color     string `json:"color"`
	ColorCode string `json:"color_code,omitempty"`
}

type Image struct {
	URL       string `json:"url"`
	Alt       string `json:"alt,omitempty"`
	IsPrimary bool   `json:"is_primary"`
}

type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type Review struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
	ID            uuid.UUID   `json:"id"`
	SKU           string      `json:"sku"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Price         float64     `json:"price"`
	DiscountPrice *float64    `json:"discount_price,omitempty"`
	Category      string      `json:"category"`
	Subcategory   string      `json:"subcategory,omitempty"`
	Brand         string      `json:"brand"`
	Gender        string      `json:"gender"`
	Sizes         []SizeStock `json:"sizes"`
	Colors        []Color     `json:"colors"`
	Images        []Image     `json:"images,omitempty"`
	Material      string      `json:"material,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
	TotalStock    int         `json:"total_stock"`
	IsActive      bool        `json:"is_active"`
	IsFeatured    bool        `json:"is_featured"`
	Rating        Rating      `json:"rating"`
	Reviews       []Review    `json:"reviews,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// FinalPrice is the price actually charged: the discount price when one is
// set and undercuts the list price, the list price otherwise.
func (p *Product) FinalPrice() float64 {
	if p.DiscountPrice != nil && *p.DiscountPrice < p.Price {
		return *p.DiscountPrice
	}

	return p.Price
}

// FindSize matches the exact size label against the product's size list.
func (p *Product) FindSize(size string) (*SizeStock, bool) {
	for i := range p.Sizes {
		if p.Sizes[i].Size == size {
			return &p.Sizes[i], true
		}
	}

	return nil, false
}

// FindColor matches case-insensitively and returns the catalog's canonical
// entry, not the caller's casing.
func (p *Product) FindColor(name string) (*Color, bool) {
	for i := range p.Colors {
		if strings.EqualFold(p.Colors[i].Color, name) {
			return &p.Colors[i], true
		}
	}

	return nil, false
}

// RecomputeStock rebuilds TotalStock from the per-size counts. Must be called
// after any stock change, before the product is persisted.
func (p *Product) RecomputeStock() {
	total := 0
	for _, s := range p.Sizes {
		total += s.Stock
	}

	p.TotalStock = total
}

// AdjustStock applies delta to one size's stock, clamped at zero. Returns
// false when the size is not offered.
func (p *Product) AdjustStock(size string, delta int) bool {
	s, ok := p.FindSize(size)
	if !ok {
		return false
	}

	s.Stock = max(0, s.Stock+delta)
	p.RecomputeStock()

	return true
}

// ReviewBy returns the review left by the given user, if any.
func (p *Product) ReviewBy(userID uuid.UUID) (*Review, bool) {
	for i := range p.Reviews {
		if p.Reviews[i].UserID == userID {
			return &p.Reviews[i], true
		}
	}

	return nil, false
}

// RecomputeRating rebuilds the rating aggregate from the review list.
func (p *Product) RecomputeRating() {
	p.Rating.Count = len(p.Reviews)

	if len(p.Reviews) == 0 {
		p.Rating.Average = 0
		return
	}

	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}

	p.Rating.Average = float64(sum) / float64(len(p.Reviews))
}

// PrimaryImage returns the image flagged primary, falling back to the first.
func (p *Product) PrimaryImage() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}

	if len(p.Images) > 0 {
		return p.Images[0].URL
	}

	return ""
}

type CreateProductRequest struct {
	SKU           string      `json:"sku" validate:"required,min=3,max=50"`
	Name          string      `json:"name" validate:"required,min=3,max=200"`
	Description   string      `json:"description" validate:"required"`
	Price         float64     `json:"price" validate:"required,gt=0"`
	DiscountPrice *float64    `json:"discount_price,omitempty" validate:"omitempty,gt=0"`
	Category      string      `json:"category" validate:"required,oneof=shirts pants dresses jackets shoes accessories underwear sportswear formal casual"`
	Subcategory   string      `json:"subcategory,omitempty"`
	Brand         string      `json:"brand" validate:"required"`
	Gender        string      `json:"gender" validate:"required,oneof=men women unisex kids"`
	Sizes         []SizeStock `json:"sizes" validate:"required,min=1,dive"`
	Colors        []Color     `json:"colors" validate:"required,min=1,dive"`
	Images        []Image     `json:"images,omitempty" validate:"omitempty,dive"`
	Material      string      `json:"material,omitempty"`
	Tags          []string    `json:"tags,omitempty"`
	IsFeatured    bool        `json:"is_featured"`
}

type UpdateProductRequest struct {
	Name          *string      `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	Description   *string      `json:"description,omitempty"`
	Price         *float64     `json:"price,omitempty" validate:"omitempty,gt=0"`
	DiscountPrice *float64     `json:"discount_price,omitempty" validate:"omitempty,gt=0"`
	Category      *string      `json:"category,omitempty" validate:"omitempty,oneof=shirts pants dresses jackets shoes accessories underwear sportswear formal casual"`
	Subcategory   *string      `json:"subcategory,omitempty"`
	Brand         *string      `json:"brand,omitempty"`
	Gender        *string      `json:"gender,omitempty" validate:"omitempty,oneof=men women unisex kids"`
	Sizes         *[]SizeStock `json:"sizes,omitempty" validate:"omitempty,min=1,dive"`
	Colors        *[]Color     `json:"colors,omitempty" validate:"omitempty,min=1,dive"`
	Images        *[]Image     `json:"images,omitempty" validate:"omitempty,dive"`
	Material      *string      `json:"material,omitempty"`
	Tags          *[]string    `json:"tags,omitempty"`
	IsActive      *bool        `json:"is_active,omitempty"`
	IsFeatured    *bool        `json:"is_featured,omitempty"`
}

type AddReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

type AdjustStockRequest struct {
	Size  string `json:"size" validate:"required"`
	Delta int    `json:"delta" validate:"required"`
}

// ProductFilter captures the list/search query surface.
type ProductFilter struct {
	Query    string
	Category string
	Gender   string
	Brand    string
	Size     string
	Color    string
	MinPrice *float64
	MaxPrice *float64
	Featured *bool
	Sort     string
	Page     int
	PageSize int
}
