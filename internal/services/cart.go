package service

import (
	"context"
	"database/sql"
	"errors"

	appErrors "github.com/fearlessclothing/storefront-api/internal/errors"
	"github.com/fearlessclothing/storefront-api/internal/models"
	repository "github.com/fearlessclothing/storefront-api/internal/repositories"
	"github.com/google/uuid"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) (*models.Cart, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, req *models.UpdateCartItemRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, itemID uuid.UUID) (*models.Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart never fails with not-found: a user without a cart row gets an
// empty shell, not an error.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
		}

		return nil, appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	if err := s.populateCart(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) (*models.Cart, error) {

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	if quantity < 1 {
		return nil, appErrors.ValidationError("Quantity must be at least 1")
	}

	return s.mutateCart(ctx, userID, true, func(cart *models.Cart) error {

		// Catalog state is read at mutation time; the stored cart is never
		// re-validated on plain reads.
		product, err := s.findActiveProduct(ctx, req.ProductID)
		if err != nil {
			return err
		}

		sizeEntry, ok := product.FindSize(req.Size)
		if !ok {
			return appErrors.AvailabilityError("Size not available")
		}

		colorEntry, ok := product.FindColor(req.Color)
		if !ok {
			return appErrors.AvailabilityError("Color not available")
		}

		if quantity > sizeEntry.Stock {
			return appErrors.AvailabilityError("Insufficient stock")
		}

		if existing, ok := cart.MatchItem(product.ID, req.Size, colorEntry.Color); ok {
			newQuantity := existing.Quantity + quantity

			if newQuantity > sizeEntry.Stock {
				return appErrors.AvailabilityError("Insufficient stock for requested quantity")
			}

			// The price snapshot is not refreshed when quantities merge.
			existing.Quantity = newQuantity

			return nil
		}

		cart.Items = append(cart.Items, models.CartItem{
			ID:        uuid.New(),
			ProductID: product.ID,
			Quantity:  quantity,
			Size:      sizeEntry.Size,
			Color:     colorEntry.Color,
			Price:     product.FinalPrice(),
		})

		return nil
	})
}

func (s *cartService) UpdateItem(ctx context.Context, userID uuid.UUID, req *models.UpdateCartItemRequest) (*models.Cart, error) {

	if req.Quantity < 1 {
		return nil, appErrors.ValidationError("Item ID and valid quantity are required")
	}

	return s.mutateCart(ctx, userID, false, func(cart *models.Cart) error {

		item, ok := cart.FindItem(req.ItemID)
		if !ok {
			return appErrors.NotFoundError("Item not found in cart")
		}

		product, err := s.findActiveProduct(ctx, item.ProductID)
		if err != nil {
			return err
		}

		sizeEntry, ok := product.FindSize(item.Size)
		if !ok {
			return appErrors.AvailabilityError("Size not available")
		}

		if req.Quantity > sizeEntry.Stock {
			return appErrors.AvailabilityError("Insufficient stock")
		}

		item.Quantity = req.Quantity

		return nil
	})
}

// RemoveItem drops the line item when present. An itemId that is not in the
// cart is not an error; only a missing cart is.
func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, itemID uuid.UUID) (*models.Cart, error) {

	return s.mutateCart(ctx, userID, false, func(cart *models.Cart) error {
		cart.RemoveItem(itemID)
		return nil
	})
}

func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	return s.mutateCart(ctx, userID, false, func(cart *models.Cart) error {
		cart.Items = []models.CartItem{}
		return nil
	})
}

// mutateCart runs a single read-validate-write cycle: load the cart, apply
// the mutation, recompute totals and save with a compare-and-swap on the
// cart version. A version conflict reloads and re-applies the mutation once
// before giving up.
func (s *cartService) mutateCart(ctx context.Context, userID uuid.UUID, createIfMissing bool, apply func(*models.Cart) error) (*models.Cart, error) {

	const attempts = 2

	for attempt := range attempts {

		cart, created, err := s.loadCart(ctx, userID, createIfMissing)
		if err != nil {
			return nil, err
		}

		if err := apply(cart); err != nil {
			return nil, err
		}

		cart.RecomputeTotals()

		if created {
			if err := s.cartRepo.CreateCart(ctx, cart); err != nil {
				return nil, appErrors.DatabaseError("Failed to create cart").WithError(err)
			}
		} else {
			ok, err := s.cartRepo.UpdateCartIfVersion(ctx, cart, cart.Version)
			if err != nil {
				return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
			}

			if !ok {
				if attempt == attempts-1 {
					return nil, appErrors.ConflictError("Cart was modified concurrently")
				}

				continue
			}
		}

		if err := s.populateCart(ctx, cart); err != nil {
			return nil, err
		}

		return cart, nil
	}

	return nil, appErrors.ConflictError("Cart was modified concurrently")
}

func (s *cartService) loadCart(ctx context.Context, userID uuid.UUID, createIfMissing bool) (*models.Cart, bool, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if createIfMissing {
				return models.NewCart(userID), true, nil
			}

			return nil, false, appErrors.NotFoundError("Cart not found").WithError(err)
		}

		return nil, false, appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	return cart, false, nil
}

// findActiveProduct treats a deactivated product the same as a missing one.
func (s *cartService) findActiveProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found or inactive").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve product").WithError(err)
	}

	if !product.IsActive {
		return nil, appErrors.NotFoundError("Product not found or inactive")
	}

	return product, nil
}

// populateCart joins line items with the product display fields the
// storefront renders. Products removed from the catalog since the item was
// added are left without a summary.
func (s *cartService) populateCart(ctx context.Context, cart *models.Cart) error {

	summaries := make(map[uuid.UUID]*models.ProductSummary)

	for i := range cart.Items {

		item := &cart.Items[i]

		if summary, ok := summaries[item.ProductID]; ok {
			item.Product = summary
			continue
		}

		product, err := s.productRepo.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}

			return appErrors.DatabaseError("Failed to retrieve product").WithError(err)
		}

		summary := &models.ProductSummary{
			ID:       product.ID,
			Name:     product.Name,
			Brand:    product.Brand,
			Category: product.Category,
			Price:    product.Price,
			Image:    product.PrimaryImage(),
		}

		summaries[item.ProductID] = summary
		item.Product = summary
	}

	return nil
}
