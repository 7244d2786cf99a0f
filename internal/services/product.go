package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/fearlessclothing/storefront-api/internal/cache"
	appErrors "github.com/fearlessclothing/storefront-api/internal/errors"
	"github.com/fearlessclothing/storefront-api/internal/models"
	repository "github.com/fearlessclothing/storefront-api/internal/repositories"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, int, error)
	AddReview(ctx context.Context, productID, userID uuid.UUID, username string, req *models.AddReviewRequest) (*models.Product, error)
	AdjustStock(ctx context.Context, productID uuid.UUID, req *models.AdjustStockRequest) (*models.Product, error)
}

type productService struct {
	repo      repository.ProductRepository
	cache     cache.Cache
	sanitizer *bluemonday.Policy
}

func NewProductService(repo repository.ProductRepository, productCache cache.Cache) ProductService {
	return &productService{
		repo:      repo,
		cache:     productCache,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {

	product := &models.Product{
		ID:            uuid.New(),
		SKU:           req.SKU,
		Name:          req.Name,
		Description:   s.sanitizer.Sanitize(req.Description),
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		Brand:         req.Brand,
		Gender:        req.Gender,
		Sizes:         req.Sizes,
		Colors:        req.Colors,
		Images:        req.Images,
		Material:      req.Material,
		Tags:          req.Tags,
		IsActive:      true,
		IsFeatured:    req.IsFeatured,
		Reviews:       []models.Review{},
	}

	product.RecomputeStock()

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, appErrors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	cacheKey := cache.Key(cache.ProductKeyPrefix, id.String())

	if s.cache != nil {
		var cached models.Product

		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			slog.Warn("Product cache read failed", slog.String("error", err.Error()))
		} else if hit {
			return &cached, nil
		}
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve product").WithError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, product, 0); err != nil {
			slog.Warn("Product cache write failed", slog.String("error", err.Error()))
		}
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.getForWrite(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = s.sanitizer.Sanitize(*req.Description)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.DiscountPrice != nil {
		product.DiscountPrice = req.DiscountPrice
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Subcategory != nil {
		product.Subcategory = *req.Subcategory
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Gender != nil {
		product.Gender = *req.Gender
	}
	if req.Sizes != nil {
		product.Sizes = *req.Sizes
		product.RecomputeStock()
	}
	if req.Colors != nil {
		product.Colors = *req.Colors
	}
	if req.Images != nil {
		product.Images = *req.Images
	}
	if req.Material != nil {
		product.Material = *req.Material
	}
	if req.Tags != nil {
		product.Tags = *req.Tags
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, appErrors.DatabaseError("Failed to update product").WithError(err)
	}

	s.invalidate(ctx, id)

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Product not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to delete product").WithError(err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *productService) ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, int, error) {

	products, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, total, nil
}

// AddReview appends the user's review and recomputes the rating aggregate in
// the same write. A user gets at most one review per product.
func (s *productService) AddReview(ctx context.Context, productID, userID uuid.UUID, username string, req *models.AddReviewRequest) (*models.Product, error) {

	product, err := s.getForWrite(ctx, productID)
	if err != nil {
		return nil, err
	}

	if _, ok := product.ReviewBy(userID); ok {
		return nil, appErrors.DuplicateEntryError("Product already reviewed")
	}

	product.Reviews = append(product.Reviews, models.Review{
		ID:        uuid.New(),
		UserID:    userID,
		Username:  username,
		Rating:    req.Rating,
		Comment:   s.sanitizer.Sanitize(req.Comment),
		CreatedAt: time.Now(),
	})

	product.RecomputeRating()

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, appErrors.DatabaseError("Failed to save review").WithError(err)
	}

	s.invalidate(ctx, productID)

	return product, nil
}

// AdjustStock applies a delta to one size's stock, clamped at zero.
func (s *productService) AdjustStock(ctx context.Context, productID uuid.UUID, req *models.AdjustStockRequest) (*models.Product, error) {

	product, err := s.getForWrite(ctx, productID)
	if err != nil {
		return nil, err
	}

	if ok := product.AdjustStock(req.Size, req.Delta); !ok {
		return nil, appErrors.AvailabilityError("Size not available")
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, appErrors.DatabaseError("Failed to update stock").WithError(err)
	}

	s.invalidate(ctx, productID)

	return product, nil
}

// getForWrite always reads the authoritative row, never the cache.
func (s *productService) getForWrite(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve product").WithError(err)
	}

	return product, nil
}

func (s *productService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, cache.Key(cache.ProductKeyPrefix, id.String())); err != nil {
		slog.Warn("Product cache invalidation failed", slog.String("error", err.Error()))
	}
}
