package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fearlessclothing/storefront-api/internal/models"
	"github.com/fearlessclothing/storefront-api/internal/utils"
	"github.com/google/uuid"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, int, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

// document-shaped fields live in JSONB columns
type productDoc struct {
	sizes   []byte
	colors  []byte
	images  []byte
	tags    []byte
	reviews []byte
}

func marshalProductDoc(p *models.Product) (*productDoc, error) {

	doc := &productDoc{}

	var err error

	if doc.sizes, err = json.Marshal(p.Sizes); err != nil {
		return nil, fmt.Errorf("failed to marshal sizes: %w", err)
	}

	if doc.colors, err = json.Marshal(p.Colors); err != nil {
		return nil, fmt.Errorf("failed to marshal colors: %w", err)
	}

	if doc.images, err = json.Marshal(p.Images); err != nil {
		return nil, fmt.Errorf("failed to marshal images: %w", err)
	}

	if doc.tags, err = json.Marshal(p.Tags); err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}

	if doc.reviews, err = json.Marshal(p.Reviews); err != nil {
		return nil, fmt.Errorf("failed to marshal reviews: %w", err)
	}

	return doc, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	doc, err := marshalProductDoc(product)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, sku, name, description, price, discount_price,
			category, subcategory, brand, gender, sizes, colors, images, material,
			tags, total_stock, is_active, is_featured, rating_average, rating_count,
			reviews, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		product.ID, product.SKU, product.Name, product.Description, product.Price,
		product.DiscountPrice, product.Category, product.Subcategory, product.Brand,
		product.Gender, doc.sizes, doc.colors, doc.images, product.Material, doc.tags,
		product.TotalStock, product.IsActive, product.IsFeatured,
		product.Rating.Average, product.Rating.Count, doc.reviews,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, sku, name, description, price, discount_price, category,
			subcategory, brand, gender, sizes, colors, images, material, tags,
			total_stock, is_active, is_featured, rating_average, rating_count,
			reviews, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	product := &models.Product{}

	var (
		discountPrice sql.NullFloat64
		sizesJSON     []byte
		colorsJSON    []byte
		imagesJSON    []byte
		tagsJSON      []byte
		reviewsJSON   []byte
	)

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(
		&product.ID, &product.SKU, &product.Name, &product.Description,
		&product.Price, &discountPrice, &product.Category, &product.Subcategory,
		&product.Brand, &product.Gender, &sizesJSON, &colorsJSON, &imagesJSON,
		&product.Material, &tagsJSON, &product.TotalStock, &product.IsActive,
		&product.IsFeatured, &product.Rating.Average, &product.Rating.Count,
		&reviewsJSON, &product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	if discountPrice.Valid {
		product.DiscountPrice = &discountPrice.Float64
	}

	if err := unmarshalProductDoc(product, sizesJSON, colorsJSON, imagesJSON, tagsJSON, reviewsJSON); err != nil {
		return nil, err
	}

	return product, nil
}

func unmarshalProductDoc(p *models.Product, sizes, colors, images, tags, reviews []byte) error {

	if err := json.Unmarshal(sizes, &p.Sizes); err != nil {
		return fmt.Errorf("failed to unmarshal sizes: %w", err)
	}

	if err := json.Unmarshal(colors, &p.Colors); err != nil {
		return fmt.Errorf("failed to unmarshal colors: %w", err)
	}

	if err := json.Unmarshal(images, &p.Images); err != nil {
		return fmt.Errorf("failed to unmarshal images: %w", err)
	}

	if err := json.Unmarshal(tags, &p.Tags); err != nil {
		return fmt.Errorf("failed to unmarshal tags: %w", err)
	}

	if reviews != nil {
		if err := json.Unmarshal(reviews, &p.Reviews); err != nil {
			return fmt.Errorf("failed to unmarshal reviews: %w", err)
		}
	}

	return nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	doc, err := marshalProductDoc(product)
	if err != nil {
		return err
	}

	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, discount_price = $4,
			category = $5, subcategory = $6, brand = $7, gender = $8, sizes = $9,
			colors = $10, images = $11, material = $12, tags = $13,
			total_stock = $14, is_active = $15, is_featured = $16,
			rating_average = $17, rating_count = $18, reviews = $19,
			updated_at = NOW()
		WHERE id = $20
		RETURNING updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		product.Name, product.Description, product.Price, product.DiscountPrice,
		product.Category, product.Subcategory, product.Brand, product.Gender,
		doc.sizes, doc.colors, doc.images, product.Material, doc.tags,
		product.TotalStock, product.IsActive, product.IsFeatured,
		product.Rating.Average, product.Rating.Count, doc.reviews, product.ID,
	).Scan(&product.UpdatedAt)
}

func (r *productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deleted == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// ListProducts returns active products matching the filter. Reviews are
// excluded from list views.
func (r *productRepository) ListProducts(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	where, args := buildProductFilter(filter)

	var total int

	countQuery := `SELECT COUNT(*) FROM products ` + where

	if err := r.DB.QueryRowContext(dbCtx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize

	query := fmt.Sprintf(`
		SELECT id, sku, name, description, price, discount_price, category,
			subcategory, brand, gender, sizes, colors, images, material, tags,
			total_stock, is_active, is_featured, rating_average, rating_count,
			created_at, updated_at
		FROM products
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, where, productSortClause(filter.Sort), len(args)+1, len(args)+2)

	args = append(args, filter.PageSize, offset)

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying products: %w", err)
	}

	defer rows.Close()

	var products []*models.Product

	for rows.Next() {
		product := &models.Product{}

		var (
			discountPrice sql.NullFloat64
			sizesJSON     []byte
			colorsJSON    []byte
			imagesJSON    []byte
			tagsJSON      []byte
		)

		err := rows.Scan(
			&product.ID, &product.SKU, &product.Name, &product.Description,
			&product.Price, &discountPrice, &product.Category, &product.Subcategory,
			&product.Brand, &product.Gender, &sizesJSON, &colorsJSON, &imagesJSON,
			&product.Material, &tagsJSON, &product.TotalStock, &product.IsActive,
			&product.IsFeatured, &product.Rating.Average, &product.Rating.Count,
			&product.CreatedAt, &product.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning product row: %w", err)
		}

		if discountPrice.Valid {
			product.DiscountPrice = &discountPrice.Float64
		}

		if err := unmarshalProductDoc(product, sizesJSON, colorsJSON, imagesJSON, tagsJSON, nil); err != nil {
			return nil, 0, err
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, total, nil
}

func buildProductFilter(filter *models.ProductFilter) (string, []any) {

	clauses := []string{"is_active = TRUE"}

	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Category != "" {
		clauses = append(clauses, "category = "+arg(filter.Category))
	}

	if filter.Gender != "" {
		clauses = append(clauses, "gender = "+arg(filter.Gender))
	}

	if filter.Brand != "" {
		clauses = append(clauses, "brand ILIKE "+arg("%"+filter.Brand+"%"))
	}

	if filter.MinPrice != nil {
		clauses = append(clauses, "price >= "+arg(*filter.MinPrice))
	}

	if filter.MaxPrice != nil {
		clauses = append(clauses, "price <= "+arg(*filter.MaxPrice))
	}

	if filter.Size != "" {
		clauses = append(clauses,
			"EXISTS (SELECT 1 FROM jsonb_array_elements(sizes) s WHERE s->>'size' = "+arg(filter.Size)+")")
	}

	if filter.Color != "" {
		clauses = append(clauses,
			"EXISTS (SELECT 1 FROM jsonb_array_elements(colors) c WHERE c->>'color' ILIKE "+arg("%"+filter.Color+"%")+")")
	}

	if filter.Featured != nil {
		clauses = append(clauses, "is_featured = "+arg(*filter.Featured))
	}

	if filter.Query != "" {
		pattern := arg("%" + filter.Query + "%")
		clauses = append(clauses,
			"(name ILIKE "+pattern+" OR description ILIKE "+pattern+" OR tags::text ILIKE "+pattern+")")
	}

	where := "WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}

	return where, args
}

func productSortClause(sort string) string {
	switch sort {
	case "price_asc":
		return "price ASC"
	case "price_desc":
		return "price DESC"
	case "name_asc":
		return "name ASC"
	case "name_desc":
		return "name DESC"
	case "rating":
		return "rating_average DESC"
	case "newest":
		return "created_at DESC"
	default:
		return "created_at DESC"
	}
}
