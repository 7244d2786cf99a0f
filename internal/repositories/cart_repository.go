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

type CartRepository interface {
	CreateCart(ctx context.Context, cart *models.Cart) error
	GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	UpdateCartIfVersion(ctx context.Context, cart *models.Cart, expectedVersion int64) (bool, error)
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

func (r *cartRepository) CreateCart(ctx context.Context, cart *models.Cart) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	itemsJSON, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart items: %w", err)
	}

	query := `
		INSERT INTO carts (id, user_id, items, total_items, total_price, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 1, NOW(), NOW())
		RETURNING version, created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		cart.ID, cart.UserID, itemsJSON, cart.TotalItems, cart.TotalPrice,
	).Scan(&cart.Version, &cart.CreatedAt, &cart.UpdatedAt)
}

func (r *cartRepository) GetCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, items, total_items, total_price, version, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`

	cart := &models.Cart{}

	var itemsJSON []byte

	err := r.DB.QueryRowContext(dbCtx, query, userID).Scan(
		&cart.ID, &cart.UserID, &itemsJSON, &cart.TotalItems, &cart.TotalPrice,
		&cart.Version, &cart.CreatedAt, &cart.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &cart.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart items: %w", err)
	}

	return cart, nil
}

// UpdateCartIfVersion saves the cart only when the stored version still
// matches expectedVersion, incrementing it on success. Returns false when a
// concurrent writer got there first.
func (r *cartRepository) UpdateCartIfVersion(ctx context.Context, cart *models.Cart, expectedVersion int64) (bool, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	itemsJSON, err := json.Marshal(cart.Items)
	if err != nil {
		return false, fmt.Errorf("failed to marshal cart items: %w", err)
	}

	query := `
		UPDATE carts
		SET items = $1, total_items = $2, total_price = $3,
			version = version + 1, updated_at = NOW()
		WHERE id = $4 AND version = $5
		RETURNING version, updated_at
	`

	err = r.DB.QueryRowContext(dbCtx, query,
		itemsJSON, cart.TotalItems, cart.TotalPrice, cart.ID, expectedVersion,
	).Scan(&cart.Version, &cart.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}

		return false, fmt.Errorf("failed to update the cart: %w", err)
	}

	return true, nil
}
