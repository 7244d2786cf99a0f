package repository_test

import (
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fearlessclothing/storefront-api/internal/models"
	repository "github.com/fearlessclothing/storefront-api/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCartRepoTest(t *testing.T) (repository.CartRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	repo := repository.NewCartRepo(db)
	require.NotNil(t, repo)

	return repo, mock
}

func TestCartRepository_CreateCart(t *testing.T) {
	repo, mock := setupCartRepoTest(t)
	ctx := t.Context()

	now := time.Now()

	cart := models.NewCart(uuid.New())
	cart.Items = []models.CartItem{
		{ID: uuid.New(), ProductID: uuid.New(), Quantity: 2, Size: "M", Color: "Black", Price: 80},
	}
	cart.RecomputeTotals()

	itemsJSON, err := json.Marshal(cart.Items)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(`INSERT INTO carts`).
			WithArgs(cart.ID, cart.UserID, itemsJSON, cart.TotalItems, cart.TotalPrice).
			WillReturnRows(sqlmock.NewRows([]string{"version", "created_at", "updated_at"}).
				AddRow(int64(1), now, now))

		// Act
		err := repo.CreateCart(ctx, cart)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, int64(1), cart.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(`INSERT INTO carts`).
			WithArgs(cart.ID, cart.UserID, itemsJSON, cart.TotalItems, cart.TotalPrice).
			WillReturnError(errors.New("connection lost"))

		// Act + Assert
		assert.Error(t, repo.CreateCart(ctx, cart))
	})
}

func TestCartRepository_GetCartByUserID(t *testing.T) {
	repo, mock := setupCartRepoTest(t)
	ctx := t.Context()

	userID := uuid.New()
	cartID := uuid.New()
	now := time.Now()

	items := []models.CartItem{
		{ID: uuid.New(), ProductID: uuid.New(), Quantity: 3, Size: "L", Color: "Black", Price: 120},
	}
	itemsJSON, err := json.Marshal(items)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(`SELECT id, user_id, items, total_items, total_price, version, created_at, updated_at`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "user_id", "items", "total_items", "total_price", "version", "created_at", "updated_at",
			}).AddRow(cartID, userID, itemsJSON, 3, 360.0, int64(7), now, now))

		// Act
		cart, err := repo.GetCartByUserID(ctx, userID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, cartID, cart.ID)
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, int64(7), cart.Version)
		assert.Equal(t, 360.0, cart.TotalPrice)
	})

	t.Run("Failure - No Cart Row", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(`SELECT id, user_id, items`).
			WithArgs(userID).
			WillReturnError(sql.ErrNoRows)

		// Act
		cart, err := repo.GetCartByUserID(ctx, userID)

		// Assert
		assert.Nil(t, cart)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("Failure - Corrupt Items Payload", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(`SELECT id, user_id, items`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "user_id", "items", "total_items", "total_price", "version", "created_at", "updated_at",
			}).AddRow(cartID, userID, []byte(`{not json`), 0, 0.0, int64(1), now, now))

		// Act
		cart, err := repo.GetCartByUserID(ctx, userID)

		// Assert
		assert.Nil(t, cart)
		assert.Error(t, err)
	})
}

func TestCartRepository_UpdateCartIfVersion(t *testing.T) {
	repo, mock := setupCartRepoTest(t)
	ctx := t.Context()

	now := time.Now()

	cart := &models.Cart{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Items: []models.CartItem{
			{ID: uuid.New(), ProductID: uuid.New(), Quantity: 1, Size: "M", Color: "Black", Price: 80},
		},
		TotalItems: 1,
		TotalPrice: 80,
		Version:    3,
	}

	itemsJSON, err := json.Marshal(cart.Items)
	require.NoError(t, err)

	t.Run("Success - Version Matches", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(`UPDATE carts`).
			WithArgs(itemsJSON, cart.TotalItems, cart.TotalPrice, cart.ID, int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"version", "updated_at"}).AddRow(int64(4), now))

		// Act
		ok, err := repo.UpdateCartIfVersion(ctx, cart, 3)

		// Assert
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(4), cart.Version)
	})

	t.Run("Conflict - Stale Version Is Not An Error", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(`UPDATE carts`).
			WithArgs(itemsJSON, cart.TotalItems, cart.TotalPrice, cart.ID, int64(3)).
			WillReturnError(sql.ErrNoRows)

		// Act
		ok, err := repo.UpdateCartIfVersion(ctx, cart, 3)

		// Assert
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(`UPDATE carts`).
			WithArgs(itemsJSON, cart.TotalItems, cart.TotalPrice, cart.ID, int64(3)).
			WillReturnError(errors.New("connection lost"))

		// Act
		ok, err := repo.UpdateCartIfVersion(ctx, cart, 3)

		// Assert
		assert.Error(t, err)
		assert.False(t, ok)
	})
}
