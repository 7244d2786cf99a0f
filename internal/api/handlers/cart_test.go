package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fearlessclothing/storefront-api/internal/api/handlers"
	appErrors "github.com/fearlessclothing/storefront-api/internal/errors"
	"github.com/fearlessclothing/storefront-api/internal/models"
	"github.com/fearlessclothing/storefront-api/internal/services/mocks"
	"github.com/fearlessclothing/storefront-api/internal/testutils"
	"github.com/fearlessclothing/storefront-api/internal/utils/response"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCartHandler_GetCart(t *testing.T) {
	userID := uuid.New()

	t.Run("Success - Empty Cart Shell For New User", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewMockCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		emptyCart := &models.Cart{UserID: userID, Items: []models.CartItem{}}

		mockCartService.On("GetCart", mock.Anything, userID).Return(emptyCart, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/cart", nil, userID, models.RoleCustomer, nil)
		w := httptest.NewRecorder()

		// Act
		cartHandler.GetCart()(w, req)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)

		var respBody response.APIResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
		assert.True(t, respBody.Success)
	})

	t.Run("Failure - Missing Claims", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewMockCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/cart", nil, nil)
		w := httptest.NewRecorder()

		// Act
		cartHandler.GetCart()(w, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockCartService.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
	})
}

func TestCartHandler_AddItem(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("Success - Item Added", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewMockCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		addReq := &models.AddCartItemRequest{
			ProductID: productID,
			Quantity:  2,
			Size:      "M",
			Color:     "Black",
		}

		reqBody, err := json.Marshal(addReq)
		assert.NoError(t, err)

		cart := &models.Cart{
			UserID: userID,
			Items: []models.CartItem{
				{ID: uuid.New(), ProductID: productID, Quantity: 2, Size: "M", Color: "Black", Price: 80},
			},
			TotalItems: 2,
			TotalPrice: 160,
		}

		mockCartService.On("AddItem", mock.Anything, userID, mock.MatchedBy(func(r *models.AddCartItemRequest) bool {
			return r.ProductID == productID && r.Quantity == 2 && r.Size == "M"
		})).Return(cart, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/add", bytes.NewBuffer(reqBody), userID, models.RoleCustomer, nil)
		w := httptest.NewRecorder()

		// Act
		cartHandler.AddItem()(w, req)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)

		var respBody response.APIResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
		assert.True(t, respBody.Success)
		assert.Equal(t, "Item added to cart", respBody.Message)
	})

	t.Run("Failure - Insufficient Stock Maps To 400", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewMockCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		addReq := &models.AddCartItemRequest{
			ProductID: productID,
			Quantity:  50,
			Size:      "M",
			Color:     "Black",
		}

		reqBody, err := json.Marshal(addReq)
		assert.NoError(t, err)

		mockCartService.On("AddItem", mock.Anything, userID, mock.AnythingOfType("*models.AddCartItemRequest")).
			Return(nil, appErrors.AvailabilityError("Insufficient stock")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/add", bytes.NewBuffer(reqBody), userID, models.RoleCustomer, nil)
		w := httptest.NewRecorder()

		// Act
		cartHandler.AddItem()(w, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var respBody response.APIResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
		assert.False(t, respBody.Success)
		assert.Equal(t, appErrors.ErrCodeAvailability, respBody.Error.Code)
	})

	t.Run("Failure - Missing Required Fields", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewMockCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		reqBody, err := json.Marshal(map[string]any{"quantity": 1})
		assert.NoError(t, err)

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/add", bytes.NewBuffer(reqBody), userID, models.RoleCustomer, nil)
		w := httptest.NewRecorder()

		// Act
		cartHandler.AddItem()(w, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockCartService.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCartHandler_UpdateItem(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()

	t.Run("Failure - Unknown Item Maps To 404", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewMockCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		updateReq := &models.UpdateCartItemRequest{ItemID: itemID, Quantity: 3}

		reqBody, err := json.Marshal(updateReq)
		assert.NoError(t, err)

		mockCartService.On("UpdateItem", mock.Anything, userID, mock.AnythingOfType("*models.UpdateCartItemRequest")).
			Return(nil, appErrors.NotFoundError("Item not found in cart")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/api/v1/cart/update", bytes.NewBuffer(reqBody), userID, models.RoleCustomer, nil)
		w := httptest.NewRecorder()

		// Act
		cartHandler.UpdateItem()(w, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Success - Quantity Updated", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewMockCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		updateReq := &models.UpdateCartItemRequest{ItemID: itemID, Quantity: 5}

		reqBody, err := json.Marshal(updateReq)
		assert.NoError(t, err)

		cart := &models.Cart{
			UserID: userID,
			Items: []models.CartItem{
				{ID: itemID, ProductID: uuid.New(), Quantity: 5, Size: "M", Color: "Black", Price: 80},
			},
			TotalItems: 5,
			TotalPrice: 400,
		}

		mockCartService.On("UpdateItem", mock.Anything, userID, mock.MatchedBy(func(r *models.UpdateCartItemRequest) bool {
			return r.ItemID == itemID && r.Quantity == 5
		})).Return(cart, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPut, "/api/v1/cart/update", bytes.NewBuffer(reqBody), userID, models.RoleCustomer, nil)
		w := httptest.NewRecorder()

		// Act
		cartHandler.UpdateItem()(w, req)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCartHandler_RemoveItem(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()

	t.Run("Success - Item Removed", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewMockCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		cart := &models.Cart{UserID: userID, Items: []models.CartItem{}}

		mockCartService.On("RemoveItem", mock.Anything, userID, itemID).Return(cart, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/cart/remove/"+itemID.String(), nil, userID, models.RoleCustomer,
			map[string]string{"itemId": itemID.String()})
		w := httptest.NewRecorder()

		// Act
		cartHandler.RemoveItem()(w, req)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Failure - Malformed Item ID", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewMockCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/cart/remove/not-a-uuid", nil, userID, models.RoleCustomer,
			map[string]string{"itemId": "not-a-uuid"})
		w := httptest.NewRecorder()

		// Act
		cartHandler.RemoveItem()(w, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockCartService.AssertNotCalled(t, "RemoveItem", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCartHandler_ClearCart(t *testing.T) {
	userID := uuid.New()

	t.Run("Success - Cart Cleared", func(t *testing.T) {
		// Arrange
		mockCartService := mocks.NewMockCartService(t)
		cartHandler := handlers.NewCartHandler(mockCartService)

		cart := &models.Cart{UserID: userID, Items: []models.CartItem{}}

		mockCartService.On("ClearCart", mock.Anything, userID).Return(cart, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/cart/clear", nil, userID, models.RoleCustomer, nil)
		w := httptest.NewRecorder()

		// Act
		cartHandler.ClearCart()(w, req)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)

		var respBody response.APIResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
		assert.Equal(t, "Cart cleared", respBody.Message)
	})
}
