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

func TestProductHandler_CreateProduct(t *testing.T) {
	adminID := uuid.New()

	t.Run("Success - Product Created", func(t *testing.T) {
		// Arrange
		mockProductService := mocks.NewMockProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		createReq := &models.CreateProductRequest{
			SKU:         "FC-TEE-001",
			Name:        "Fearless Logo Tee",
			Description: "Classic fit logo tee",
			Price:       100,
			Category:    "shirts",
			Brand:       "Fearless",
			Gender:      "unisex",
			Sizes:       []models.SizeStock{{Size: "M", Stock: 10}},
			Colors:      []models.Color{{Color: "Black"}},
		}

		reqBody, err := json.Marshal(createReq)
		assert.NoError(t, err)

		created := &models.Product{ID: uuid.New(), SKU: createReq.SKU, Name: createReq.Name, TotalStock: 10, IsActive: true}

		mockProductService.On("CreateProduct", mock.Anything, mock.MatchedBy(func(r *models.CreateProductRequest) bool {
			return r.SKU == createReq.SKU
		})).Return(created, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/products", bytes.NewBuffer(reqBody), adminID, models.RoleAdmin, nil)
		w := httptest.NewRecorder()

		// Act
		productHandler.CreateProduct()(w, req)

		// Assert
		assert.Equal(t, http.StatusCreated, w.Code)

		var respBody response.APIResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
		assert.True(t, respBody.Success)
	})

	t.Run("Failure - Invalid Category Rejected By Validation", func(t *testing.T) {
		// Arrange
		mockProductService := mocks.NewMockProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		createReq := &models.CreateProductRequest{
			SKU:         "FC-TEE-002",
			Name:        "Fearless Logo Tee",
			Description: "Classic fit logo tee",
			Price:       100,
			Category:    "gadgets",
			Brand:       "Fearless",
			Gender:      "unisex",
			Sizes:       []models.SizeStock{{Size: "M", Stock: 10}},
			Colors:      []models.Color{{Color: "Black"}},
		}

		reqBody, err := json.Marshal(createReq)
		assert.NoError(t, err)

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/products", bytes.NewBuffer(reqBody), adminID, models.RoleAdmin, nil)
		w := httptest.NewRecorder()

		// Act
		productHandler.CreateProduct()(w, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockProductService.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})
}

func TestProductHandler_GetProduct(t *testing.T) {
	t.Run("Success - Product Returned", func(t *testing.T) {
		// Arrange
		mockProductService := mocks.NewMockProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		product := &models.Product{ID: uuid.New(), Name: "Fearless Logo Tee"}

		mockProductService.On("GetProductByID", mock.Anything, product.ID).Return(product, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/products/"+product.ID.String(), nil,
			map[string]string{"id": product.ID.String()})
		w := httptest.NewRecorder()

		// Act
		productHandler.GetProduct()(w, req)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Failure - Unknown Product", func(t *testing.T) {
		// Arrange
		mockProductService := mocks.NewMockProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		id := uuid.New()

		mockProductService.On("GetProductByID", mock.Anything, id).
			Return(nil, appErrors.NotFoundError("Product not found")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/products/"+id.String(), nil,
			map[string]string{"id": id.String()})
		w := httptest.NewRecorder()

		// Act
		productHandler.GetProduct()(w, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Failure - Malformed ID", func(t *testing.T) {
		// Arrange
		mockProductService := mocks.NewMockProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/products/abc", nil,
			map[string]string{"id": "abc"})
		w := httptest.NewRecorder()

		// Act
		productHandler.GetProduct()(w, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProductHandler_ListProducts(t *testing.T) {
	t.Run("Success - Filters Parsed From Query", func(t *testing.T) {
		// Arrange
		mockProductService := mocks.NewMockProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		products := []*models.Product{{ID: uuid.New(), Name: "Fearless Logo Tee"}}

		mockProductService.On("ListProducts", mock.Anything, mock.MatchedBy(func(f *models.ProductFilter) bool {
			return f.Category == "shirts" &&
				f.Gender == "men" &&
				f.MinPrice != nil && *f.MinPrice == 50 &&
				f.MaxPrice != nil && *f.MaxPrice == 150 &&
				f.Sort == "price_asc" &&
				f.Page == 2 && f.PageSize == 10
		})).Return(products, 14, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet,
			"/api/v1/products?category=shirts&gender=men&minPrice=50&maxPrice=150&sort=price_asc&page=2&pageSize=10", nil, nil)
		w := httptest.NewRecorder()

		// Act
		productHandler.ListProducts()(w, req)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)

		var respBody response.APIResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
		assert.True(t, respBody.Success)
	})

	t.Run("Success - Search Query Forwarded", func(t *testing.T) {
		// Arrange
		mockProductService := mocks.NewMockProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		mockProductService.On("ListProducts", mock.Anything, mock.MatchedBy(func(f *models.ProductFilter) bool {
			return f.Query == "hoodie"
		})).Return([]*models.Product{}, 0, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/products?search=hoodie", nil, nil)
		w := httptest.NewRecorder()

		// Act
		productHandler.ListProducts()(w, req)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestProductHandler_AddReview(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("Success - Review Added", func(t *testing.T) {
		// Arrange
		mockProductService := mocks.NewMockProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		reviewReq := &models.AddReviewRequest{Rating: 4, Comment: "Great fit"}

		reqBody, err := json.Marshal(reviewReq)
		assert.NoError(t, err)

		product := &models.Product{ID: productID, Rating: models.Rating{Average: 4, Count: 1}}

		mockProductService.On("AddReview", mock.Anything, productID, userID, "test@example.com", mock.MatchedBy(func(r *models.AddReviewRequest) bool {
			return r.Rating == 4
		})).Return(product, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/products/"+productID.String()+"/reviews",
			bytes.NewBuffer(reqBody), userID, models.RoleCustomer, map[string]string{"id": productID.String()})
		w := httptest.NewRecorder()

		// Act
		productHandler.AddReview()(w, req)

		// Assert
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Failure - Duplicate Review Maps To 409", func(t *testing.T) {
		// Arrange
		mockProductService := mocks.NewMockProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		reviewReq := &models.AddReviewRequest{Rating: 5}

		reqBody, err := json.Marshal(reviewReq)
		assert.NoError(t, err)

		mockProductService.On("AddReview", mock.Anything, productID, userID, "test@example.com", mock.AnythingOfType("*models.AddReviewRequest")).
			Return(nil, appErrors.DuplicateEntryError("Product already reviewed")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/products/"+productID.String()+"/reviews",
			bytes.NewBuffer(reqBody), userID, models.RoleCustomer, map[string]string{"id": productID.String()})
		w := httptest.NewRecorder()

		// Act
		productHandler.AddReview()(w, req)

		// Assert
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Failure - Rating Out Of Range", func(t *testing.T) {
		// Arrange
		mockProductService := mocks.NewMockProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		reqBody, err := json.Marshal(map[string]any{"rating": 9})
		assert.NoError(t, err)

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/products/"+productID.String()+"/reviews",
			bytes.NewBuffer(reqBody), userID, models.RoleCustomer, map[string]string{"id": productID.String()})
		w := httptest.NewRecorder()

		// Act
		productHandler.AddReview()(w, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockProductService.AssertNotCalled(t, "AddReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProductHandler_AdjustStock(t *testing.T) {
	adminID := uuid.New()
	productID := uuid.New()

	t.Run("Success - Stock Adjusted", func(t *testing.T) {
		// Arrange
		mockProductService := mocks.NewMockProductService(t)
		productHandler := handlers.NewProductHandler(mockProductService)

		stockReq := &models.AdjustStockRequest{Size: "M", Delta: -2}

		reqBody, err := json.Marshal(stockReq)
		assert.NoError(t, err)

		product := &models.Product{ID: productID, TotalStock: 8}

		mockProductService.On("AdjustStock", mock.Anything, productID, mock.MatchedBy(func(r *models.AdjustStockRequest) bool {
			return r.Size == "M" && r.Delta == -2
		})).Return(product, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPatch, "/api/v1/products/"+productID.String()+"/stock",
			bytes.NewBuffer(reqBody), adminID, models.RoleAdmin, map[string]string{"id": productID.String()})
		w := httptest.NewRecorder()

		// Act
		productHandler.AdjustStock()(w, req)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
