package handlers

import (
	"net/http"
	"strconv"

	"github.com/fearlessclothing/storefront-api/internal/api/middleware"
	appErrors "github.com/fearlessclothing/storefront-api/internal/errors"
	"github.com/fearlessclothing/storefront-api/internal/models"
	service "github.com/fearlessclothing/storefront-api/internal/services"
	"github.com/fearlessclothing/storefront-api/internal/utils"
	"github.com/fearlessclothing/storefront-api/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: validator.New()}
}

func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), &req)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Product creation failed", "sku", req.SKU, "error", err.Error())
			response.Error(w, err)

			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Product created", "productId", product.ID.String())
		response.SuccessWithMessage(w, http.StatusCreated, "Product created successfully", product)
	}
}

func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, appErrors.BadRequestError("Invalid product ID"))
			return
		}

		product, err := h.productService.GetProductByID(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, appErrors.BadRequestError("Invalid product ID"))
			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Product updated", "productId", id.String())
		response.SuccessWithMessage(w, http.StatusOK, "Product updated successfully", product)
	}
}

func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, appErrors.BadRequestError("Invalid product ID"))
			return
		}

		if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Product deleted", "productId", id.String())
		response.SuccessWithMessage(w, http.StatusOK, "Product deleted successfully", nil)
	}
}

func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		filter := parseProductFilter(r)

		products, total, err := h.productService.ListProducts(r.Context(), filter)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.NewPaginatedResponse(products, total, filter.Page, filter.PageSize))
	}
}

func (h *ProductHandler) AddReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, appErrors.UnauthorizedError("Authentication required"))
			return
		}

		productID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, appErrors.BadRequestError("Invalid product ID"))
			return
		}

		var req models.AddReviewRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.AddReview(r.Context(), productID, claims.UserID, claims.Email, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Review added", "productId", productID.String(), "userId", claims.UserID.String())
		response.SuccessWithMessage(w, http.StatusCreated, "Review added successfully", product)
	}
}

func (h *ProductHandler) AdjustStock() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		productID, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, appErrors.BadRequestError("Invalid product ID"))
			return
		}

		var req models.AdjustStockRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.AdjustStock(r.Context(), productID, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Stock adjusted",
			"productId", productID.String(), "size", req.Size, "delta", req.Delta)
		response.SuccessWithMessage(w, http.StatusOK, "Stock updated successfully", product)
	}
}

func parseProductFilter(r *http.Request) *models.ProductFilter {

	q := r.URL.Query()

	search := q.Get("search")
	if search == "" {
		search = q.Get("q")
	}

	filter := &models.ProductFilter{
		Query:    search,
		Category: q.Get("category"),
		Gender:   q.Get("gender"),
		Brand:    q.Get("brand"),
		Size:     q.Get("size"),
		Color:    q.Get("color"),
		Sort:     q.Get("sort"),
	}

	if v := q.Get("minPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			filter.MinPrice = &f
		}
	}

	if v := q.Get("maxPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			filter.MaxPrice = &f
		}
	}

	if v := q.Get("featured"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.Featured = &b
		}
	}

	filter.Page, filter.PageSize = utils.ParsePagination(r, 20, 100)

	return filter
}
