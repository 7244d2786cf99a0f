package handlers

import (
	"net/http"

	"github.com/fearlessclothing/storefront-api/internal/utils/response"
)

// APIInfo lists the API surface at the version root.
func APIInfo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, map[string]any{
			"name":    "Fearless Clothing Storefront API",
			"version": "v1",
			"endpoints": map[string]string{
				"users":    "/api/v1/users",
				"products": "/api/v1/products",
				"search":   "/api/v1/products/search",
				"cart":     "/api/v1/cart",
				"health":   "/health",
				"metrics":  "/metrics",
			},
		})
	}
}
