package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fearlessclothing/storefront-api/internal/api/handlers"
	"github.com/fearlessclothing/storefront-api/internal/api/middleware"
	"github.com/fearlessclothing/storefront-api/internal/cache"
	"github.com/fearlessclothing/storefront-api/internal/config"
	"github.com/fearlessclothing/storefront-api/internal/health"
	"github.com/fearlessclothing/storefront-api/internal/metrics"
	repository "github.com/fearlessclothing/storefront-api/internal/repositories"
	service "github.com/fearlessclothing/storefront-api/internal/services"
	"github.com/fearlessclothing/storefront-api/internal/telemetry"
	"github.com/fearlessclothing/storefront-api/pkg/sendgrid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.MustLoad()

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, &cfg.OTel)
	if err != nil {
		slog.Error("Failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("Failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("Error closing database connection", slog.String("error", err.Error()))
		}
	}()

	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("Failed to connect to redis", slog.String("error", err.Error()))
		os.Exit(1)
	}

	productCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	rateLimitRepo := repository.NewRateLimitRepo(redisClient, cfg)

	var emailSender service.EmailSender
	if cfg.SendGrid.APIKey != "" {
		emailSender = sendgrid.NewEmailClient(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	}

	jwtKey := []byte(cfg.Security.JWTKey)

	userService := service.NewUserService(repos.User, rateLimitRepo, emailSender, jwtKey, cfg.Security.JWTExpiryHours)
	productService := service.NewProductService(repos.Product, productCache)
	cartService := service.NewCartService(repos.Cart, repos.Product)

	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)

	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("Failed to initialize health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	routerMux := http.NewServeMux()

	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("GET /api/v1/users/profile", authMiddleware.Authenticate(userHandler.Profile()))
	routerMux.HandleFunc("PUT /api/v1/users/profile", authMiddleware.Authenticate(userHandler.UpdateProfile()))
	routerMux.HandleFunc("PUT /api/v1/users/password", authMiddleware.Authenticate(userHandler.ChangePassword()))
	routerMux.HandleFunc("GET /api/v1/users", authMiddleware.Authenticate(authMiddleware.RequireAdmin(userHandler.ListUsers())))
	routerMux.HandleFunc("GET /api/v1/users/{id}", authMiddleware.Authenticate(authMiddleware.RequireAdmin(userHandler.GetUser())))
	routerMux.HandleFunc("DELETE /api/v1/users/{id}", authMiddleware.Authenticate(authMiddleware.RequireAdmin(userHandler.DeleteUser())))
	routerMux.HandleFunc("PATCH /api/v1/users/{id}/role", authMiddleware.Authenticate(authMiddleware.RequireAdmin(userHandler.UpdateRole())))

	routerMux.HandleFunc("GET /api/v1", handlers.APIInfo())

	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/search", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.Authenticate(authMiddleware.RequireAdmin(productHandler.CreateProduct())))
	routerMux.HandleFunc("PUT /api/v1/products/{id}", authMiddleware.Authenticate(authMiddleware.RequireAdmin(productHandler.UpdateProduct())))
	routerMux.HandleFunc("DELETE /api/v1/products/{id}", authMiddleware.Authenticate(authMiddleware.RequireAdmin(productHandler.DeleteProduct())))
	routerMux.HandleFunc("PATCH /api/v1/products/{id}/stock", authMiddleware.Authenticate(authMiddleware.RequireAdmin(productHandler.AdjustStock())))
	routerMux.HandleFunc("POST /api/v1/products/{id}/reviews", authMiddleware.Authenticate(productHandler.AddReview()))

	routerMux.HandleFunc("GET /api/v1/cart", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/cart/add", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/cart/update", authMiddleware.Authenticate(cartHandler.UpdateItem()))
	routerMux.HandleFunc("DELETE /api/v1/cart/remove/{itemId}", authMiddleware.Authenticate(cartHandler.RemoveItem()))
	routerMux.HandleFunc("DELETE /api/v1/cart/clear", authMiddleware.Authenticate(cartHandler.ClearCart()))

	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	var handler http.Handler = routerMux
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(handler)
	handler = middleware.CORS([]string{"http://localhost:3000"})(handler)
	handler = otelhttp.NewHandler(handler, "storefront-api")

	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("Server is starting", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("Shutdown signal received. Preparing to stop the server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown encountered an issue", slog.String("error", err.Error()))
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("Trace exporter shutdown failed", slog.String("error", err.Error()))
	}

	if err := redisClient.Close(); err != nil {
		slog.Error("Error closing redis connection", slog.String("error", err.Error()))
	}

	slog.Info("Server shut down gracefully")
}
