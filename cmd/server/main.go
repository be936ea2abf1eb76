package main

import (
	"food-order-api/internal/config"
	"food-order-api/internal/database"
	"food-order-api/internal/handlers"
	"food-order-api/internal/logger"
	"food-order-api/internal/middleware"
	"food-order-api/internal/models"
	"food-order-api/internal/redis"
	"food-order-api/internal/repository"
	"food-order-api/internal/services"
	"food-order-api/pkg/iyzico"
	"food-order-api/pkg/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(cfg.Environment)
	defer log.Sync()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Initialize payment gateway client
	gateway := iyzico.NewClient(cfg.IyzicoBaseURL, cfg.IyzicoAPIKey, cfg.IyzicoSecretKey)

	// Initialize object storage; image uploads are disabled without it
	var uploader handlers.ImageUploader
	s3Storage, err := storage.NewS3Storage(storage.Config{
		Endpoint:  cfg.StorageEndpoint,
		Region:    cfg.StorageRegion,
		Bucket:    cfg.StorageBucket,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		PublicURL: cfg.StoragePublicURL,
	})
	if err != nil {
		log.Warn("object storage not configured, image uploads disabled", zap.Error(err))
	} else {
		uploader = s3Storage
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	menuItemRepo := repository.NewMenuItemRepository(db)
	cartRepo := repository.NewCartItemRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, redisClient, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := services.NewUserService(userRepo)
	restaurantService := services.NewRestaurantService(restaurantRepo, menuItemRepo, redisClient, cfg.MenuCacheTTL, log)
	cartService := services.NewCartService(cartRepo, menuItemRepo)
	orderService := services.NewOrderService(orderRepo, cartService, gateway, redisClient, cfg.OrderCacheTTL, cfg.CallbackURL, log)

	// Initialize handlers
	secureCookies := cfg.Environment == "production"
	authHandler := handlers.NewAuthHandler(authService, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, secureCookies)
	userHandler := handlers.NewUserHandler(userService, orderService)
	restaurantHandler := handlers.NewRestaurantHandler(restaurantService, uploader)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService, cfg.PaymentSuccessURL, cfg.PaymentFailureURL)

	// Setup routes
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(logger.GinMiddleware(log), gin.Recovery())

	authRequired := middleware.AuthRequired([]byte(cfg.JWTSecret))
	manageRoles := middleware.RoleRequired(models.RoleRestaurantOwner, models.RoleAdmin)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
		}

		users := api.Group("/users", authRequired)
		{
			users.GET("/me", userHandler.Me)
			users.PATCH("/me", userHandler.UpdateProfile)
			users.GET("/me/orders", userHandler.ListOrders)
		}

		restaurants := api.Group("/restaurants")
		{
			restaurants.GET("", restaurantHandler.List)
			restaurants.GET("/search", restaurantHandler.Search)
			restaurants.GET("/:id", restaurantHandler.Get)
			restaurants.GET("/:id/menu", restaurantHandler.GetMenu)

			restaurants.POST("", authRequired, manageRoles, restaurantHandler.Create)
			restaurants.PATCH("/:id", authRequired, manageRoles, restaurantHandler.Update)
			restaurants.DELETE("/:id", authRequired, manageRoles, restaurantHandler.Delete)
			restaurants.POST("/:id/image", authRequired, manageRoles, restaurantHandler.UploadImage)
			restaurants.POST("/:id/categories", authRequired, manageRoles, restaurantHandler.CreateCategory)
			restaurants.POST("/:id/menu-items", authRequired, manageRoles, restaurantHandler.AddMenuItem)
		}

		menuItems := api.Group("/menu-items")
		{
			menuItems.GET("/:itemId", restaurantHandler.GetMenuItem)
			menuItems.POST("/:itemId/image", authRequired, manageRoles, restaurantHandler.UploadMenuItemImage)
		}

		cart := api.Group("/cart", authRequired)
		{
			cart.GET("", cartHandler.GetCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PATCH("/items/:itemId", cartHandler.UpdateItem)
			cart.DELETE("/items/:itemId", cartHandler.RemoveItem)
			cart.DELETE("", cartHandler.ClearCart)
		}

		orders := api.Group("/orders")
		{
			// Gateway posts the form-encoded token here, no auth cookie present.
			orders.POST("/callback", orderHandler.PaymentCallback)

			orders.POST("", authRequired, orderHandler.Create)
			orders.GET("/:orderId", authRequired, orderHandler.Get)
			orders.POST("/:orderId/cancel", authRequired, orderHandler.Cancel)
			orders.PATCH("/:orderId/status", authRequired, orderHandler.UpdateStatus)
		}
	}

	// Start server
	log.Info("server starting", zap.String("port", cfg.ServerPort))
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
