// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopkit/catalog-backend/internal/config"
	"github.com/shopkit/catalog-backend/internal/handlers"
	"github.com/shopkit/catalog-backend/internal/middleware"
	"github.com/shopkit/catalog-backend/internal/services"
	"github.com/shopkit/catalog-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	authService := services.NewAuthService(db, cfg)
	userService := services.NewUserService(db)
	bookService := services.NewBookService(db)
	categoryService := services.NewCategoryService(db)
	tagService := services.NewTagService(db)
	productService := services.NewProductService(db, tagService)
	mediaService := services.NewMediaService(db, storageService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	bookHandler := handlers.NewBookHandler(bookService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	tagHandler := handlers.NewTagHandler(tagService)
	productHandler := handlers.NewProductHandler(productService)
	mediaHandler := handlers.NewMediaHandler(mediaService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Book routes
		books := v1.Group("/books")
		{
			books.GET("", bookHandler.GetBooks)
			books.GET("/:id", bookHandler.GetBook)
			books.POST("", bookHandler.CreateBook)
			books.PUT("/:id", bookHandler.UpdateBook)
			books.DELETE("/:id", bookHandler.DeleteBook)
		}

		// Category routes
		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.GetCategories)
			categories.GET("/:id", categoryHandler.GetCategory)

			protected := categories.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", categoryHandler.CreateCategory)
				protected.DELETE("/:id", categoryHandler.DeleteCategory)
			}
		}

		// Tag routes
		tags := v1.Group("/tags")
		{
			tags.GET("", tagHandler.GetTags)
			tags.GET("/:id", tagHandler.GetTag)

			protected := tags.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", tagHandler.CreateTag)
				protected.DELETE("/:id", tagHandler.DeleteTag)
			}
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.GetProducts)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.GetProduct)
			products.GET("/:id/media", mediaHandler.GetProductMedia)

			protected := products.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", productHandler.CreateProduct)
				protected.PUT("/:id", productHandler.UpdateProduct)
				protected.DELETE("/:id", productHandler.DeleteProduct)
				protected.PUT("/:id/stock", productHandler.UpdateStock)
				protected.PUT("/:id/toggle-active", productHandler.ToggleActive)
				protected.PUT("/:id/toggle-featured", productHandler.ToggleFeatured)
				protected.PUT("/:id/sale", productHandler.SetSale)
			}
		}

		// Media routes
		media := v1.Group("/media")
		{
			media.GET("", mediaHandler.GetMediaList)
			media.GET("/:id", mediaHandler.GetMedia)
			media.GET("/:id/download", mediaHandler.DownloadURL)

			protected := media.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/images", middleware.UploadRateLimit(), mediaHandler.UploadImage)
				protected.POST("/videos", middleware.UploadRateLimit(), mediaHandler.UploadVideo)
				protected.POST("/:id/primary", mediaHandler.SetPrimary)
				protected.DELETE("/:id", mediaHandler.DeleteMedia)
			}
		}

		// User routes
		users := v1.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.GET("", userHandler.GetUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}
	}

	// Static file serving for locally stored uploads
	if cfg.Storage.Driver == "local" {
		r.Static("/uploads", cfg.Storage.LocalPath)
	}

	return r, nil
}
