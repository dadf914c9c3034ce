package routes

import (
	"net/http"
	"time"

	"servimarket/handlers"
	"servimarket/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers registration and session endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.RegisterHandler)
		api.POST("/login", hb.LoginHandler)

		api.Use(middleware.AuthMiddleware(hb.UserRepo))
		api.POST("/logout", hb.LogoutHandler)
	}
}

// RegisterUserRoutes registers profile endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.Use(middleware.AuthMiddleware(hb.UserRepo))
		api.GET("/me", hb.GetProfileHandler)
		api.PUT("/me/password", hb.UpdatePasswordHandler)
		api.GET("/:id", hb.GetUserHandler)
		api.GET("/:id/ratings", hb.ListUserRatingsHandler)
		api.PUT("/:id", hb.UpdateUserHandler)
		api.DELETE("/:id", hb.DeleteUserHandler)
	}
}

// RegisterCatalogRoutes registers category, service, image and favorite
// endpoints. Browsing is public; mutations require authentication.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	categories := r.Group("/api/categories")
	{
		categories.GET("", hb.ListCategoriesHandler)
		categories.GET("/:id", hb.GetCategoryHandler)

		categories.Use(middleware.AuthMiddleware(hb.UserRepo), middleware.RequireAdmin())
		categories.POST("", hb.CreateCategoryHandler)
		categories.PUT("/:id", hb.UpdateCategoryHandler)
		categories.DELETE("/:id", hb.DeleteCategoryHandler)
	}

	services := r.Group("/api/services")
	{
		services.GET("", hb.ListServicesHandler)
		services.GET("/:id", hb.GetServiceHandler)
		services.GET("/:id/ratings", hb.ListServiceRatingsHandler)
		services.GET("/:id/images", hb.ListServiceImagesHandler)

		services.Use(middleware.AuthMiddleware(hb.UserRepo))
		services.POST("", hb.CreateServiceHandler)
		services.PUT("/:id", hb.UpdateServiceHandler)
		services.DELETE("/:id", hb.DeleteServiceHandler)
		services.POST("/:id/images", hb.UploadServiceImageHandler)
		services.DELETE("/:id/images/:imageId", hb.DeleteServiceImageHandler)
	}

	favorites := r.Group("/api/favorites")
	{
		favorites.Use(middleware.AuthMiddleware(hb.UserRepo))
		favorites.POST("", hb.AddFavoriteHandler)
		favorites.GET("", hb.ListFavoritesHandler)
		favorites.DELETE("/:serviceId", hb.RemoveFavoriteHandler)
	}
}

// RegisterContractRoutes registers contract lifecycle endpoints.
func RegisterContractRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/contracts")
	{
		api.Use(middleware.AuthMiddleware(hb.UserRepo))
		api.POST("", hb.CreateContractHandler)
		api.GET("", hb.ListContractsHandler)
		api.GET("/:id", hb.GetContractHandler)
		api.PUT("/:id/status", hb.UpdateContractStatusHandler)
		api.PUT("/:id/negotiate-price", hb.NegotiatePriceHandler)
		api.GET("/:id/messages", hb.GetContractThreadHandler)
		api.DELETE("/:id", hb.DeleteContractHandler)
	}
}

// RegisterRatingRoutes registers rating endpoints.
func RegisterRatingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/ratings")
	{
		api.GET("/:id", hb.GetRatingHandler)

		api.Use(middleware.AuthMiddleware(hb.UserRepo))
		api.POST("", hb.CreateRatingHandler)
		api.PUT("/:id", hb.UpdateRatingHandler)
		api.DELETE("/:id", hb.DeleteRatingHandler)
	}
}

// RegisterMessageRoutes registers direct-message endpoints.
func RegisterMessageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/messages")
	{
		api.Use(middleware.AuthMiddleware(hb.UserRepo))
		api.POST("", hb.SendMessageHandler)
		api.GET("", hb.ListMessagesHandler)
		api.GET("/unread-count", hb.CountUnreadMessagesHandler)
		api.GET("/conversation/:userId", hb.GetConversationHandler)
		api.PUT("/:id/read", hb.MarkMessageReadHandler)
		api.DELETE("/:id", hb.DeleteMessageHandler)
	}
}

// RegisterNotificationRoutes registers notification inbox endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.AuthMiddleware(hb.UserRepo))
		api.GET("", hb.ListNotificationsHandler)
		api.GET("/unread-count", hb.CountUnreadNotificationsHandler)
		api.PUT("/read-all", hb.MarkAllNotificationsReadHandler)
		api.PUT("/:id/read", hb.MarkNotificationReadHandler)
		api.DELETE("/:id", hb.DeleteNotificationHandler)
	}
}

// RegisterAdminRoutes registers admin-only endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.AuthMiddleware(hb.UserRepo), middleware.RequireAdmin())
		api.GET("/users", hb.ListUsersHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterContractRoutes(r, hb)
	RegisterRatingRoutes(r, hb)
	RegisterMessageRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
