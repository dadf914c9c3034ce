package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servimarket/config"
	"servimarket/database"
	categoryRepoPkg "servimarket/database/repository/category"
	contractRepoPkg "servimarket/database/repository/contract"
	favoriteRepoPkg "servimarket/database/repository/favorite"
	imageRepoPkg "servimarket/database/repository/image"
	messageRepoPkg "servimarket/database/repository/message"
	notificationRepoPkg "servimarket/database/repository/notification"
	ratingRepoPkg "servimarket/database/repository/rating"
	serviceRepoPkg "servimarket/database/repository/service"
	userRepoPkg "servimarket/database/repository/user"
	"servimarket/handlers"
	"servimarket/middleware"
	"servimarket/routes"
	"servimarket/services/catalog"
	"servimarket/services/contract"
	"servimarket/services/messaging"
	"servimarket/services/notification"
	"servimarket/services/rating"
	"servimarket/services/user"
	"servimarket/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	cld, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary: %v", err)
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	categoryRepo := categoryRepoPkg.NewMongoCategoryRepo()
	serviceRepo := serviceRepoPkg.NewMongoServiceRepo()
	contractRepo := contractRepoPkg.NewMongoContractRepo()
	ratingRepo := ratingRepoPkg.NewMongoRatingRepo()
	messageRepo := messageRepoPkg.NewMongoMessageRepo()
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo()
	favoriteRepo := favoriteRepoPkg.NewMongoFavoriteRepo()
	imageRepo := imageRepoPkg.NewMongoImageRepo()

	// Services.
	notificationService := &notification.DefaultNotificationService{
		Repo: notificationRepo,
	}
	userService := &user.DefaultUserService{
		Repo: userRepo,
	}
	catalogService := &catalog.DefaultCatalogService{
		Categories: categoryRepo,
		Services:   serviceRepo,
		Favorites:  favoriteRepo,
		Images:     imageRepo,
		Cld:        cld,
		Notifier:   notificationService,
	}
	contractService := &contract.DefaultContractService{
		Repo:        contractRepo,
		ServiceRepo: serviceRepo,
		UserRepo:    userRepo,
		Notifier:    notificationService,
	}
	ratingService := &rating.DefaultRatingService{
		Repo:         ratingRepo,
		ContractRepo: contractRepo,
		ServiceRepo:  serviceRepo,
		UserRepo:     userRepo,
		Notifier:     notificationService,
	}
	messagingService := &messaging.DefaultMessagingService{
		Repo:      messageRepo,
		Contracts: contractRepo,
		Users:     userRepo,
		Notifier:  notificationService,
	}

	handlerBundle := &handlers.HandlerBundle{
		UserRepo:            userRepo,
		UserService:         userService,
		CatalogService:      catalogService,
		ContractService:     contractService,
		RatingService:       ratingService,
		MessagingService:    messagingService,
		NotificationService: notificationService,
	}

	routes.RegisterRoutes(router, handlerBundle)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
