package handlers

import (
	userRepo "servimarket/database/repository/user"
	"servimarket/services/catalog"
	"servimarket/services/contract"
	"servimarket/services/messaging"
	"servimarket/services/notification"
	"servimarket/services/rating"
	"servimarket/services/user"
)

// HandlerBundle groups all endpoint handlers behind the services they call.
type HandlerBundle struct {
	// UserRepo backs the auth middleware's token-hash fallback lookup.
	UserRepo userRepo.UserRepository

	UserService         user.UserService
	CatalogService      catalog.CatalogService
	ContractService     contract.ContractService
	RatingService       rating.RatingService
	MessagingService    messaging.MessagingService
	NotificationService notification.NotificationService
}
