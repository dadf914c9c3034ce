package notification

import (
	"context"

	notificationRepo "servimarket/database/repository/notification"
	"servimarket/models"
)

// Event is an outbound notification recorded for a user.
type Event struct {
	UserID    string
	Title     string
	Message   string
	Type      string
	RelatedID string
}

// Emitter records events for users. Emission is best-effort: implementations
// must swallow their own failures so a failed notification never rolls back
// the operation that triggered it.
type Emitter interface {
	Emit(ctx context.Context, event Event)
}

// NotificationService is the inbox surface on top of the emitter.
type NotificationService interface {
	Emitter
	ListNotifications(actor *models.User, roles models.RoleSet, allUsers bool) ([]models.Notification, error)
	MarkRead(actor *models.User, roles models.RoleSet, id string) (*models.Notification, error)
	MarkAllRead(actor *models.User) error
	CountUnread(actor *models.User) (int64, error)
	DeleteNotification(actor *models.User, roles models.RoleSet, id string) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Repo notificationRepo.NotificationRepository
}
