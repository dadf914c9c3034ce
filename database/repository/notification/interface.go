package notificationRepo

import "servimarket/models"

// NotificationRepository defines methods for notification data access.
type NotificationRepository interface {
	Create(notification *models.Notification) error
	// GetByID retrieves a notification by ID, or nil when absent.
	GetByID(id string) (*models.Notification, error)
	// ListForUser retrieves a user's notifications, newest first.
	ListForUser(userID string) ([]models.Notification, error)
	// ListAll retrieves every notification, newest first (admin use).
	ListAll() ([]models.Notification, error)
	// MarkRead flips the is_read flag on one notification.
	MarkRead(id string) error
	// MarkAllRead flips the is_read flag on all of a user's notifications.
	MarkAllRead(userID string) error
	// CountUnread counts a user's unread notifications.
	CountUnread(userID string) (int64, error)
	Delete(id string) error
}
