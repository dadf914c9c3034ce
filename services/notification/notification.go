package notification

import (
	"context"

	"servimarket/models"
	"servimarket/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Emit records the event as a notification document. Failures are logged and
// swallowed; the caller's write has already been committed and must stand.
func (s *DefaultNotificationService) Emit(ctx context.Context, event Event) {
	logger := utils.GetLogger()

	if event.UserID == "" {
		logger.Warn("Dropping notification with no recipient", zap.String("type", event.Type))
		return
	}
	if event.Type == "" {
		event.Type = models.NotificationSystemAlert
	}

	n := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    event.UserID,
		Title:     event.Title,
		Message:   event.Message,
		Type:      event.Type,
		RelatedID: event.RelatedID,
		IsRead:    false,
	}

	if err := s.Repo.Create(n); err != nil {
		logger.Error("Failed to record notification",
			zap.String("userID", event.UserID),
			zap.String("type", event.Type),
			zap.Error(err))
		return
	}
	logger.Debug("Notification recorded",
		zap.String("userID", event.UserID),
		zap.String("type", event.Type))
}

// ListNotifications returns the actor's notifications; admins may request all
// users' notifications.
func (s *DefaultNotificationService) ListNotifications(actor *models.User, roles models.RoleSet, allUsers bool) ([]models.Notification, error) {
	if allUsers {
		if !roles.Admin {
			return nil, utils.NewForbiddenError("only admins may list all notifications")
		}
		return s.Repo.ListAll()
	}
	return s.Repo.ListForUser(actor.ID)
}

// MarkRead marks one notification as read for its owner or an admin.
func (s *DefaultNotificationService) MarkRead(actor *models.User, roles models.RoleSet, id string) (*models.Notification, error) {
	n, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, utils.NewNotFoundError("notification %s not found", id)
	}
	if n.UserID != actor.ID && !roles.Admin {
		return nil, utils.NewForbiddenError("you may not modify this notification")
	}
	if err := s.Repo.MarkRead(id); err != nil {
		return nil, err
	}
	n.IsRead = true
	return n, nil
}

// MarkAllRead marks all of the actor's notifications as read.
func (s *DefaultNotificationService) MarkAllRead(actor *models.User) error {
	return s.Repo.MarkAllRead(actor.ID)
}

// CountUnread counts the actor's unread notifications.
func (s *DefaultNotificationService) CountUnread(actor *models.User) (int64, error) {
	return s.Repo.CountUnread(actor.ID)
}

// DeleteNotification removes a notification for its owner or an admin.
func (s *DefaultNotificationService) DeleteNotification(actor *models.User, roles models.RoleSet, id string) error {
	n, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if n == nil {
		return utils.NewNotFoundError("notification %s not found", id)
	}
	if n.UserID != actor.ID && !roles.Admin {
		return utils.NewForbiddenError("you may not delete this notification")
	}
	return s.Repo.Delete(id)
}
