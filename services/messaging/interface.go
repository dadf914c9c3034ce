package messaging

import (
	contractRepo "servimarket/database/repository/contract"
	messageRepo "servimarket/database/repository/message"
	userRepo "servimarket/database/repository/user"
	"servimarket/models"
	"servimarket/services/notification"
)

// MessagingService handles direct messages between users, including
// contract-scoped threads.
type MessagingService interface {
	SendMessage(actor *models.User, req SendRequest) (*models.Message, error)
	GetMessages(actor *models.User, limit, offset int64) ([]models.Message, error)
	GetConversation(actor *models.User, otherUserID string) ([]models.Message, error)
	GetContractThread(actor *models.User, roles models.RoleSet, contractID string) ([]models.Message, error)
	MarkRead(actor *models.User, id string) (*models.Message, error)
	CountUnread(actor *models.User) (int64, error)
	DeleteMessage(actor *models.User, roles models.RoleSet, id string) error
}

// DefaultMessagingService is the production implementation.
type DefaultMessagingService struct {
	Repo      messageRepo.MessageRepository
	Contracts contractRepo.ContractRepository
	Users     userRepo.UserRepository
	Notifier  notification.Emitter
}

// SendRequest carries an outbound message.
type SendRequest struct {
	ReceiverID      string `json:"receiver_id" binding:"required"`
	ContractID      string `json:"contract_id"`
	Subject         string `json:"subject"`
	Content         string `json:"content" binding:"required"`
	ParentMessageID string `json:"parent_message_id"`
}
