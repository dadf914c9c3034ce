package messageRepo

import "servimarket/models"

// MessageRepository defines methods for message data access.
type MessageRepository interface {
	Create(message *models.Message) error
	// GetByID retrieves a message by ID, or nil when absent.
	GetByID(id string) (*models.Message, error)
	// ListForUser retrieves messages sent or received by the user.
	ListForUser(userID string, limit, offset int64) ([]models.Message, error)
	// ListConversation retrieves the two-party thread between two users.
	ListConversation(userA, userB string) ([]models.Message, error)
	// ListByContract retrieves the contract-scoped thread.
	ListByContract(contractID string) ([]models.Message, error)
	// MarkRead flips the is_read flag.
	MarkRead(id string) error
	// CountUnread counts unread messages received by the user.
	CountUnread(userID string) (int64, error)
	Delete(id string) error
}
