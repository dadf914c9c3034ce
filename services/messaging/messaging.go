package messaging

import (
	"context"
	"strings"
	"time"

	"servimarket/models"
	"servimarket/services/notification"
	"servimarket/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxContentLength = 2000

func isContractParty(contract *models.Contract, userID string) bool {
	return contract.ClientID == userID || contract.ProviderID == userID
}

// SendMessage delivers a message from the actor to another user. When a
// contract is referenced, both ends must be parties to it.
func (s *DefaultMessagingService) SendMessage(actor *models.User, req SendRequest) (*models.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, utils.NewValidationError("message content is required")
	}
	if len(content) > maxContentLength {
		return nil, utils.NewValidationError("message content must be at most %d characters", maxContentLength)
	}
	if req.ReceiverID == actor.ID {
		return nil, utils.NewValidationError("you cannot message yourself")
	}

	receiver, err := s.Users.GetByID(req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, utils.NewNotFoundError("user %s not found", req.ReceiverID)
	}

	if req.ContractID != "" {
		contract, err := s.Contracts.GetByID(req.ContractID)
		if err != nil {
			return nil, err
		}
		if contract == nil {
			return nil, utils.NewNotFoundError("contract %s not found", req.ContractID)
		}
		if !isContractParty(contract, actor.ID) {
			return nil, utils.NewForbiddenError("you are not a party to this contract")
		}
		if !isContractParty(contract, receiver.ID) {
			return nil, utils.NewValidationError("receiver is not a party to contract %s", contract.ID)
		}
	}

	if req.ParentMessageID != "" {
		parent, err := s.Repo.GetByID(req.ParentMessageID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, utils.NewNotFoundError("message %s not found", req.ParentMessageID)
		}
		samePair := (parent.SenderID == actor.ID && parent.ReceiverID == receiver.ID) ||
			(parent.SenderID == receiver.ID && parent.ReceiverID == actor.ID)
		if !samePair {
			return nil, utils.NewValidationError("parent message belongs to a different conversation")
		}
	}

	now := time.Now()
	message := &models.Message{
		ID:              uuid.NewString(),
		ContractID:      req.ContractID,
		SenderID:        actor.ID,
		ReceiverID:      receiver.ID,
		Subject:         req.Subject,
		Content:         content,
		MessageType:     models.MessageTypeText,
		ParentMessageID: req.ParentMessageID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.Create(message); err != nil {
		return nil, err
	}

	s.Notifier.Emit(context.Background(), notification.Event{
		UserID:    receiver.ID,
		Title:     "New message",
		Message:   actor.Name + " sent you a message.",
		Type:      models.NotificationUserMessage,
		RelatedID: message.ID,
	})

	utils.GetLogger().Info("Message sent",
		zap.String("messageID", message.ID),
		zap.String("senderID", actor.ID),
		zap.String("receiverID", receiver.ID))
	return message, nil
}

// GetMessages lists messages the actor sent or received, newest first.
func (s *DefaultMessagingService) GetMessages(actor *models.User, limit, offset int64) ([]models.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.ListForUser(actor.ID, limit, offset)
}

// GetConversation returns the two-party thread between the actor and another
// user. The actor is always one side of the pair.
func (s *DefaultMessagingService) GetConversation(actor *models.User, otherUserID string) ([]models.Message, error) {
	other, err := s.Users.GetByID(otherUserID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, utils.NewNotFoundError("user %s not found", otherUserID)
	}
	return s.Repo.ListConversation(actor.ID, other.ID)
}

// GetContractThread returns messages attached to a contract. Only the
// parties and admins can read it.
func (s *DefaultMessagingService) GetContractThread(actor *models.User, roles models.RoleSet, contractID string) ([]models.Message, error) {
	contract, err := s.Contracts.GetByID(contractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, utils.NewNotFoundError("contract %s not found", contractID)
	}
	if !isContractParty(contract, actor.ID) && !roles.Admin {
		return nil, utils.NewForbiddenError("you are not a party to this contract")
	}
	return s.Repo.ListByContract(contract.ID)
}

// MarkRead marks a received message as read. Only the receiver can do this.
func (s *DefaultMessagingService) MarkRead(actor *models.User, id string) (*models.Message, error) {
	message, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, utils.NewNotFoundError("message %s not found", id)
	}
	if message.ReceiverID != actor.ID {
		return nil, utils.NewForbiddenError("only the receiver can mark a message as read")
	}
	if !message.IsRead {
		if err := s.Repo.MarkRead(message.ID); err != nil {
			return nil, err
		}
		message.IsRead = true
	}
	return message, nil
}

func (s *DefaultMessagingService) CountUnread(actor *models.User) (int64, error) {
	return s.Repo.CountUnread(actor.ID)
}

// DeleteMessage removes a message. Sender or admin only.
func (s *DefaultMessagingService) DeleteMessage(actor *models.User, roles models.RoleSet, id string) error {
	message, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if message == nil {
		return utils.NewNotFoundError("message %s not found", id)
	}
	if message.SenderID != actor.ID && !roles.Admin {
		return utils.NewForbiddenError("only the sender can delete a message")
	}
	return s.Repo.Delete(message.ID)
}
