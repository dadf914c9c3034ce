package handlers

import (
	"net/http"
	"strconv"

	"servimarket/services/messaging"
	"servimarket/utils"

	"github.com/gin-gonic/gin"
)

// SendMessageHandler handles POST /api/messages.
func (h *HandlerBundle) SendMessageHandler(c *gin.Context) {
	u, _, ok := actor(c)
	if !ok {
		return
	}
	var req messaging.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("invalid message payload: %v", err))
		return
	}
	message, err := h.MessagingService.SendMessage(u, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// ListMessagesHandler handles GET /api/messages?limit=&offset=.
func (h *HandlerBundle) ListMessagesHandler(c *gin.Context) {
	u, _, ok := actor(c)
	if !ok {
		return
	}
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	offset, _ := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)
	messages, err := h.MessagingService.GetMessages(u, limit, offset)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// GetConversationHandler handles GET /api/messages/conversation/:userId.
func (h *HandlerBundle) GetConversationHandler(c *gin.Context) {
	u, _, ok := actor(c)
	if !ok {
		return
	}
	messages, err := h.MessagingService.GetConversation(u, c.Param("userId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// GetContractThreadHandler handles GET /api/contracts/:id/messages.
func (h *HandlerBundle) GetContractThreadHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	messages, err := h.MessagingService.GetContractThread(u, roles, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// MarkMessageReadHandler handles PUT /api/messages/:id/read.
func (h *HandlerBundle) MarkMessageReadHandler(c *gin.Context) {
	u, _, ok := actor(c)
	if !ok {
		return
	}
	message, err := h.MessagingService.MarkRead(u, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, message)
}

// CountUnreadMessagesHandler handles GET /api/messages/unread-count.
func (h *HandlerBundle) CountUnreadMessagesHandler(c *gin.Context) {
	u, _, ok := actor(c)
	if !ok {
		return
	}
	count, err := h.MessagingService.CountUnread(u)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// DeleteMessageHandler handles DELETE /api/messages/:id.
func (h *HandlerBundle) DeleteMessageHandler(c *gin.Context) {
	u, roles, ok := actor(c)
	if !ok {
		return
	}
	if err := h.MessagingService.DeleteMessage(u, roles, c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}
