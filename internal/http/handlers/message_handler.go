package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/marketplace-backend/internal/http/handlers/common"
	"github.com/ignatzorin/marketplace-backend/internal/service"
)

// MessageHandler обслуживает переписку сторон бронирования.
type MessageHandler struct {
	messages *service.MessageService
}

func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// SendMessage POST /bookings/:id/messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.Fail(c, err)
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.Fail(c, err)
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	msg, err := h.messages.SendMessage(c.Request.Context(), actor, bookingID, req.Content)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// ListMessages GET /bookings/:id/messages
func (h *MessageHandler) ListMessages(c *gin.Context) {
	actor, err := common.CurrentActor(c)
	if err != nil {
		common.Fail(c, err)
		return
	}

	bookingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.Fail(c, err)
		return
	}

	limit, offset := common.GetPagination(c)
	messages, err := h.messages.ListMessages(c.Request.Context(), actor, bookingID, limit, offset)
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
