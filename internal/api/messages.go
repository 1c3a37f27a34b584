package api

import (
	"net/http"

	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/gin-gonic/gin"
)

type messageBody struct {
	ReceiverID int64  `json:"receiver_id" binding:"required"`
	Content    string `json:"content"`
}

func (h *handler) sendMessage(c *gin.Context) {
	var body messageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	msg, err := h.Messages.Send(c.Request.Context(), service.SendMessageInput{
		SenderID:   currentUser(c),
		ReceiverID: body.ReceiverID,
		Content:    body.Content,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *handler) conversations(c *gin.Context) {
	convs, err := h.Messages.Conversations(c.Request.Context(), currentUser(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, convs)
}

func (h *handler) conversation(c *gin.Context) {
	partnerID, ok := pathID(c)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", maxLimit)
	if !ok {
		return
	}

	msgs, err := h.Messages.Conversation(c.Request.Context(), currentUser(c), partnerID, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *handler) markConversationRead(c *gin.Context) {
	partnerID, ok := pathID(c)
	if !ok {
		return
	}
	n, err := h.Messages.MarkRead(c.Request.Context(), currentUser(c), partnerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": n})
}
