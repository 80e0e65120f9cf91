package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"swipe-market/internal/service"
)

type MatchHandler struct {
	logger   *zap.Logger
	messages *service.MessageService
}

func NewMatchHandler(logger *zap.Logger, messages *service.MessageService) *MatchHandler {
	return &MatchHandler{logger: logger, messages: messages}
}

// List maneja GET /matches.
func (h *MatchHandler) List(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	user, _ := CurrentUser(c)
	matches, err := h.messages.ListMatches(c.Request.Context(), user)
	if err != nil {
		writeServiceError(c, h.logger, err, "list matches", "could not list matches")
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// SendMessage maneja POST /matches/:id/messages.
func (h *MatchHandler) SendMessage(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	user, _ := CurrentUser(c)

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), user, c.Param("id"), req.Content)
	if err != nil {
		writeServiceError(c, h.logger, err, "send message", "could not send message")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// ListMessages maneja GET /matches/:id/messages.
func (h *MatchHandler) ListMessages(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	user, _ := CurrentUser(c)
	msgs, err := h.messages.List(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, err, "list messages", "could not list messages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
