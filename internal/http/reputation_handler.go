package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"swipe-market/internal/service"
)

type ReputationHandler struct {
	logger     *zap.Logger
	reputation *service.ReputationService
}

func NewReputationHandler(logger *zap.Logger, reputation *service.ReputationService) *ReputationHandler {
	return &ReputationHandler{logger: logger, reputation: reputation}
}

// Recalculate maneja POST /reputation/recalculate para el usuario autenticado.
func (h *ReputationHandler) Recalculate(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	user, _ := CurrentUser(c)
	rep, err := h.reputation.Recalculate(c.Request.Context(), user.ID)
	if err != nil {
		writeServiceError(c, h.logger, err, "recalculate reputation", "could not recalculate reputation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reputation": rep})
}

// Leaderboard maneja GET /reputation/leaderboard?limit=.
func (h *ReputationHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.reputation.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(c, h.logger, err, "leaderboard", "could not load leaderboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
