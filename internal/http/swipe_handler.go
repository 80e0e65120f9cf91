package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"swipe-market/internal/service"
)

type SwipeHandler struct {
	logger *zap.Logger
	swipes *service.SwipeService
}

func NewSwipeHandler(logger *zap.Logger, swipes *service.SwipeService) *SwipeHandler {
	return &SwipeHandler{logger: logger, swipes: swipes}
}

// Feed maneja GET /feed?limit=&offset=.
func (h *SwipeHandler) Feed(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	user, _ := CurrentUser(c)
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	cards, err := h.swipes.Feed(c.Request.Context(), user, limit, offset)
	if err != nil {
		writeServiceError(c, h.logger, err, "feed", "could not load feed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": cards})
}

// Interact maneja POST /interactions.
func (h *SwipeHandler) Interact(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	user, _ := CurrentUser(c)

	var req struct {
		ProductID             string  `json:"product_id" binding:"required"`
		Action                string  `json:"action" binding:"required"`
		TimeSpentSeconds      int     `json:"time_spent_seconds"`
		VideoCompletionPct    float64 `json:"video_completion_pct"`
		ReplayCount           int     `json:"replay_count"`
		ClickedFounderProfile bool    `json:"clicked_founder_profile"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid interaction request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.swipes.Swipe(c.Request.Context(), user, service.SwipeInput{
		ProductID:             req.ProductID,
		Action:                req.Action,
		TimeSpentSeconds:      req.TimeSpentSeconds,
		VideoCompletionPct:    req.VideoCompletionPct,
		ReplayCount:           req.ReplayCount,
		ClickedFounderProfile: req.ClickedFounderProfile,
	})
	if err != nil {
		writeServiceError(c, h.logger, err, "interaction", "could not record interaction")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Review maneja POST /reviews.
func (h *SwipeHandler) Review(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	user, _ := CurrentUser(c)

	var req struct {
		ProductID string `json:"product_id" binding:"required"`
		Rating    int    `json:"rating" binding:"required"`
		Text      string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid review request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	interaction, err := h.swipes.Review(c.Request.Context(), user, service.ReviewInput{
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Text:      req.Text,
	})
	if err != nil {
		writeServiceError(c, h.logger, err, "review", "could not save review")
		return
	}
	c.JSON(http.StatusOK, gin.H{"interaction": interaction})
}
