package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"swipe-market/internal/service"
)

type DealHandler struct {
	logger *zap.Logger
	deals  *service.DealService
}

func NewDealHandler(logger *zap.Logger, deals *service.DealService) *DealHandler {
	return &DealHandler{logger: logger, deals: deals}
}

// Mark maneja POST /deals.
func (h *DealHandler) Mark(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	user, _ := CurrentUser(c)

	var req struct {
		ProductID string   `json:"product_id" binding:"required"`
		Amount    *float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid deal request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	interaction, err := h.deals.Mark(c.Request.Context(), user, req.ProductID, req.Amount)
	if err != nil {
		writeServiceError(c, h.logger, err, "mark deal", "could not record deal")
		return
	}
	c.JSON(http.StatusOK, gin.H{"interaction": interaction})
}

// List maneja GET /deals.
func (h *DealHandler) List(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	user, _ := CurrentUser(c)

	deals, err := h.deals.List(c.Request.Context(), user)
	if err != nil {
		writeServiceError(c, h.logger, err, "list deals", "could not load deals")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deals": deals})
}

// Unmark maneja DELETE /deals?product_id=.
func (h *DealHandler) Unmark(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	user, _ := CurrentUser(c)

	if err := h.deals.Unmark(c.Request.Context(), user, c.Query("product_id")); err != nil {
		writeServiceError(c, h.logger, err, "unmark deal", "could not remove deal")
		return
	}
	c.Status(http.StatusNoContent)
}
