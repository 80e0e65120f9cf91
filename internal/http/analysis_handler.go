package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"swipe-market/internal/service"
)

type AnalysisHandler struct {
	logger   *zap.Logger
	analysis *service.MarketAnalysisService
}

func NewAnalysisHandler(logger *zap.Logger, analysis *service.MarketAnalysisService) *AnalysisHandler {
	return &AnalysisHandler{logger: logger, analysis: analysis}
}

// MarketAnalysis maneja POST /market-analysis.
func (h *AnalysisHandler) MarketAnalysis(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	user, _ := CurrentUser(c)

	var req struct {
		ProductID   string `json:"product_id"`
		ProductName string `json:"product_name" binding:"required"`
		Description string `json:"description" binding:"required"`
		PricePoint  string `json:"price_point" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid market analysis request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	analysis, err := h.analysis.Analyze(c.Request.Context(), user, service.MarketAnalysisInput{
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Description: req.Description,
		PricePoint:  req.PricePoint,
	})
	if err != nil {
		writeServiceError(c, h.logger, err, "market analysis", "could not generate market analysis")
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

// DueDiligence maneja POST /products/:id/due-diligence.
func (h *AnalysisHandler) DueDiligence(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	user, _ := CurrentUser(c)

	brief, err := h.analysis.DueDiligence(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, err, "due diligence", "could not generate due diligence brief")
		return
	}
	c.JSON(http.StatusOK, brief)
}
