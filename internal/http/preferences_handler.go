package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"swipe-market/internal/domain"
	"swipe-market/internal/service"
)

type PreferencesHandler struct {
	logger *zap.Logger
	prefs  *service.PreferencesService
}

func NewPreferencesHandler(logger *zap.Logger, prefs *service.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{logger: logger, prefs: prefs}
}

// Save maneja POST /investor-preferences.
func (h *PreferencesHandler) Save(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	user, _ := CurrentUser(c)

	var req struct {
		PreferredCategories     []string           `json:"preferred_categories"`
		PreferredStages         []string           `json:"preferred_stages"`
		InvestmentRange         domain.AmountRange `json:"investment_range"`
		AvoidKeywords           []string           `json:"avoid_keywords"`
		AIRecommendationEnabled *bool              `json:"ai_recommendation_enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid preferences request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	// sin el campo, la recomendacion queda activa
	aiEnabled := req.AIRecommendationEnabled == nil || *req.AIRecommendationEnabled

	prefs, err := h.prefs.Save(c.Request.Context(), user, domain.InvestorPreferences{
		PreferredCategories:     req.PreferredCategories,
		PreferredStages:         req.PreferredStages,
		InvestmentRange:         req.InvestmentRange,
		AvoidKeywords:           req.AvoidKeywords,
		AIRecommendationEnabled: aiEnabled,
	})
	if err != nil {
		writeServiceError(c, h.logger, err, "save preferences", "could not save preferences")
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// Get maneja GET /investor-preferences.
func (h *PreferencesHandler) Get(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	user, _ := CurrentUser(c)

	prefs, err := h.prefs.Get(c.Request.Context(), user)
	if err != nil {
		writeServiceError(c, h.logger, err, "load preferences", "could not load preferences")
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}
