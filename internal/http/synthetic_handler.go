package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"swipe-market/internal/service"
)

const syntheticFailureMessage = "synthetic test failed, please try again later"

type SyntheticTestHandler struct {
	logger *zap.Logger
	tests  *service.SyntheticTestService
}

func NewSyntheticTestHandler(logger *zap.Logger, tests *service.SyntheticTestService) *SyntheticTestHandler {
	return &SyntheticTestHandler{logger: logger, tests: tests}
}

// Run maneja POST /synthetic-tests. Cualquier fallo del pipeline se muestra como
// un unico mensaje generico; el detalle queda en el log.
func (h *SyntheticTestHandler) Run(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	user, _ := CurrentUser(c)

	var req struct {
		ProductID    string `json:"product_id" binding:"required"`
		PersonaCount int    `json:"persona_count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid synthetic test request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	test, err := h.tests.Run(c.Request.Context(), user, req.ProductID, req.PersonaCount)
	if err != nil {
		if isPipelineFailure(err) {
			h.logger.Error("synthetic test failed",
				zap.String("product_id", req.ProductID),
				zap.String("founder_id", user.ID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": syntheticFailureMessage})
			return
		}
		writeServiceError(c, h.logger, err, "synthetic test", syntheticFailureMessage)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"test": test, "processing_time_seconds": test.ProcessingTimeSeconds})
}

// List maneja GET /synthetic-tests.
func (h *SyntheticTestHandler) List(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	user, _ := CurrentUser(c)
	tests, err := h.tests.ListByFounder(c.Request.Context(), user)
	if err != nil {
		writeServiceError(c, h.logger, err, "list synthetic tests", "could not list synthetic tests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tests": tests})
}

func isPipelineFailure(err error) bool {
	return errors.Is(err, service.ErrGenerationFailure) ||
		errors.Is(err, service.ErrRecommendationFailure) ||
		errors.Is(err, service.ErrPersistenceFailure) ||
		errors.Is(err, service.ErrNoResponses) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
