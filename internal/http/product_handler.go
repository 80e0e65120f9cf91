package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"swipe-market/internal/domain"
	"swipe-market/internal/service"
)

type ProductHandler struct {
	logger   *zap.Logger
	products *service.ProductService
	swipes   *service.SwipeService
}

func NewProductHandler(logger *zap.Logger, products *service.ProductService, swipes *service.SwipeService) *ProductHandler {
	return &ProductHandler{logger: logger, products: products, swipes: swipes}
}

// Create maneja POST /products.
func (h *ProductHandler) Create(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	user, _ := CurrentUser(c)

	var req struct {
		Title           string                `json:"title" binding:"required"`
		Pitch           string                `json:"description_7words" binding:"required"`
		FullDescription string                `json:"full_description"`
		DemoVideo       domain.DemoVideo      `json:"demo_video"`
		Pricing         domain.ProductPricing `json:"pricing"`
		Category        string                `json:"category" binding:"required"`
		Tags            []string              `json:"tags"`
		MarketData      *domain.MarketData    `json:"market_data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create product request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	product, err := h.products.Create(c.Request.Context(), user, service.CreateProductInput{
		Title:           req.Title,
		Pitch:           req.Pitch,
		FullDescription: req.FullDescription,
		DemoVideo:       req.DemoVideo,
		Pricing:         req.Pricing,
		Category:        req.Category,
		Tags:            req.Tags,
		MarketData:      req.MarketData,
	})
	if err != nil {
		writeServiceError(c, h.logger, err, "create product", "could not create product")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// Mine maneja GET /products/mine.
func (h *ProductHandler) Mine(c *gin.Context) {
	if !requireUser(c) {
		return
	}
	user, _ := CurrentUser(c)
	products, err := h.products.ListMine(c.Request.Context(), user)
	if err != nil {
		writeServiceError(c, h.logger, err, "list products", "could not list products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Get maneja GET /products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, err, "get product", "could not load product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// Similar maneja GET /products/:id/similar?limit=.
func (h *ProductHandler) Similar(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	products, err := h.products.Similar(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		writeServiceError(c, h.logger, err, "similar products", "could not load similar products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Reviews maneja GET /products/:id/reviews.
func (h *ProductHandler) Reviews(c *gin.Context) {
	reviews, err := h.swipes.Reviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, err, "list reviews", "could not load reviews")
		return
	}
	c.JSON(http.StatusOK, reviews)
}
