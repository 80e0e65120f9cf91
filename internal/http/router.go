package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"swipe-market/internal/service"
)

// Handlers agrupa los handlers que arma cmd/api.
type Handlers struct {
	User        *UserHandler
	Product     *ProductHandler
	Swipe       *SwipeHandler
	Match       *MatchHandler
	Reputation  *ReputationHandler
	Synthetic   *SyntheticTestHandler
	Analysis    *AnalysisHandler
	Preferences *PreferencesHandler
	Deal        *DealHandler
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	userSvc *service.UserService,
	h Handlers,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	auth := r.Group("/auth")
	auth.POST("/oauth", h.User.OAuthLogin)
	auth.POST("/refresh", h.User.RefreshToken)
	auth.POST("/logout", h.User.Logout)

	r.GET("/reputation/leaderboard", h.Reputation.Leaderboard)
	r.GET("/products/:id", h.Product.Get)
	r.GET("/products/:id/similar", h.Product.Similar)
	r.GET("/products/:id/reviews", h.Product.Reviews)

	authed := r.Group("/", JWTAuthMiddleware(jwtSvc), CurrentUserMiddleware(userSvc))
	authed.POST("/users/onboard", h.User.Onboard)
	authed.GET("/users/me", h.User.Me)

	authed.POST("/products", h.Product.Create)
	authed.GET("/products/mine", h.Product.Mine)

	authed.GET("/feed", h.Swipe.Feed)
	authed.POST("/interactions", h.Swipe.Interact)
	authed.POST("/reviews", h.Swipe.Review)

	authed.GET("/matches", h.Match.List)
	authed.POST("/matches/:id/messages", h.Match.SendMessage)
	authed.GET("/matches/:id/messages", h.Match.ListMessages)

	authed.POST("/reputation/recalculate", h.Reputation.Recalculate)

	authed.POST("/synthetic-tests", h.Synthetic.Run)
	authed.GET("/synthetic-tests", h.Synthetic.List)

	authed.POST("/market-analysis", h.Analysis.MarketAnalysis)
	authed.POST("/products/:id/due-diligence", h.Analysis.DueDiligence)

	authed.POST("/investor-preferences", h.Preferences.Save)
	authed.GET("/investor-preferences", h.Preferences.Get)

	authed.POST("/deals", h.Deal.Mark)
	authed.GET("/deals", h.Deal.List)
	authed.DELETE("/deals", h.Deal.Unmark)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
