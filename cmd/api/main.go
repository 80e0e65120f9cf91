package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"swipe-market/internal/config"
	"swipe-market/internal/db"
	"swipe-market/internal/email"
	apihttp "swipe-market/internal/http"
	"swipe-market/internal/llm"
	"swipe-market/internal/repository"
	"swipe-market/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	productRepo := repository.NewPgProductRepository(pool)
	interactionRepo := repository.NewPgInteractionRepository(pool)
	matchRepo := repository.NewPgMatchRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	syntheticRepo := repository.NewPgSyntheticTestRepository(pool)
	preferencesRepo := repository.NewPgInvestorPreferencesRepository(pool)

	llmClient, embeddings, closeLLM := newOracle(ctx, cfg, logger)
	defer closeLLM()

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	runLimiter := service.NewMemoryRunLimiter(time.Hour, cfg.SyntheticRunsPerHour)
	var tokenStore service.RefreshTokenStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory stores", zap.Error(err))
		} else {
			runLimiter = service.NewRedisRunLimiter(redisClient, "swipe:synthetic_runs:", time.Hour, cfg.SyntheticRunsPerHour)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTService(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	policy := service.AccessPolicy{BypassPaywall: cfg.PaywallBypass}
	if policy.BypassPaywall {
		logger.Warn("paywall bypass enabled, all paid features are open")
	}

	userSvc := service.NewUserService(logger, userRepo)
	productSvc := service.NewProductService(logger, productRepo, llmClient, embeddings, policy)
	swipeSvc := service.NewSwipeService(logger, productRepo, interactionRepo, matchRepo, llmClient, policy)
	messageSvc := service.NewMessageService(matchRepo, messageRepo)
	reputationSvc := service.NewReputationService(logger, userRepo, interactionRepo)
	analysisSvc := service.NewMarketAnalysisService(logger, productRepo, userRepo, llmClient, policy)
	preferencesSvc := service.NewPreferencesService(logger, preferencesRepo)
	dealSvc := service.NewDealService(logger, productRepo, interactionRepo)
	syntheticSvc := service.NewSyntheticTestService(
		logger,
		productRepo,
		syntheticRepo,
		service.NewPersonaGenerator(llmClient, logger),
		service.NewPersonaEvaluator(llmClient, logger, cfg.SyntheticMaxConcurrency),
		service.NewResultAnalyzer(llmClient),
		policy,
		runLimiter,
		emailSender,
		service.SyntheticTestConfig{
			DefaultPersonas: cfg.SyntheticDefaultPersonas,
			MaxPersonas:     cfg.SyntheticMaxPersonas,
			Timeout:         cfg.SyntheticRequestTimeout(),
		},
	)

	router := apihttp.NewRouter(logger, jwtSvc, userSvc, apihttp.Handlers{
		User:        apihttp.NewUserHandler(logger, userSvc, jwtSvc),
		Product:     apihttp.NewProductHandler(logger, productSvc, swipeSvc),
		Swipe:       apihttp.NewSwipeHandler(logger, swipeSvc),
		Match:       apihttp.NewMatchHandler(logger, messageSvc),
		Reputation:  apihttp.NewReputationHandler(logger, reputationSvc),
		Synthetic:   apihttp.NewSyntheticTestHandler(logger, syntheticSvc),
		Analysis:    apihttp.NewAnalysisHandler(logger, analysisSvc),
		Preferences: apihttp.NewPreferencesHandler(logger, preferencesSvc),
		Deal:        apihttp.NewDealHandler(logger, dealSvc),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

// newOracle elige el proveedor de LLM. Gemini no expone embeddings por este cliente.
func newOracle(ctx context.Context, cfg *config.Config, logger *zap.Logger) (llm.LLMClient, llm.EmbeddingClient, func()) {
	if cfg.LLMProvider == "gemini" {
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Fatal("gemini client", zap.Error(err))
		}
		return client, nil, func() { _ = client.Close() }
	}
	client := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMEmbeddingModel, logger)
	return client, client, func() {}
}
