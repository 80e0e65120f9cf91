package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swipe-market/internal/domain"
	"swipe-market/internal/email"
	"swipe-market/internal/llm"
	"swipe-market/internal/service"
)

// oracleConfig es el subconjunto de la config del API que necesita el CLI; no pide DATABASE_URL.
type oracleConfig struct {
	LLMProvider  string `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMAPIKey    string `env:"LLM_API_KEY"`
	LLMBaseURL   string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel     string `env:"LLM_MODEL" envDefault:"gpt-5.1"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash-lite"`
}

const cliFounderID = "cli-founder"

func runCheck(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	product, err := loadFixture(rootFlags.fixture)
	if err != nil {
		return err
	}
	product.FounderID = cliFounderID

	logger := zap.NewNop()
	oracle, closeOracle, err := buildOracle(ctx, rootFlags.offline)
	if err != nil {
		return err
	}
	defer closeOracle()

	products := newMemoryProductRepo(product)
	tests := &memorySyntheticTestRepo{}
	svc := service.NewSyntheticTestService(
		logger,
		products,
		tests,
		service.NewPersonaGenerator(oracle, logger),
		service.NewPersonaEvaluator(oracle, logger, rootFlags.concurrency),
		service.NewResultAnalyzer(oracle),
		service.AccessPolicy{BypassPaywall: true},
		nil,
		email.NewDisabledSender("cli run"),
		service.SyntheticTestConfig{
			DefaultPersonas: rootFlags.personas,
			MaxPersonas:     max(rootFlags.personas, 1),
			Timeout:         time.Duration(rootFlags.timeout) * time.Second,
		},
	)

	founder := domain.User{ID: cliFounderID, UserType: domain.UserTypeFounder, Tier: domain.TierFounder}
	test, err := svc.Run(ctx, founder, product.ID, rootFlags.personas)
	if err != nil {
		return fmt.Errorf("synthetic test: %w", err)
	}

	out := cmd.OutOrStdout()
	if rootFlags.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(test)
	}
	printReport(out, product, test)
	return nil
}

func buildOracle(ctx context.Context, offline bool) (llm.LLMClient, func(), error) {
	if offline {
		return newCannedOracle(), func() {}, nil
	}
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}
	var cfg oracleConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.LLMProvider == "gemini" {
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { _ = client.Close() }, nil
	}
	return llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, "", zap.NewNop()), func() {}, nil
}
