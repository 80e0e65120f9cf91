package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"swipe-market/internal/domain"
)

type productFixture struct {
	Title           string                `yaml:"title"`
	Pitch           string                `yaml:"description_7words"`
	FullDescription string                `yaml:"full_description"`
	Category        string                `yaml:"category"`
	Tags            []string              `yaml:"tags"`
	Pricing         domain.ProductPricing `yaml:"pricing"`
	DemoVideo       domain.DemoVideo      `yaml:"demo_video"`
	MarketData      *domain.MarketData    `yaml:"market_data"`
}

func loadFixture(path string) (domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Product{}, fmt.Errorf("read fixture: %w", err)
	}
	return parseFixture(data)
}

func parseFixture(data []byte) (domain.Product, error) {
	var f productFixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.Product{}, fmt.Errorf("parse fixture: %w", err)
	}
	f.Title = strings.TrimSpace(f.Title)
	f.Pitch = strings.TrimSpace(f.Pitch)
	if f.Title == "" || f.Pitch == "" {
		return domain.Product{}, fmt.Errorf("fixture needs title and description_7words")
	}
	return domain.Product{
		ID:              uuid.NewString(),
		Title:           f.Title,
		Pitch:           f.Pitch,
		FullDescription: f.FullDescription,
		Category:        f.Category,
		Tags:            f.Tags,
		Pricing:         f.Pricing,
		DemoVideo:       f.DemoVideo,
		MarketData:      f.MarketData,
		Status:          domain.ProductStatusActive,
	}, nil
}
