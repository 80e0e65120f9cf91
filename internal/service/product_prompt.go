package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"swipe-market/internal/domain"
)

// describeProduct arma el bloque de producto compartido por todos los prompts.
func describeProduct(p domain.Product) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\n", p.Title)
	fmt.Fprintf(&sb, "Pitch: %s\n", p.Pitch)
	fmt.Fprintf(&sb, "Description: %s\n", orDefault(p.FullDescription, "Not provided"))
	fmt.Fprintf(&sb, "Category: %s\n", p.Category)
	pricing, _ := json.Marshal(p.Pricing)
	fmt.Fprintf(&sb, "Pricing: %s\n", pricing)
	if p.AIGeneratedSummary != "" {
		fmt.Fprintf(&sb, "Summary: %s\n", p.AIGeneratedSummary)
	}
	return sb.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// oracleScore acepta cualquier numero JSON, o un numero entre comillas, como puntaje.
type oracleScore float64

func (s *oracleScore) UnmarshalJSON(b []byte) error {
	str := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if str == "" || str == "null" {
		*s = 0
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("score %s is not a number", b)
	}
	*s = oracleScore(v)
	return nil
}

// Int redondea al entero mas cercano dentro de 0-100.
func (s oracleScore) Int() int {
	return clampScore(int(math.Round(float64(s))))
}
