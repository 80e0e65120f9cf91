package service

import (
	"sort"

	"swipe-market/internal/domain"
)

const topConcernsLimit = 5

// Aggregate calcula las estadisticas de una corrida. Es una funcion pura de la lista:
// no llama al oraculo y no completa Recommendations.
func Aggregate(responses []domain.PersonaResponse) (domain.TestResults, error) {
	total := len(responses)
	if total == 0 {
		return domain.TestResults{}, ErrNoResponses
	}

	var likes, passes, superLikes, interestSum int
	for _, r := range responses {
		switch r.Decision {
		case domain.ActionLike:
			likes++
		case domain.ActionSuperLike:
			superLikes++
		default:
			passes++
		}
		interestSum += r.InterestScore
	}

	avgInterest := float64(interestSum) / float64(total)

	return domain.TestResults{
		LikeRate:          percentage(likes+superLikes, total),
		PassRate:          percentage(passes, total),
		SuperLikeRate:     percentage(superLikes, total),
		TopConcerns:       topConcerns(responses, topConcernsLimit),
		Recommendations:   []string{},
		SentimentAnalysis: sentimentFromInterest(avgInterest),
		PersonaResponses:  responses,
	}, nil
}

func percentage(count, total int) float64 {
	return 100 * float64(count) / float64(total)
}

// topConcerns cuenta por coincidencia exacta y ordena por frecuencia; los empates
// conservan el orden de primera aparicion.
func topConcerns(responses []domain.PersonaResponse, limit int) []string {
	counts := make(map[string]int)
	var order []string
	for _, r := range responses {
		for _, c := range r.Concerns {
			if _, ok := counts[c]; !ok {
				order = append(order, c)
			}
			counts[c]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	if order == nil {
		return []string{}
	}
	return order
}

// sentimentFromInterest reproduce la heuristica historica de buckets: positive se
// satura en 70 y los tres valores no siempre suman 100.
func sentimentFromInterest(avg float64) domain.SentimentAnalysis {
	switch {
	case avg > 70:
		return domain.SentimentAnalysis{Positive: 70, Neutral: 30, Negative: 0}
	case avg < 40:
		return domain.SentimentAnalysis{Positive: avg, Neutral: 30, Negative: 70}
	default:
		return domain.SentimentAnalysis{Positive: avg, Neutral: 50, Negative: 50 - avg}
	}
}
