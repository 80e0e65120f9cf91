package domain

// ActivityStats son los contadores de actividad que alimentan la reputacion.
type ActivityStats struct {
	ReviewCount         int
	DetailedReviewCount int
	InteractionCount    int
	MessageCount        int
	SuperLikeCount      int
	AccountAgeDays      int
}

type ReputationBreakdown struct {
	Reviews         float64 `json:"reviews"`
	DetailedReviews float64 `json:"detailed_reviews"`
	Interactions    float64 `json:"interactions"`
	Messages        float64 `json:"messages"`
	SuperLikes      float64 `json:"super_likes"`
	AccountAge      float64 `json:"account_age"`
}

type Reputation struct {
	Score     float64             `json:"score"`
	Rank      int                 `json:"rank"`
	Breakdown ReputationBreakdown `json:"breakdown"`
}

type LeaderboardEntry struct {
	UserID          string  `json:"id"`
	Name            string  `json:"name,omitempty"`
	Avatar          string  `json:"avatar,omitempty"`
	UserType        string  `json:"user_type"`
	ReputationScore float64 `json:"reputation_score"`
	Rank            int     `json:"rank"`
}
