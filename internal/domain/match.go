package domain

import "time"

const (
	MatchStatusInterested   = "interested"
	MatchStatusInDiscussion = "in_discussion"
	MatchStatusDealClosed   = "deal_closed"
	MatchStatusPassed       = "passed"
)

type Match struct {
	ID         string    `json:"id"`
	FounderID  string    `json:"founder_id"`
	InvestorID string    `json:"investor_id"`
	ProductID  string    `json:"product_id"`
	Status     string    `json:"status"`
	MatchedAt  time.Time `json:"matched_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HasParticipant indica si el usuario es una de las dos partes del match.
func (m Match) HasParticipant(userID string) bool {
	return userID != "" && (m.FounderID == userID || m.InvestorID == userID)
}

type Message struct {
	ID        string     `json:"id"`
	MatchID   string     `json:"match_id"`
	SenderID  string     `json:"sender_id"`
	Content   string     `json:"content"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
