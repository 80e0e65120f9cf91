package domain

import "time"

const (
	UserTypeFounder      = "founder"
	UserTypeInvestor     = "investor"
	UserTypeEarlyAdopter = "early_adopter"
)

// IsValidUserType indica si el tipo pertenece al marketplace.
func IsValidUserType(t string) bool {
	switch t {
	case UserTypeFounder, UserTypeInvestor, UserTypeEarlyAdopter:
		return true
	}
	return false
}

type User struct {
	ID              string      `json:"id"`
	Email           string      `json:"email"`
	DisplayName     string      `json:"display_name,omitempty"`
	AuthProvider    string      `json:"auth_provider,omitempty"`
	AuthSubject     string      `json:"-"`
	UserType        string      `json:"user_type,omitempty"`
	Tier            string      `json:"tier"`
	Profile         UserProfile `json:"profile"`
	ReputationScore float64     `json:"reputation_score"`
	Rank            int         `json:"rank"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Onboarded indica si el usuario ya eligio su rol en el marketplace.
func (u User) Onboarded() bool {
	return u.UserType != ""
}

// UserProfile se guarda como JSONB; cada rol usa un subconjunto de campos.
type UserProfile struct {
	Name     string `json:"name,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Company  string `json:"company,omitempty"`
	Website  string `json:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`

	// Inversores
	Firm             string       `json:"firm,omitempty"`
	InvestmentThesis string       `json:"investment_thesis,omitempty"`
	StagePreference  []string     `json:"stage_preference,omitempty"`
	InvestmentRange  *AmountRange `json:"investment_range,omitempty"`
	Portfolio        []string     `json:"portfolio,omitempty"`

	// Founders
	PreviousExits int `json:"previous_exits,omitempty"`
	FoundingYear  int `json:"founding_year,omitempty"`

	// Early adopters
	AgeRange          string   `json:"age_range,omitempty"`
	Location          string   `json:"location,omitempty"`
	Occupation        string   `json:"occupation,omitempty"`
	Interests         []string `json:"interests,omitempty"`
	ProductCategories []string `json:"product_categories,omitempty"`
}

// AmountRange es un rango monetario en USD (Min <= Max).
type AmountRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
