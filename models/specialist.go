package models

import "time"

// Specialist is one tradesperson listing in the directory.
type Specialist struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	CategoryID           string          `json:"categoryId"`
	CompanyName          string          `json:"companyName"`
	Email                string          `json:"email"`
	Phone                string          `json:"phone"`
	Location             string          `json:"location,omitempty"`
	Specialty            string          `json:"specialty"`
	Rating               float64         `json:"rating"`  // 0.0 - 5.0, one decimal.
	Reviews              int             `json:"reviews"` // Count of ratings folded into Rating.
	HourlyRate           *float64        `json:"hourlyRate,omitempty"`
	FixedPriceStart      *float64        `json:"fixedPriceStart,omitempty"`
	Availability         Availability    `json:"availability"`
	Image                ProfileImage    `json:"image"`
	Comments             []ReviewComment `json:"comments"`
	IsVerified           bool            `json:"isVerified"`
	IsSubscriptionActive bool            `json:"isSubscriptionActive"`
	SubscriptionExpiry   *time.Time      `json:"subscriptionExpiry,omitempty"`
}

// ReviewComment is one feedback entry. Comments are only ever prepended.
type ReviewComment struct {
	ID      string `json:"id"`
	User    string `json:"user"`
	Rating  int    `json:"rating"` // 1 - 5.
	Comment string `json:"comment"`
	Date    string `json:"date"` // YYYY-MM-DD
}

// TrustScore is the ranking weight used by the directory listing.
func (s Specialist) TrustScore() float64 {
	return s.Rating * float64(s.Reviews)
}

// Clone returns a deep copy so callers can mutate without touching shared state.
func (s Specialist) Clone() Specialist {
	out := s
	if s.Comments != nil {
		out.Comments = make([]ReviewComment, len(s.Comments))
		copy(out.Comments, s.Comments)
	}
	if s.HourlyRate != nil {
		v := *s.HourlyRate
		out.HourlyRate = &v
	}
	if s.FixedPriceStart != nil {
		v := *s.FixedPriceStart
		out.FixedPriceStart = &v
	}
	if s.SubscriptionExpiry != nil {
		v := *s.SubscriptionExpiry
		out.SubscriptionExpiry = &v
	}
	return out
}
