package directory

import (
	"time"

	"tradelink/models"
)

// Patch lists the fields UpdateSpecialist may change. Nil fields are left
// untouched. The id and category of a specialist never change, and the
// rating, review count and comments only move through ApplyReview.
type Patch struct {
	Name                 *string              `json:"name,omitempty"`
	CompanyName          *string              `json:"companyName,omitempty"`
	Email                *string              `json:"email,omitempty"`
	Phone                *string              `json:"phone,omitempty"`
	Location             *string              `json:"location,omitempty"`
	Specialty            *string              `json:"specialty,omitempty"`
	HourlyRate           *float64             `json:"hourlyRate,omitempty"`
	FixedPriceStart      *float64             `json:"fixedPriceStart,omitempty"`
	Availability         *models.Availability `json:"availability,omitempty"`
	Image                *models.ProfileImage `json:"image,omitempty"`
	IsVerified           *bool                `json:"isVerified,omitempty"`
	IsSubscriptionActive *bool                `json:"isSubscriptionActive,omitempty"`
	SubscriptionExpiry   *time.Time           `json:"subscriptionExpiry,omitempty"`
}

func (p Patch) apply(rec *models.Specialist) {
	setString(&rec.Name, p.Name)
	setString(&rec.CompanyName, p.CompanyName)
	setString(&rec.Email, p.Email)
	setString(&rec.Phone, p.Phone)
	setString(&rec.Location, p.Location)
	setString(&rec.Specialty, p.Specialty)
	if p.HourlyRate != nil {
		v := *p.HourlyRate
		rec.HourlyRate = &v
	}
	if p.FixedPriceStart != nil {
		v := *p.FixedPriceStart
		rec.FixedPriceStart = &v
	}
	if p.Availability != nil {
		rec.Availability = *p.Availability
	}
	if p.Image != nil {
		rec.Image = *p.Image
	}
	if p.IsVerified != nil {
		rec.IsVerified = *p.IsVerified
	}
	if p.IsSubscriptionActive != nil {
		rec.IsSubscriptionActive = *p.IsSubscriptionActive
	}
	if p.SubscriptionExpiry != nil {
		v := *p.SubscriptionExpiry
		rec.SubscriptionExpiry = &v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
