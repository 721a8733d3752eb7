package models

import "time"

// BillingCycle is the subscription plan chosen during registration.
type BillingCycle string

const (
	Monthly BillingCycle = "monthly"
	Yearly  BillingCycle = "yearly"
)

func (b BillingCycle) Valid() bool {
	return b == Monthly || b == Yearly
}

// Period is the length of one paid subscription term.
func (b BillingCycle) Period() time.Duration {
	if b == Yearly {
		return 365 * 24 * time.Hour
	}
	return 30 * 24 * time.Hour
}

// ExpiryFrom returns when a subscription bought at t runs out.
func (b BillingCycle) ExpiryFrom(t time.Time) time.Time {
	return t.Add(b.Period())
}
