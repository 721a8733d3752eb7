// Package payment hands out hosted checkout URLs for subscription plans.
// Nothing here waits for or verifies a payment.
package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tradelink/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentlink"
	"go.uber.org/zap"
)

var ErrUnknownCycle = errors.New("unknown billing cycle")

// LinkProvider returns the checkout URL for a billing cycle.
type LinkProvider interface {
	CheckoutURL(ctx context.Context, cycle models.BillingCycle) (string, error)
}

// StaticLinks serves fixed, pre-created payment links.
type StaticLinks struct {
	Monthly string
	Yearly  string
}

func (s StaticLinks) CheckoutURL(_ context.Context, cycle models.BillingCycle) (string, error) {
	var url string
	switch cycle {
	case models.Monthly:
		url = s.Monthly
	case models.Yearly:
		url = s.Yearly
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCycle, cycle)
	}
	if url == "" {
		return "", fmt.Errorf("no payment link configured for %s plan", cycle)
	}
	return url, nil
}

// StripeLinks creates one Stripe Payment Link per cycle on first use and
// reuses it afterwards.
type StripeLinks struct {
	prices map[models.BillingCycle]string
	logger *zap.Logger
	create func(*stripe.PaymentLinkParams) (*stripe.PaymentLink, error)

	mu    sync.Mutex
	cache map[models.BillingCycle]string
}

// NewStripeLinks expects stripe.Key to be set already.
func NewStripeLinks(monthlyPrice, yearlyPrice string, logger *zap.Logger) *StripeLinks {
	return &StripeLinks{
		prices: map[models.BillingCycle]string{
			models.Monthly: monthlyPrice,
			models.Yearly:  yearlyPrice,
		},
		logger: logger,
		create: paymentlink.New,
		cache:  make(map[models.BillingCycle]string),
	}
}

func (s *StripeLinks) CheckoutURL(ctx context.Context, cycle models.BillingCycle) (string, error) {
	price, ok := s.prices[cycle]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCycle, cycle)
	}
	if price == "" {
		return "", fmt.Errorf("no stripe price configured for %s plan", cycle)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if url, ok := s.cache[cycle]; ok {
		return url, nil
	}

	params := &stripe.PaymentLinkParams{
		LineItems: []*stripe.PaymentLinkLineItemParams{
			{Price: stripe.String(price), Quantity: stripe.Int64(1)},
		},
	}
	params.Context = ctx
	params.AddMetadata("plan", string(cycle))

	link, err := s.create(params)
	if err != nil {
		s.logger.Error("Failed to create stripe payment link", zap.String("plan", string(cycle)), zap.Error(err))
		return "", fmt.Errorf("failed to create payment link: %w", err)
	}
	s.cache[cycle] = link.URL
	s.logger.Info("Stripe payment link created", zap.String("plan", string(cycle)), zap.String("id", link.ID))
	return link.URL, nil
}
