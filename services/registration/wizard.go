// Package registration drives the specialist sign-up flow:
// details, payment, processing, success.
package registration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tradelink/models"
	"tradelink/services/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Step string

const (
	StepClosed     Step = "closed"
	StepDetails    Step = "details"
	StepPayment    Step = "payment"
	StepProcessing Step = "processing"
	StepSuccess    Step = "success"
)

const (
	DefaultProcessingDelay = 2 * time.Second
	DefaultSuccessDelay    = 3 * time.Second
	DefaultSessionTTL      = 30 * time.Minute
)

// Committer receives the finished specialist. It is the only write the
// wizard performs.
type Committer interface {
	AddSpecialist(ctx context.Context, categoryID string, rec models.Specialist) (models.DirectoryState, error)
}

// ExpiryScheduler arranges for a subscription to be switched off at a
// point in time.
type ExpiryScheduler interface {
	ScheduleExpiry(ctx context.Context, specialistID string, at time.Time) error
}

type Config struct {
	ProcessingDelay time.Duration
	SuccessDelay    time.Duration
	Clock           func() time.Time
	Links           payment.LinkProvider
	Expiry          ExpiryScheduler // optional
	Logger          *zap.Logger

	// SessionTTL is how long a Manager keeps a session nobody touches.
	SessionTTL time.Duration
}

func (c Config) withDefaults() Config {
	if c.ProcessingDelay <= 0 {
		c.ProcessingDelay = DefaultProcessingDelay
	}
	if c.SuccessDelay <= 0 {
		c.SuccessDelay = DefaultSuccessDelay
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = DefaultSessionTTL
	}
	return c
}

// State is a render-ready copy of the wizard.
type State struct {
	Step               Step                `json:"step"`
	CategoryID         string              `json:"categoryId,omitempty"`
	Details            Details             `json:"details"`
	Cycle              models.BillingCycle `json:"billingCycle,omitempty"`
	CheckoutURL        string              `json:"checkoutUrl,omitempty"`
	SpecialistID       string              `json:"specialistId,omitempty"`
	SubscriptionExpiry *time.Time          `json:"subscriptionExpiry,omitempty"`
	LastError          string              `json:"lastError,omitempty"`
}

// Wizard holds at most one registration in flight. Opening it again
// abandons the previous one.
type Wizard struct {
	cfg   Config
	store Committer

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// onClosed runs after the flow closes the wizard by itself. Called
	// without w.mu held.
	onClosed func()
}

func NewWizard(store Committer, cfg Config) *Wizard {
	return &Wizard{
		cfg:   cfg.withDefaults(),
		store: store,
		state: State{Step: StepClosed},
	}
}

// Open starts a fresh registration for a category. Any in-flight flow is
// cancelled and the form is emptied.
func (w *Wizard) Open(categoryID string) error {
	if _, ok := models.LookupCategory(categoryID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, categoryID)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
	w.state = State{Step: StepDetails, CategoryID: categoryID}
	return nil
}

// SubmitDetails validates the profile form and moves on to payment.
func (w *Wizard) SubmitDetails(d Details, cycle models.BillingCycle) error {
	d = trimDetails(d)
	if err := validateDetails(d); err != nil {
		return err
	}
	if !cycle.Valid() {
		return ErrInvalidCycle
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.Step != StepDetails {
		return w.transitionErr(StepPayment)
	}
	w.state.Details = d
	w.state.Cycle = cycle
	w.state.LastError = ""
	w.state.Step = StepPayment
	return nil
}

// Back returns from payment to the details form, keeping what was entered.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.Step != StepPayment {
		return w.transitionErr(StepDetails)
	}
	w.state.Step = StepDetails
	return nil
}

// StartPayment hands back the hosted checkout URL and starts the processing
// timer. Completion of the checkout is never observed; the record is
// committed once the timer fires.
func (w *Wizard) StartPayment(ctx context.Context) (string, error) {
	w.mu.Lock()
	if w.state.Step != StepPayment {
		err := w.transitionErr(StepProcessing)
		w.mu.Unlock()
		return "", err
	}
	cycle := w.state.Cycle
	w.mu.Unlock()

	if w.cfg.Links == nil {
		return "", fmt.Errorf("no payment link provider configured")
	}
	url, err := w.cfg.Links.CheckoutURL(ctx, cycle)
	if err != nil {
		return "", err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	// The wizard may have been reset while the link was being fetched.
	if w.state.Step != StepPayment || w.state.Cycle != cycle {
		return "", w.transitionErr(StepProcessing)
	}
	w.state.CheckoutURL = url
	w.state.LastError = ""
	w.state.Step = StepProcessing

	flowCtx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.wg.Add(1)
	go w.run(flowCtx)
	return url, nil
}

// Close dismisses the wizard. A pending commit is abandoned.
func (w *Wizard) Close() {
	w.mu.Lock()
	w.stopLocked()
	w.state = State{Step: StepClosed}
	w.mu.Unlock()
	w.wg.Wait()
}

// Snapshot returns a copy of the current state.
func (w *Wizard) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.state
	if out.SubscriptionExpiry != nil {
		t := *out.SubscriptionExpiry
		out.SubscriptionExpiry = &t
	}
	return out
}

func (w *Wizard) stopLocked() {
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

func (w *Wizard) transitionErr(to Step) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, w.state.Step, to)
}

// run waits out the processing delay, commits, then waits out the success
// delay and closes. Every step re-checks ctx under the lock so a Close or
// Open that wins the lock first stops the flow.
func (w *Wizard) run(ctx context.Context) {
	defer w.wg.Done()

	if !sleep(ctx, w.cfg.ProcessingDelay) {
		return
	}

	w.mu.Lock()
	if ctx.Err() != nil {
		w.mu.Unlock()
		return
	}
	committed := w.commitLocked(ctx)
	w.mu.Unlock()
	if !committed {
		return
	}

	if !sleep(ctx, w.cfg.SuccessDelay) {
		return
	}

	w.mu.Lock()
	if ctx.Err() != nil {
		w.mu.Unlock()
		return
	}
	w.stopLocked()
	w.state = State{Step: StepClosed}
	w.mu.Unlock()

	if w.onClosed != nil {
		w.onClosed()
	}
}

func (w *Wizard) commitLocked(ctx context.Context) bool {
	now := w.cfg.Clock()
	expiry := w.state.Cycle.ExpiryFrom(now)
	rec := models.Specialist{
		ID:                   uuid.New().String(),
		Name:                 w.state.Details.Name,
		CategoryID:           w.state.CategoryID,
		CompanyName:          w.state.Details.CompanyName,
		Email:                w.state.Details.Email,
		Phone:                w.state.Details.Phone,
		Location:             w.state.Details.Location,
		Specialty:            w.state.Details.Specialty,
		Rating:               5.0,
		Reviews:              0,
		Availability:         models.Available,
		Image:                profileImage(w.state.Details, w.state.CategoryID),
		Comments:             []models.ReviewComment{},
		IsVerified:           true,
		IsSubscriptionActive: true,
		SubscriptionExpiry:   &expiry,
	}

	if _, err := w.store.AddSpecialist(ctx, w.state.CategoryID, rec); err != nil {
		w.cfg.Logger.Error("Failed to commit registration", zap.String("category", w.state.CategoryID), zap.Error(err))
		w.state.Step = StepPayment
		w.state.LastError = err.Error()
		w.stopLocked()
		return false
	}

	if w.cfg.Expiry != nil {
		if err := w.cfg.Expiry.ScheduleExpiry(ctx, rec.ID, expiry); err != nil {
			w.cfg.Logger.Warn("Failed to schedule subscription expiry", zap.String("id", rec.ID), zap.Error(err))
		}
	}

	w.cfg.Logger.Info("Specialist registered",
		zap.String("id", rec.ID),
		zap.String("category", rec.CategoryID),
		zap.String("plan", string(w.state.Cycle)),
		zap.Time("expires", expiry))

	w.state.Step = StepSuccess
	w.state.SpecialistID = rec.ID
	w.state.SubscriptionExpiry = &expiry
	return true
}

// sleep reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
