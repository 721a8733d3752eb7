package registration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tradelink/models"
	"tradelink/services/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const onePixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

var registeredAt = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

type fakeCommitter struct {
	mu    sync.Mutex
	added []models.Specialist
	err   error
}

func (f *fakeCommitter) AddSpecialist(_ context.Context, categoryID string, rec models.Specialist) (models.DirectoryState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	rec.CategoryID = categoryID
	f.added = append(f.added, rec)
	return models.DirectoryState{categoryID: f.added}, nil
}

func (f *fakeCommitter) records() []models.Specialist {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Specialist(nil), f.added...)
}

type fakeScheduler struct {
	mu  sync.Mutex
	ids []string
	at  []time.Time
}

func (f *fakeScheduler) ScheduleExpiry(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, id)
	f.at = append(f.at, at)
	return nil
}

func testConfig(processing, success time.Duration) Config {
	return Config{
		ProcessingDelay: processing,
		SuccessDelay:    success,
		Clock:           func() time.Time { return registeredAt },
		Links:           payment.StaticLinks{Monthly: "https://pay.example/monthly", Yearly: "https://pay.example/yearly"},
	}
}

func validDetails() Details {
	return Details{
		Name:        "Grace Okafor",
		CompanyName: "Okafor Electric",
		Specialty:   "Panel upgrades",
		Phone:       "+1 555 010 2030",
		Email:       "grace@okafor.example",
		Location:    "Denver, CO",
	}
}

func stepIs(w *Wizard, want Step) func() bool {
	return func() bool { return w.Snapshot().Step == want }
}

func TestWizardMonthlyCommit(t *testing.T) {
	store := &fakeCommitter{}
	sched := &fakeScheduler{}
	cfg := testConfig(10*time.Millisecond, time.Hour)
	cfg.Expiry = sched
	w := NewWizard(store, cfg)
	defer w.Close()

	require.NoError(t, w.Open("electrical"))
	require.NoError(t, w.SubmitDetails(validDetails(), models.Monthly))
	url, err := w.StartPayment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/monthly", url)

	require.Eventually(t, stepIs(w, StepSuccess), time.Second, 5*time.Millisecond)

	recs := store.records()
	require.Len(t, recs, 1)
	rec := recs[0]
	wantExpiry := registeredAt.Add(30 * 24 * time.Hour)
	assert.Equal(t, "electrical", rec.CategoryID)
	assert.Equal(t, "Grace Okafor", rec.Name)
	assert.Equal(t, 5.0, rec.Rating)
	assert.Equal(t, 0, rec.Reviews)
	assert.Equal(t, models.Available, rec.Availability)
	assert.True(t, rec.IsVerified)
	assert.True(t, rec.IsSubscriptionActive)
	require.NotNil(t, rec.SubscriptionExpiry)
	assert.True(t, rec.SubscriptionExpiry.Equal(wantExpiry))
	assert.Equal(t, models.IconImage("electrical"), rec.Image)
	assert.Empty(t, rec.Comments)

	snap := w.Snapshot()
	assert.Equal(t, rec.ID, snap.SpecialistID)
	require.NotNil(t, snap.SubscriptionExpiry)
	assert.True(t, snap.SubscriptionExpiry.Equal(wantExpiry))

	sched.mu.Lock()
	assert.Equal(t, []string{rec.ID}, sched.ids)
	assert.True(t, sched.at[0].Equal(wantExpiry))
	sched.mu.Unlock()
}

func TestWizardYearlyCommitWithUploadedImage(t *testing.T) {
	store := &fakeCommitter{}
	w := NewWizard(store, testConfig(5*time.Millisecond, time.Hour))
	defer w.Close()

	d := validDetails()
	d.Image = onePixelPNG
	require.NoError(t, w.Open("carpentry"))
	require.NoError(t, w.SubmitDetails(d, models.Yearly))
	url, err := w.StartPayment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/yearly", url)

	require.Eventually(t, stepIs(w, StepSuccess), time.Second, 5*time.Millisecond)
	rec := store.records()[0]
	assert.True(t, rec.SubscriptionExpiry.Equal(registeredAt.Add(365*24*time.Hour)))
	assert.Equal(t, models.UploadedImage(onePixelPNG), rec.Image)
}

func TestWizardClosesAfterSuccess(t *testing.T) {
	store := &fakeCommitter{}
	w := NewWizard(store, testConfig(5*time.Millisecond, 5*time.Millisecond))
	defer w.Close()

	require.NoError(t, w.Open("auto"))
	require.NoError(t, w.SubmitDetails(validDetails(), models.Monthly))
	_, err := w.StartPayment(context.Background())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(store.records()) == 1 && w.Snapshot().Step == StepClosed
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, State{Step: StepClosed}, w.Snapshot(), "fields are cleared")
}

func TestWizardCloseDuringProcessingAbortsCommit(t *testing.T) {
	store := &fakeCommitter{}
	w := NewWizard(store, testConfig(50*time.Millisecond, time.Hour))

	require.NoError(t, w.Open("plumbing"))
	require.NoError(t, w.SubmitDetails(validDetails(), models.Monthly))
	_, err := w.StartPayment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StepProcessing, w.Snapshot().Step)

	w.Close()
	assert.Equal(t, StepClosed, w.Snapshot().Step)
	assert.Never(t, func() bool { return len(store.records()) > 0 }, 150*time.Millisecond, 10*time.Millisecond)
}

func TestWizardReopenResets(t *testing.T) {
	store := &fakeCommitter{}
	w := NewWizard(store, testConfig(50*time.Millisecond, time.Hour))
	defer w.Close()

	require.NoError(t, w.Open("plumbing"))
	require.NoError(t, w.SubmitDetails(validDetails(), models.Monthly))
	_, err := w.StartPayment(context.Background())
	require.NoError(t, err)

	require.NoError(t, w.Open("auto"))
	assert.Equal(t, State{Step: StepDetails, CategoryID: "auto"}, w.Snapshot())
	assert.Never(t, func() bool { return len(store.records()) > 0 }, 150*time.Millisecond, 10*time.Millisecond)
}

func TestWizardCommitFailureReturnsToPayment(t *testing.T) {
	store := &fakeCommitter{err: errors.New("storage offline")}
	w := NewWizard(store, testConfig(5*time.Millisecond, time.Hour))
	defer w.Close()

	require.NoError(t, w.Open("auto"))
	require.NoError(t, w.SubmitDetails(validDetails(), models.Monthly))
	_, err := w.StartPayment(context.Background())
	require.NoError(t, err)

	require.Eventually(t, stepIs(w, StepPayment), time.Second, 5*time.Millisecond)
	snap := w.Snapshot()
	assert.Contains(t, snap.LastError, "storage offline")
	assert.Equal(t, "Grace Okafor", snap.Details.Name)
}

func TestWizardBackKeepsDetails(t *testing.T) {
	w := NewWizard(&fakeCommitter{}, testConfig(time.Hour, time.Hour))
	defer w.Close()

	require.NoError(t, w.Open("auto"))
	require.NoError(t, w.SubmitDetails(validDetails(), models.Yearly))
	require.NoError(t, w.Back())

	snap := w.Snapshot()
	assert.Equal(t, StepDetails, snap.Step)
	assert.Equal(t, validDetails(), snap.Details)
	assert.Equal(t, models.Yearly, snap.Cycle)
}

func TestWizardInvalidTransitions(t *testing.T) {
	w := NewWizard(&fakeCommitter{}, testConfig(time.Hour, time.Hour))
	defer w.Close()

	assert.ErrorIs(t, w.SubmitDetails(validDetails(), models.Monthly), ErrInvalidTransition)
	assert.ErrorIs(t, w.Open("roofing"), ErrUnknownCategory)

	require.NoError(t, w.Open("auto"))
	assert.ErrorIs(t, w.Back(), ErrInvalidTransition)
	_, err := w.StartPayment(context.Background())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, w.SubmitDetails(validDetails(), "weekly"), ErrInvalidCycle)
}

func TestWizardValidation(t *testing.T) {
	cases := []struct {
		name   string
		edit   func(*Details)
		fields []string
	}{
		{"empty form", func(d *Details) { *d = Details{} }, []string{"name", "companyName", "specialty", "phone", "email", "location"}},
		{"blank name", func(d *Details) { d.Name = "   " }, []string{"name"}},
		{"bad email", func(d *Details) { d.Email = "grace-at-okafor" }, []string{"email"}},
		{"not a data uri", func(d *Details) { d.Image = "https://example.com/me.png" }, []string{"image"}},
		{"text upload", func(d *Details) { d.Image = "data:text/plain;base64,aGVsbG8gd29ybGQ=" }, []string{"image"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWizard(&fakeCommitter{}, testConfig(time.Hour, time.Hour))
			defer w.Close()
			require.NoError(t, w.Open("auto"))

			d := validDetails()
			tc.edit(&d)
			err := w.SubmitDetails(d, models.Monthly)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.ElementsMatch(t, tc.fields, verr.Fields)
			assert.Equal(t, StepDetails, w.Snapshot().Step)
		})
	}
}

func TestManagerSessions(t *testing.T) {
	store := &fakeCommitter{}
	m := NewManager(store, testConfig(time.Hour, time.Hour))
	defer m.Shutdown()

	sid, state, err := m.Open("", "plumbing")
	require.NoError(t, err)
	assert.NotEmpty(t, sid)
	assert.Equal(t, StepDetails, state.Step)

	w, err := m.Get(sid)
	require.NoError(t, err)
	require.NoError(t, w.SubmitDetails(validDetails(), models.Monthly))

	again, state, err := m.Open(sid, "auto")
	require.NoError(t, err)
	assert.Equal(t, sid, again)
	assert.Equal(t, State{Step: StepDetails, CategoryID: "auto"}, state)

	other, _, err := m.Open("", "auto")
	require.NoError(t, err)
	assert.NotEqual(t, sid, other)

	_, _, err = m.Open(sid, "roofing")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	require.NoError(t, m.Close(sid))
	_, err = m.Get(sid)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Close(sid), ErrSessionNotFound)
}

func TestManagerForgetsSessionAfterAutoClose(t *testing.T) {
	store := &fakeCommitter{}
	m := NewManager(store, testConfig(5*time.Millisecond, 5*time.Millisecond))
	defer m.Shutdown()

	sid, _, err := m.Open("", "plumbing")
	require.NoError(t, err)
	w, err := m.Get(sid)
	require.NoError(t, err)
	require.NoError(t, w.SubmitDetails(validDetails(), models.Monthly))
	_, err = w.StartPayment(context.Background())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
	assert.Len(t, store.records(), 1)
	_, err = m.Get(sid)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerExpiresIdleSessions(t *testing.T) {
	cfg := testConfig(time.Hour, time.Hour)
	cfg.SessionTTL = time.Minute
	m := NewManager(&fakeCommitter{}, cfg)
	defer m.Shutdown()

	for i := 0; i < 100; i++ {
		_, _, err := m.Open("", "plumbing")
		require.NoError(t, err)
	}
	busy, _, err := m.Open("", "auto")
	require.NoError(t, err)
	w, err := m.Get(busy)
	require.NoError(t, err)
	require.NoError(t, w.SubmitDetails(validDetails(), models.Monthly))
	_, err = w.StartPayment(context.Background())
	require.NoError(t, err)
	require.Equal(t, 101, m.Len())

	assert.Equal(t, 0, m.ExpireIdle(registeredAt.Add(30*time.Second)), "nothing is idle yet")
	assert.Equal(t, 100, m.ExpireIdle(registeredAt.Add(time.Minute)))
	assert.Equal(t, 1, m.Len(), "a session mid-commit is kept")
	_, err = m.Get(busy)
	assert.NoError(t, err)
}
