package directory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"tradelink/database/kv"
	"tradelink/models"
	"tradelink/services/review"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, backend kv.Store, strict bool) *Store {
	t.Helper()
	return NewStore(context.Background(), backend, zaptest.NewLogger(t), Options{
		Key:            "test:directory",
		StrictNotFound: strict,
		Clock:          func() time.Time { return fixedNow },
	})
}

// failingKV accepts reads but can be told to reject writes.
type failingKV struct {
	*kv.Memory
	failWrites bool
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if f.failWrites {
		return errors.New("disk full")
	}
	return f.Memory.Set(ctx, key, value)
}

func TestLoadFallsBackToSeed(t *testing.T) {
	cases := map[string]*string{
		"missing":    nil,
		"not json":   strPtr("not json"),
		"array":      strPtr(`[1,2,3]`),
		"null":       strPtr(`null`),
		"wrong type": strPtr(`{"plumbing": 5}`),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			mem := kv.NewMemory()
			if raw != nil {
				require.NoError(t, mem.Set(context.Background(), "test:directory", *raw))
			}
			s := newTestStore(t, mem, false)
			if diff := cmp.Diff(Seed(), s.Snapshot()); diff != "" {
				t.Fatalf("expected seed data (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := newTestStore(t, mem, false)

	expiry := fixedNow.Add(30 * 24 * time.Hour)
	state := Seed()
	state["plumbing"][0].Comments = []models.ReviewComment{{ID: "c1", User: "Jo", Rating: 4, Comment: "Quick", Date: "2026-04-30"}}
	state["electrical"][0].Image = models.UploadedImage("data:image/png;base64,iVBORw0KGgo=")
	state["electrical"][0].SubscriptionExpiry = &expiry
	state["electrical"][0].IsSubscriptionActive = true
	require.NoError(t, s.Save(ctx, state))

	reloaded := newTestStore(t, mem, false).Snapshot()
	if diff := cmp.Diff(state, reloaded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestAddSpecialistPrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := newTestStore(t, mem, false)
	seeded := len(Seed()["electrical"])

	_, err := s.AddSpecialist(ctx, "plumbing", models.Specialist{ID: "new-1", Name: "Nia"})
	require.NoError(t, err)
	state, err := s.AddSpecialist(ctx, "electrical", models.Specialist{Name: "Ola", CategoryID: "auto"})
	require.NoError(t, err)

	require.Len(t, state["plumbing"], 2)
	assert.Equal(t, "new-1", state["plumbing"][0].ID, "newest first")
	assert.Equal(t, "seed-plumbing-1", state["plumbing"][1].ID)
	require.Len(t, state["electrical"], seeded+1)
	assert.NotEmpty(t, state["electrical"][0].ID)
	assert.Equal(t, "Ola", state["electrical"][0].Name)
	assert.Equal(t, "electrical", state["electrical"][0].CategoryID)

	raw, err := mem.Get(ctx, "test:directory")
	require.NoError(t, err)
	var stored models.DirectoryState
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Len(t, stored["plumbing"], 2)
	assert.Len(t, stored["electrical"], seeded+1)

	_, err = s.AddSpecialist(ctx, "auto", models.Specialist{ID: "new-1"})
	assert.Error(t, err, "duplicate ids are rejected")
}

func TestAddSpecialistRejectsUnknownCategory(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := newTestStore(t, mem, false)
	before := s.Snapshot()

	_, err := s.AddSpecialist(ctx, "roofing", models.Specialist{Name: "Ola"})
	assert.ErrorIs(t, err, ErrUnknownCategory)

	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Fatalf("state changed (-before +after):\n%s", diff)
	}
	_, err = mem.Get(ctx, "test:directory")
	assert.ErrorIs(t, err, kv.ErrNotFound, "nothing is persisted")
}

func TestUpdateSpecialistMergesFields(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemory(), false)

	phone := "+1 555 000 0000"
	busy := models.Busy
	rec, err := s.UpdateSpecialist(ctx, "seed-plumbing-1", Patch{Phone: &phone, Availability: &busy})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, phone, rec.Phone)
	assert.Equal(t, models.Busy, rec.Availability)
	assert.Equal(t, "David Chen", rec.Name, "unset fields are untouched")
	assert.Equal(t, 4.9, rec.Rating)
}

func TestUpdateSpecialistLeavesReviewDataAlone(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemory(), false)

	_, err := s.ApplyReview(ctx, "seed-plumbing-1", review.Input{Rating: 5, Reviewer: "Jo"})
	require.NoError(t, err)

	var patch Patch
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Dave Chen","rating":1,"reviews":-1,"comments":[]}`), &patch))
	rec, err := s.UpdateSpecialist(ctx, "seed-plumbing-1", patch)
	require.NoError(t, err)
	assert.Equal(t, "Dave Chen", rec.Name)
	assert.Equal(t, 4.9, rec.Rating)
	assert.Equal(t, 211, rec.Reviews)
	assert.Len(t, rec.Comments, 1)

	rec, err = s.ApplyReview(ctx, "seed-plumbing-1", review.Input{Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, 212, rec.Reviews)
}

func TestUnknownIDIsSilentNoOp(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemory(), false)
	before := s.Snapshot()

	name := "Ghost"
	rec, err := s.UpdateSpecialist(ctx, "nope", Patch{Name: &name})
	assert.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = s.ApplyReview(ctx, "nope", review.Input{Rating: 5})
	assert.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = s.ToggleAvailability(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, rec)

	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Fatalf("state changed (-before +after):\n%s", diff)
	}
}

func TestStrictModeReportsNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemory(), true)

	_, err := s.ApplyReview(ctx, "nope", review.Input{Rating: 3})
	assert.ErrorIs(t, err, ErrSpecialistNotFound)
	_, err = s.Get("nope")
	assert.ErrorIs(t, err, ErrSpecialistNotFound)
}

func TestApplyReviewOnSeededPlumber(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := newTestStore(t, mem, false)

	rec, err := s.ApplyReview(ctx, "seed-plumbing-1", review.Input{Rating: 5, Comment: "Fixed it fast", Reviewer: "Jo"})
	require.NoError(t, err)
	assert.Equal(t, 4.9, rec.Rating)
	assert.Equal(t, 211, rec.Reviews)
	require.Len(t, rec.Comments, 1)
	assert.Equal(t, "Jo", rec.Comments[0].User)
	assert.Equal(t, "2026-05-01", rec.Comments[0].Date)

	reloaded := newTestStore(t, mem, false)
	got, err := reloaded.Get("seed-plumbing-1")
	require.NoError(t, err)
	assert.Equal(t, 211, got.Reviews)
	assert.Len(t, got.Comments, 1)

	_, err = s.ApplyReview(ctx, "seed-plumbing-1", review.Input{Rating: 9})
	assert.ErrorIs(t, err, review.ErrInvalidRating)
}

func TestToggleAvailabilityCycles(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemory(), false)

	want := []models.Availability{models.Busy, models.Offline, models.Available}
	for _, w := range want {
		rec, err := s.ToggleAvailability(ctx, "seed-plumbing-1")
		require.NoError(t, err)
		assert.Equal(t, w, rec.Availability)
	}
}

func TestFailedPersistRollsBack(t *testing.T) {
	ctx := context.Background()
	backend := &failingKV{Memory: kv.NewMemory()}
	s := newTestStore(t, backend, false)
	before := s.Snapshot()

	backend.failWrites = true
	_, err := s.ToggleAvailability(ctx, "seed-plumbing-1")
	assert.Error(t, err)
	_, err = s.AddSpecialist(ctx, "auto", models.Specialist{Name: "Ola"})
	assert.Error(t, err)

	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Fatalf("failed writes leaked into memory (-before +after):\n%s", diff)
	}
}

func TestExpireSubscriptions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, kv.NewMemory(), false)

	past := fixedNow.Add(-time.Hour)
	future := fixedNow.Add(time.Hour)
	active := true
	_, err := s.UpdateSpecialist(ctx, "seed-auto-1", Patch{IsSubscriptionActive: &active, SubscriptionExpiry: &past})
	require.NoError(t, err)
	_, err = s.UpdateSpecialist(ctx, "seed-auto-2", Patch{IsSubscriptionActive: &active, SubscriptionExpiry: &future})
	require.NoError(t, err)

	n, err := s.ExpireSubscriptions(ctx, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	lapsed, _ := s.Get("seed-auto-1")
	assert.False(t, lapsed.IsSubscriptionActive)
	running, _ := s.Get("seed-auto-2")
	assert.True(t, running.IsSubscriptionActive)

	rec, err := s.ExpireSubscription(ctx, "seed-auto-2", future)
	require.NoError(t, err)
	assert.False(t, rec.IsSubscriptionActive)
}

func TestListReturnsCopies(t *testing.T) {
	s := newTestStore(t, kv.NewMemory(), false)
	list := s.List("plumbing")
	require.Len(t, list, 1)
	list[0].Name = "changed"

	again := s.List("plumbing")
	assert.Equal(t, "David Chen", again[0].Name)
	assert.Empty(t, s.List("unknown"))
}

func strPtr(s string) *string { return &s }
