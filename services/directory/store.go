// Package directory owns the specialist directory and is the only
// component that reads or writes it in durable storage.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"tradelink/database/kv"
	"tradelink/models"
	"tradelink/services/review"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultKey = "tradelink:directory"

// Options configures a Store.
type Options struct {
	// Key is the storage key holding the serialized directory.
	Key string
	// StrictNotFound makes by-id operations on unknown ids return
	// ErrSpecialistNotFound instead of silently doing nothing.
	StrictNotFound bool
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Store holds the one in-memory DirectoryState. Every mutation is a
// read-modify-write of that state followed by a full overwrite in storage.
type Store struct {
	mu     sync.Mutex
	kv     kv.Store
	key    string
	strict bool
	now    func() time.Time
	logger *zap.Logger
	state  models.DirectoryState
}

// NewStore builds a Store and loads its state from backend.
func NewStore(ctx context.Context, backend kv.Store, logger *zap.Logger, opts Options) *Store {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		kv:     backend,
		key:    opts.Key,
		strict: opts.StrictNotFound,
		now:    opts.Clock,
		logger: logger,
	}
	s.Load(ctx)
	return s
}

// Load replaces the in-memory state with what storage holds. Missing,
// unreadable or malformed data falls back to the seed directory.
func (s *Store) Load(ctx context.Context) models.DirectoryState {
	state := s.read(ctx)
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return state.Clone()
}

func (s *Store) read(ctx context.Context) models.DirectoryState {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn("Failed to read directory, using seed data", zap.String("key", s.key), zap.Error(err))
		}
		return Seed()
	}

	var state models.DirectoryState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.logger.Warn("Stored directory is corrupt, using seed data", zap.String("key", s.key), zap.Error(err))
		return Seed()
	}
	if state == nil {
		s.logger.Warn("Stored directory is empty, using seed data", zap.String("key", s.key))
		return Seed()
	}
	return state
}

// Save overwrites both the in-memory and the stored directory with state.
func (s *Store) Save(ctx context.Context, state models.DirectoryState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := state.Clone()
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *Store) persist(ctx context.Context, state models.DirectoryState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode directory: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("failed to save directory: %w", err)
	}
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() models.DirectoryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// List returns a copy of the specialists in a category, newest first.
func (s *Store) List(categoryID string) []models.Specialist {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.state[categoryID]
	out := make([]models.Specialist, len(list))
	for i, rec := range list {
		out[i] = rec.Clone()
	}
	return out
}

// Get returns a copy of the specialist with the given id.
func (s *Store) Get(id string) (*models.Specialist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat, idx, ok := s.state.Locate(id)
	if !ok {
		return nil, s.notFound()
	}
	rec := s.state[cat][idx].Clone()
	return &rec, nil
}

// AddSpecialist prepends rec to its category, creating the category list if
// needed, and persists the directory. The category must be in the catalog.
func (s *Store) AddSpecialist(ctx context.Context, categoryID string, rec models.Specialist) (models.DirectoryState, error) {
	if _, ok := models.LookupCategory(categoryID); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, categoryID)
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.CategoryID = categoryID
	if rec.Comments == nil {
		rec.Comments = []models.ReviewComment{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, _, exists := s.state.Locate(rec.ID); exists {
		return nil, fmt.Errorf("specialist %s already exists", rec.ID)
	}

	prev, hadList := s.state[categoryID]
	next := make([]models.Specialist, 0, len(prev)+1)
	next = append(next, rec.Clone())
	next = append(next, prev...)
	s.state[categoryID] = next

	if err := s.persist(ctx, s.state); err != nil {
		if hadList {
			s.state[categoryID] = prev
		} else {
			delete(s.state, categoryID)
		}
		return nil, err
	}

	s.logger.Info("Specialist added", zap.String("id", rec.ID), zap.String("category", categoryID))
	return s.state.Clone(), nil
}

// UpdateSpecialist merges the set fields of patch into the specialist.
func (s *Store) UpdateSpecialist(ctx context.Context, id string, patch Patch) (*models.Specialist, error) {
	return s.mutate(ctx, id, func(rec *models.Specialist) error {
		patch.apply(rec)
		return nil
	})
}

// ApplyReview folds a rating into the specialist's average and prepends the
// comment, as a single persisted change.
func (s *Store) ApplyReview(ctx context.Context, id string, in review.Input) (*models.Specialist, error) {
	if in.Rating < review.MinRating || in.Rating > review.MaxRating {
		return nil, review.ErrInvalidRating
	}
	now := s.now()
	return s.mutate(ctx, id, func(rec *models.Specialist) error {
		updated, err := review.Apply(*rec, in, now)
		if err != nil {
			return err
		}
		*rec = updated
		return nil
	})
}

// ToggleAvailability advances the specialist to the next availability status.
func (s *Store) ToggleAvailability(ctx context.Context, id string) (*models.Specialist, error) {
	return s.mutate(ctx, id, func(rec *models.Specialist) error {
		rec.Availability = rec.Availability.Next()
		return nil
	})
}

// SetProfileImage replaces the specialist's profile image.
func (s *Store) SetProfileImage(ctx context.Context, id string, img models.ProfileImage) (*models.Specialist, error) {
	return s.mutate(ctx, id, func(rec *models.Specialist) error {
		rec.Image = img
		return nil
	})
}

// ExpireSubscription deactivates one specialist's subscription if its
// expiry is at or before now.
func (s *Store) ExpireSubscription(ctx context.Context, id string, now time.Time) (*models.Specialist, error) {
	return s.mutate(ctx, id, func(rec *models.Specialist) error {
		if subscriptionLapsed(*rec, now) {
			rec.IsSubscriptionActive = false
		}
		return nil
	})
}

// ExpireSubscriptions deactivates every lapsed subscription and reports how
// many were changed.
func (s *Store) ExpireSubscriptions(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state.Clone()
	expired := 0
	for cat, list := range s.state {
		for i := range list {
			if subscriptionLapsed(list[i], now) {
				s.state[cat][i].IsSubscriptionActive = false
				expired++
			}
		}
	}
	if expired == 0 {
		return 0, nil
	}
	if err := s.persist(ctx, s.state); err != nil {
		s.state = prev
		return 0, err
	}
	return expired, nil
}

func subscriptionLapsed(rec models.Specialist, now time.Time) bool {
	return rec.IsSubscriptionActive && rec.SubscriptionExpiry != nil && !rec.SubscriptionExpiry.After(now)
}

// mutate applies fn to the specialist with the given id and persists the
// directory. If persisting fails the change is rolled back.
func (s *Store) mutate(ctx context.Context, id string, fn func(*models.Specialist) error) (*models.Specialist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, idx, ok := s.state.Locate(id)
	if !ok {
		s.logger.Debug("Specialist not found", zap.String("id", id))
		return nil, s.notFound()
	}

	prev := s.state[cat][idx]
	next := prev.Clone()
	if err := fn(&next); err != nil {
		return nil, err
	}
	next.ID = prev.ID
	next.CategoryID = prev.CategoryID
	s.state[cat][idx] = next

	if err := s.persist(ctx, s.state); err != nil {
		s.state[cat][idx] = prev
		return nil, err
	}

	out := next.Clone()
	return &out, nil
}

func (s *Store) notFound() error {
	if s.strict {
		return ErrSpecialistNotFound
	}
	return nil
}
