// Package store holds the ordered list of aquariums and persists every change
// through a Persistence backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/aquatrack/internal/domain"
	"github.com/MrSnakeDoc/aquatrack/internal/logger"
)

var (
	ErrNotFound    = errors.New("aquarium not found")
	ErrDuplicateID = errors.New("aquarium id already exists")
)

// CorruptPolicy decides what Open does when the persisted payload is unreadable.
type CorruptPolicy string

const (
	CorruptEmpty CorruptPolicy = "empty"
	CorruptFail  CorruptPolicy = "fail"
)

// Store is the in-memory record list. Mutations are serialized and each one is
// saved before it becomes visible.
type Store struct {
	mu       sync.RWMutex
	records  []domain.Aquarium
	backend  Persistence
	now      func() time.Time
	newID    func() string
	log      logger.Logger
	policy   CorruptPolicy
	lastSave time.Time
	dropped  bool // last Reload discarded an unreadable payload
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces uuid minting.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger used for load warnings.
func WithLogger(log logger.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithCorruptPolicy sets how Open reacts to ErrCorruptState.
func WithCorruptPolicy(p CorruptPolicy) Option {
	return func(s *Store) { s.policy = p }
}

// New returns an empty store backed by p without loading anything.
func New(p Persistence, opts ...Option) *Store {
	s := &Store{
		backend: p,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
		log:     logger.Nop(),
		policy:  CorruptEmpty,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open returns a store populated from p.
func Open(ctx context.Context, p Persistence, opts ...Option) (*Store, error) {
	s := New(p, opts...)
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory list with what the backend holds. Every loaded
// record is normalized and duplicate or empty ids are re-minted, so stored
// data obeys the same rules as data written through Add.
func (s *Store) Reload(ctx context.Context) error {
	dropped := false
	records, err := s.backend.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrCorruptState) || s.policy == CorruptFail {
			return fmt.Errorf("failed to load aquariums from %s: %w", s.backend.Name(), err)
		}
		s.log.Warn("persisted aquariums are unreadable, starting empty",
			logger.String("backend", s.backend.Name()),
			logger.Error(err),
		)
		records = nil
		dropped = true
	}

	now := s.now()
	seen := make(map[string]struct{}, len(records))
	for i := range records {
		a := &records[i]
		if _, dup := seen[a.ID]; dup || a.ID == "" {
			fresh := s.newID()
			s.log.Warn("re-minting aquarium id on load",
				logger.String("backend", s.backend.Name()),
				logger.String("old_id", a.ID),
				logger.String("new_id", fresh),
				logger.String("name", a.Name),
			)
			a.ID = fresh
		}
		seen[a.ID] = struct{}{}
		a.Normalize(now)
	}

	s.mu.Lock()
	s.records = records
	s.dropped = dropped
	s.mu.Unlock()
	return nil
}

// DroppedCorrupt reports whether the last Reload started empty because the
// persisted payload could not be decoded. The payload is still in the backend.
func (s *Store) DroppedCorrupt() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dropped
}

// Backend returns the persistence the store writes to.
func (s *Store) Backend() Persistence { return s.backend }

// Add appends a new record. An empty id is replaced by a fresh uuid.
func (s *Store) Add(ctx context.Context, a domain.Aquarium) (domain.Aquarium, error) {
	if err := a.Validate(); err != nil {
		return domain.Aquarium{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = s.newID()
	}
	if s.indexOf(a.ID) >= 0 {
		return domain.Aquarium{}, fmt.Errorf("%w: %s", ErrDuplicateID, a.ID)
	}
	a.Normalize(s.now())

	next := make([]domain.Aquarium, len(s.records), len(s.records)+1)
	copy(next, s.records)
	next = append(next, a)

	if err := s.commit(ctx, next); err != nil {
		return domain.Aquarium{}, err
	}
	return a, nil
}

// Update replaces the record with the same id.
func (s *Store) Update(ctx context.Context, a domain.Aquarium) (domain.Aquarium, error) {
	if err := a.Validate(); err != nil {
		return domain.Aquarium{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(a.ID)
	if i < 0 {
		return domain.Aquarium{}, fmt.Errorf("%w: %s", ErrNotFound, a.ID)
	}
	a.Normalize(s.now())

	next := cloneRecords(s.records)
	next[i] = a

	if err := s.commit(ctx, next); err != nil {
		return domain.Aquarium{}, err
	}
	return a, nil
}

// Remove deletes the record with id. Unknown ids are ignored.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}

	next := make([]domain.Aquarium, 0, len(s.records)-1)
	next = append(next, s.records[:i]...)
	next = append(next, s.records[i+1:]...)

	return s.commit(ctx, next)
}

// MarkCleaned records a full cleaning now.
func (s *Store) MarkCleaned(ctx context.Context, id string) (domain.Aquarium, error) {
	return s.mutate(ctx, id, (*domain.Aquarium).MarkCleaned)
}

// MarkWaterChanged records a partial water change now.
func (s *Store) MarkWaterChanged(ctx context.Context, id string) (domain.Aquarium, error) {
	return s.mutate(ctx, id, (*domain.Aquarium).MarkWaterChanged)
}

func (s *Store) mutate(ctx context.Context, id string, fn func(*domain.Aquarium, time.Time)) (domain.Aquarium, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Aquarium{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next := cloneRecords(s.records)
	r := &next[i]
	r.ApplySchedule(r.CleaningFrequency, r.WaterChangeFrequency, r.WaterChangePercentage)
	fn(r, s.now())

	if err := s.commit(ctx, next); err != nil {
		return domain.Aquarium{}, err
	}
	return next[i], nil
}

// commit saves next and swaps it in. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []domain.Aquarium) error {
	if err := s.backend.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to save aquariums to %s: %w", s.backend.Name(), err)
	}
	s.records = next
	s.lastSave = s.now()
	return nil
}

// Get returns the record with id.
func (s *Store) Get(id string) (domain.Aquarium, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Aquarium{}, false
	}
	return s.records[i], true
}

// List returns a copy of all records in insertion order.
func (s *Store) List() []domain.Aquarium {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.records)
}

// Count returns the number of records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// LastSave returns when the last successful write happened.
func (s *Store) LastSave() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSave
}

// Now returns the store clock.
func (s *Store) Now() time.Time { return s.now() }

func (s *Store) indexOf(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}
