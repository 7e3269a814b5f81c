package store

import (
	"context"
	"errors"
	"sync"

	"github.com/MrSnakeDoc/aquatrack/internal/domain"
)

// DefaultKey names the single entry the record list is persisted under.
const DefaultKey = "aquariums"

// ErrCorruptState is wrapped by Load when the stored payload cannot be decoded.
var ErrCorruptState = errors.New("persisted state is corrupt")

// Persistence loads and saves full snapshots of the record list.
// A missing entry loads as an empty list.
type Persistence interface {
	Name() string
	Load(ctx context.Context) ([]domain.Aquarium, error)
	Save(ctx context.Context, records []domain.Aquarium) error
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MemoryPersistence keeps the snapshot in process memory.
type MemoryPersistence struct {
	mu      sync.Mutex
	records []domain.Aquarium
	saves   int
	failErr error
}

// NewMemoryPersistence returns an empty in-memory backend, optionally seeded.
func NewMemoryPersistence(seed ...domain.Aquarium) *MemoryPersistence {
	return &MemoryPersistence{records: cloneRecords(seed)}
}

func (m *MemoryPersistence) Name() string { return "memory" }

func (m *MemoryPersistence) Load(_ context.Context) ([]domain.Aquarium, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneRecords(m.records), nil
}

func (m *MemoryPersistence) Save(_ context.Context, records []domain.Aquarium) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.records = cloneRecords(records)
	m.saves++
	return nil
}

// Saves returns how many snapshots were written.
func (m *MemoryPersistence) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// FailWith makes every following Save return err (nil restores normal saves).
func (m *MemoryPersistence) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

func cloneRecords(in []domain.Aquarium) []domain.Aquarium {
	out := make([]domain.Aquarium, len(in))
	copy(out, in)
	return out
}
