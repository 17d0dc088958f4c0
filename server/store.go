package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zeu5/gridnav/sim"
)

var ErrNotFound = errors.New("server: result not found")

// Record is a stored simulation run.
type Record struct {
	ID        uuid.UUID   `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Config    sim.Config  `json:"config"`
	Result    *sim.Result `json:"result"`
}

// ResultStore keeps simulation records for later retrieval.
type ResultStore interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id uuid.UUID) (*Record, error)
	Ping(ctx context.Context) error
}

// MemoryStore is a process-local ResultStore. Records never expire.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Record
}

var _ ResultStore = &MemoryStore{}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[uuid.UUID]Record)}
}

func (m *MemoryStore) Save(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = *rec
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
