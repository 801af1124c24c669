package lead

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is a stored lead submission.
type Record struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Lead      Submission `json:"lead"`
}

// Repository defines the interface for lead storage.
type Repository interface {
	Create(ctx context.Context, sub *Submission) (*Record, error)
	GetByID(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context) ([]*Record, error)
}

// InMemoryRepository keeps leads in memory. The dev server uses it; the
// widget itself never persists anything.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*Record
	order   []string
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{records: make(map[string]*Record)}
}

// Create validates and stores a submission.
func (r *InMemoryRepository) Create(ctx context.Context, sub *Submission) (*Record, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	rec := &Record{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Lead:      *sub,
	}

	r.mu.Lock()
	r.records[rec.ID] = rec
	r.order = append(r.order, rec.ID)
	r.mu.Unlock()

	return rec, nil
}

// GetByID retrieves a stored lead by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

// List returns stored leads in insertion order.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Record, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.records[id])
	}
	return out, nil
}
