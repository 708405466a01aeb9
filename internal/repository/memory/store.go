package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mamadbah2/freightledger/internal/domain/models"
	"github.com/mamadbah2/freightledger/internal/repository"
)

// Store is an in-process record collection with live snapshots. It backs
// development runs and tests.
type Store struct {
	mu    sync.Mutex
	order []string
	items map[string]models.Record
	subs  map[*subscription]struct{}
	now   func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New builds an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		items: make(map[string]models.Record),
		subs:  make(map[*subscription]struct{}),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed inserts records as-is, keeping their ids and timestamps. Records
// without an id get one.
func (s *Store) Seed(records ...models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if _, exists := s.items[r.ID]; !exists {
			s.order = append(s.order, r.ID)
		}
		s.items[r.ID] = r
	}
	s.broadcastLocked()
}

// Create stores a new record and returns its id.
func (s *Store) Create(_ context.Context, fields models.RecordFields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	record := models.Record{
		ID:           uuid.NewString(),
		RecordFields: fields.Normalize(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.items[record.ID] = record
	s.order = append(s.order, record.ID)
	s.broadcastLocked()

	return record.ID, nil
}

// Update replaces the fields of an existing record.
func (s *Store) Update(_ context.Context, id string, fields models.RecordFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	existing.RecordFields = fields.Normalize()
	existing.UpdatedAt = s.now().UTC()
	s.items[id] = existing
	s.broadcastLocked()

	return nil
}

// Delete removes a record permanently.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.broadcastLocked()

	return nil
}

// Get returns a single record.
func (s *Store) Get(_ context.Context, id string) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.items[id]
	if !ok {
		return models.Record{}, repository.ErrNotFound
	}
	return record, nil
}

// List returns every record in insertion order.
func (s *Store) List(_ context.Context) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

// Subscribe opens a live feed. The current set is delivered immediately.
func (s *Store) Subscribe(ctx context.Context) (repository.Subscription, error) {
	sub := &subscription{
		store: s,
		ch:    make(chan []models.Record, 1),
		done:  make(chan struct{}),
	}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	repository.Latest(sub.ch, s.snapshotLocked())
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			_ = sub.Close()
		case <-sub.done:
		}
	}()

	return sub, nil
}

func (s *Store) snapshotLocked() []models.Record {
	out := make([]models.Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

func (s *Store) broadcastLocked() {
	if len(s.subs) == 0 {
		return
	}
	snapshot := s.snapshotLocked()
	for sub := range s.subs {
		repository.Latest(sub.ch, snapshot)
	}
}

type subscription struct {
	store *Store
	ch    chan []models.Record
	done  chan struct{}
	once  sync.Once
}

func (s *subscription) Snapshots() <-chan []models.Record { return s.ch }

func (s *subscription) Close() error {
	s.once.Do(func() {
		s.store.mu.Lock()
		delete(s.store.subs, s)
		close(s.ch)
		s.store.mu.Unlock()
		close(s.done)
	})
	return nil
}
