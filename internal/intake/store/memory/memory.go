// Package memory provides the in-memory client store. It favors clarity over
// performance and backs unit tests and local development.
package memory

import (
	"context"
	"sync"

	"intake/internal/intake/models"
	id "intake/pkg/domain"
	"intake/pkg/platform/sentinel"
	"intake/pkg/requestcontext"
)

// Store keeps client records in a map guarded by a RWMutex. Reads return deep
// copies so callers never alias store-held state; Execute holds the write
// lock across validate and mutate.
type Store struct {
	mu      sync.RWMutex
	records map[id.ClientID]*models.ClientRecord
	seq     int64
}

func New() *Store {
	return &Store{records: make(map[id.ClientID]*models.ClientRecord)}
}

func (s *Store) Create(ctx context.Context, record *models.ClientRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.ID]; exists {
		return sentinel.ErrConflict
	}
	now := requestcontext.Now(ctx)
	record.Version = 1
	record.CreatedAt = now
	record.UpdatedAt = now
	s.records[record.ID] = record.Clone()
	return nil
}

func (s *Store) FindByID(_ context.Context, clientID id.ClientID) (*models.ClientRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[clientID]; ok {
		return record.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) Execute(ctx context.Context, clientID id.ClientID,
	validate func(*models.ClientRecord) error,
	mutate func(*models.ClientRecord)) (*models.ClientRecord, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[clientID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	working := record.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	working.Version = record.Version + 1
	working.UpdatedAt = requestcontext.Now(ctx)

	s.records[clientID] = working
	return working.Clone(), nil
}

func (s *Store) NextSequence(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq, nil
}

func (s *Store) Health(context.Context) error {
	return nil
}
