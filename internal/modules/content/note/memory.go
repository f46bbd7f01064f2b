package note

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps records in process. Used by tests and brainctl demos.
type MemoryStore struct {
	mu      sync.RWMutex
	records []NoteRecord
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, rec *NoteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.CreatedAt
	}
	stored := *rec
	stored.Tags = append([]string(nil), rec.Tags...)
	s.records = append(s.records, stored)
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*NoteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.records {
		if s.records[i].ID == id {
			rec := s.records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) Search(_ context.Context, q Query) ([]NoteRecord, error) {
	terms := lowerTerms(q.Terms)
	if len(terms) == 0 {
		return []NoteRecord{}, nil
	}
	return s.collect(q.OwnerID, "", q.Limit, func(rec *NoteRecord) bool {
		return matches(rec, terms)
	}), nil
}

func (s *MemoryStore) List(_ context.Context, q ListQuery) ([]NoteRecord, error) {
	terms := lowerTerms([]string{q.Search})
	return s.collect(q.OwnerID, q.Kind, q.Limit, func(rec *NoteRecord) bool {
		return len(terms) == 0 || matches(rec, terms)
	}), nil
}

func (s *MemoryStore) collect(ownerID string, kind Kind, limit int, keep func(*NoteRecord) bool) []NoteRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]NoteRecord, 0)
	// walk backwards so equal timestamps keep newest-inserted first
	for i := len(s.records) - 1; i >= 0; i-- {
		rec := &s.records[i]
		if ownerID != "" && rec.OwnerID != ownerID {
			continue
		}
		if kind != "" && rec.Kind != kind {
			continue
		}
		if keep(rec) {
			cp := *rec
			cp.Tags = append([]string(nil), rec.Tags...)
			out = append(out, cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
