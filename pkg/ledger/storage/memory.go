package storage

import (
	"context"
	"sort"
	"sync"

	"hydroforce/forcing/pkg/ledger"
)

// MemoryStorage implements ledger.Storage in memory. Records are lost when
// the process exits.
type MemoryStorage struct {
	records map[string]*ledger.Record
	mu      sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory ledger.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[string]*ledger.Record)}
}

// Store keeps a copy of record.
func (s *MemoryStorage) Store(_ context.Context, record *ledger.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recordCopy := *record
	s.records[record.ID] = &recordCopy
	return nil
}

// Query returns copies of matching records, sorted and paginated.
func (s *MemoryStorage) Query(_ context.Context, query *ledger.Query) ([]*ledger.Record, error) {
	if err := ledger.ValidateQuery(query); err != nil {
		return nil, err
	}

	s.mu.RLock()
	results := []*ledger.Record{}
	for _, record := range s.records {
		if query.Matches(record) {
			recordCopy := *record
			results = append(results, &recordCopy)
		}
	}
	s.mu.RUnlock()

	asc := query.Ascending()
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if !a.RecordedAt.Equal(b.RecordedAt) {
			return a.RecordedAt.Before(b.RecordedAt) == asc
		}
		return (a.ID < b.ID) == asc
	})

	start := query.Offset
	if start > len(results) {
		return []*ledger.Record{}, nil
	}
	end := start + query.EffectiveLimit()
	if end > len(results) {
		end = len(results)
	}
	return results[start:end], nil
}

// Count returns the number of matching records.
func (s *MemoryStorage) Count(_ context.Context, query *ledger.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, record := range s.records {
		if query == nil || query.Matches(record) {
			count++
		}
	}
	return count, nil
}

// Delete removes matching records.
func (s *MemoryStorage) Delete(_ context.Context, query *ledger.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for id, record := range s.records {
		if query == nil || query.Matches(record) {
			delete(s.records, id)
			count++
		}
	}
	return count, nil
}

// Ping always succeeds.
func (s *MemoryStorage) Ping(context.Context) error { return nil }

// Close discards every record.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*ledger.Record)
	return nil
}
