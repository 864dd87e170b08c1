// Package universe owns the per-security records: storage, typed lookup,
// windowed retrieval, ingestion and persistence.
package universe

import (
	"errors"
	"fmt"
	"sort"

	"github.com/guyc74/stocks/internal/domain"
)

// ErrNotFound is returned when no record exists for an id
var ErrNotFound = errors.New("security not found")

// Store holds one Record per security id.
// It is not safe for concurrent mutation; a run owns its store.
type Store struct {
	records map[domain.SecurityID]*Record
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{records: make(map[domain.SecurityID]*Record)}
}

// Len returns the number of records
func (s *Store) Len() int { return len(s.records) }

// Get returns the record for the id or ErrNotFound
func (s *Store) Get(id domain.SecurityID) (*Record, error) {
	r, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return r, nil
}

// GetOrCreate returns the record for the id, creating an empty one if needed
func (s *Store) GetOrCreate(id domain.SecurityID) *Record {
	r, ok := s.records[id]
	if !ok {
		r = NewRecord(id)
		s.records[id] = r
	}
	return r
}

// Put stores the record, replacing any record with the same id
func (s *Store) Put(r *Record) {
	s.records[r.ID()] = r
}

// IDs returns all ids in ascending order
func (s *Store) IDs() []domain.SecurityID {
	ids := make([]domain.SecurityID, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// All returns every record in id order
func (s *Store) All() []*Record {
	ids := s.IDs()
	out := make([]*Record, len(ids))
	for i, id := range ids {
		out[i] = s.records[id]
	}
	return out
}

// Active returns the records not marked skip, in id order
func (s *Store) Active() []*Record {
	var out []*Record
	for _, r := range s.All() {
		if !r.Skip() {
			out = append(out, r)
		}
	}
	return out
}

// Attribute returns the value of a flat or series attribute of a record
func (s *Store) Attribute(id domain.SecurityID, k Key) (Value, bool) {
	r, ok := s.records[id]
	if !ok {
		return nil, false
	}
	return r.Attribute(k)
}

// SetAttribute stores a value on the record, creating the record if needed
func (s *Store) SetAttribute(id domain.SecurityID, k Key, v Value) error {
	return s.GetOrCreate(id).SetAttribute(k, v)
}

// SetSkip sets the skip marker of an existing record
func (s *Store) SetSkip(id domain.SecurityID, skip bool) error {
	r, err := s.Get(id)
	if err != nil {
		return err
	}
	r.SetSkip(skip)
	return nil
}
