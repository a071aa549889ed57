// Package localstore keeps the device-local side of the data: collections of
// records the remote store has not confirmed, invite drafts, the session
// snapshot and the cpf flags. Everything is stored as JSON strings in a
// ports.KeyValue.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/core/ports"
)

// Store implements ports.LocalStore. Every write reads the whole collection,
// changes it and writes it back while holding that key's lock. The locks are
// per Store, so writers in other processes sharing the KeyValue can still
// overwrite each other.
type Store struct {
	kv    ports.KeyValue
	locks sync.Map // key -> *sync.Mutex
}

func New(kv ports.KeyValue) *Store {
	return &Store{kv: kv}
}

// Get returns the collection under key, or an empty slice when the key is
// absent. A value that is not a JSON array is a local store failure.
func (s *Store) Get(ctx context.Context, key string) ([]json.RawMessage, error) {
	raw, ok, err := s.kv.GetItem(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %v", domain.ErrLocalStore, key, err)
	}
	if !ok || raw == "" {
		return []json.RawMessage{}, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: decode %q: %v", domain.ErrLocalStore, key, err)
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	return records, nil
}

func (s *Store) lock(key string) func() {
	mu, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// Append stores record at the front of the collection.
func (s *Store) Append(ctx context.Context, key string, record json.RawMessage) error {
	_, err := s.AppendWith(ctx, key, func([]json.RawMessage) (json.RawMessage, error) {
		return record, nil
	})
	return err
}

// AppendWith builds a record from the current collection and stores it at
// the front, with no other write to key in between. An error from build is
// returned as is and nothing is written.
func (s *Store) AppendWith(ctx context.Context, key string, build func(existing []json.RawMessage) (json.RawMessage, error)) (json.RawMessage, error) {
	unlock := s.lock(key)
	defer unlock()

	records, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	record, err := build(records)
	if err != nil {
		return nil, err
	}
	records = append([]json.RawMessage{record}, records...)
	if err := s.put(ctx, key, records); err != nil {
		return nil, err
	}
	return record, nil
}

// Merge shallow-merges patch into the record whose "id" equals id. When no
// record matches, the collection is rewritten unchanged.
func (s *Store) Merge(ctx context.Context, key, id string, patch domain.Patch) error {
	unlock := s.lock(key)
	defer unlock()

	records, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	fields, err := patch.Normalized()
	if err != nil {
		return fmt.Errorf("%w: encode patch: %v", domain.ErrLocalStore, err)
	}

	for i, raw := range records {
		var rec map[string]any
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		if recID, _ := rec["id"].(string); recID != id {
			continue
		}
		for k, v := range fields {
			rec[k] = v
		}
		merged, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("%w: encode %q: %v", domain.ErrLocalStore, id, err)
		}
		records[i] = merged
		break
	}
	return s.put(ctx, key, records)
}

func (s *Store) put(ctx context.Context, key string, records []json.RawMessage) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: encode %q: %v", domain.ErrLocalStore, key, err)
	}
	if err := s.kv.SetItem(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("%w: write %q: %v", domain.ErrLocalStore, key, err)
	}
	return nil
}
