package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/core/ports"
	"github.com/lottopool/lottopool/internal/infrastructure/localstore"
)

var errOffline = &domain.RemoteError{Backend: "stub", Op: "any", Kind: domain.KindUnavailable, Err: errors.New("connection refused")}

// stubRemote is an in-memory remote collection that can be switched offline.
type stubRemote[T domain.Entity[T]] struct {
	mu      sync.Mutex
	records []T
	down    bool
	seq     int
	patches map[string][]domain.Patch
	apply   func(rec T, patch domain.Patch) T
}

func newStubRemote[T domain.Entity[T]](records ...T) *stubRemote[T] {
	return &stubRemote[T]{records: records, patches: map[string][]domain.Patch{}}
}

func (r *stubRemote[T]) setDown(down bool) {
	r.mu.Lock()
	r.down = down
	r.mu.Unlock()
}

func (r *stubRemote[T]) List(context.Context, ports.Sort) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.down {
		return nil, errOffline
	}
	return append([]T(nil), r.records...), nil
}

func (r *stubRemote[T]) GetOne(_ context.Context, id string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	if r.down {
		return zero, errOffline
	}
	for _, rec := range r.records {
		if rec.RecordID() == id {
			return rec, nil
		}
	}
	return zero, &domain.RemoteError{Backend: "stub", Op: "get_one", Kind: domain.KindNotFound}
}

func (r *stubRemote[T]) Create(_ context.Context, record T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	if r.down {
		return zero, errOffline
	}
	r.seq++
	record = record.WithID(fmt.Sprintf("remote-%d", r.seq))
	r.records = append([]T{record}, r.records...)
	return record, nil
}

func (r *stubRemote[T]) Update(_ context.Context, id string, patch domain.Patch) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	if r.down {
		return zero, errOffline
	}
	for i, rec := range r.records {
		if rec.RecordID() == id {
			r.patches[id] = append(r.patches[id], patch)
			if r.apply != nil {
				r.records[i] = r.apply(rec, patch)
			}
			return r.records[i], nil
		}
	}
	return zero, &domain.RemoteError{Backend: "stub", Op: "update", Kind: domain.KindNotFound}
}

func (r *stubRemote[T]) Subscribe(context.Context, func(domain.ChangeEvent[T])) error {
	return &domain.RemoteError{Backend: "stub", Op: "subscribe", Kind: domain.KindUnsupported}
}

func (r *stubRemote[T]) patchesFor(id string) []domain.Patch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.patches[id]
}

// brokenKV fails every operation.
type brokenKV struct{}

func (brokenKV) GetItem(context.Context, string) (string, bool, error) {
	return "", false, errors.New("quota exceeded")
}
func (brokenKV) SetItem(context.Context, string, string) error { return errors.New("quota exceeded") }
func (brokenKV) RemoveItem(context.Context, string) error      { return errors.New("quota exceeded") }
func (brokenKV) Ping(context.Context) error                    { return errors.New("quota exceeded") }

const testNamespace = "test"

var fixedNow = time.UnixMilli(1700000000000)

func newLocal() (*localstore.Memory, *localstore.Store) {
	kv := localstore.NewMemory()
	return kv, localstore.New(kv)
}

func frozen[T domain.Entity[T]](c *Collection[T]) *Collection[T] {
	c.now = func() time.Time { return fixedNow }
	return c
}

func nopLog() zerolog.Logger { return zerolog.Nop() }
