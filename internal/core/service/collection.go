package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/core/ports"
	"github.com/lottopool/lottopool/internal/metrics"
)

// CollectionOptions describes one reconciled collection.
type CollectionOptions[T any] struct {
	// Name is the remote collection name; it also labels logs and metrics.
	Name string
	// LocalKey is the local store slot holding records not yet confirmed remotely.
	LocalKey string
	// IDPrefix qualifies ids synthesized for local-only records: "<prefix>_<millis>".
	IDPrefix string
	Sort     ports.Sort
	// LocalDefaults fills in what the remote store would have set on create.
	LocalDefaults func(record T, now time.Time) T
}

// Collection merges a remote collection with the local-only records queued
// while the remote store was unreachable. Callers get the same record shape
// whichever side served the request.
type Collection[T domain.Entity[T]] struct {
	remote ports.RemoteCollection[T]
	local  ports.LocalStore
	opts   CollectionOptions[T]
	now    func() time.Time
	log    zerolog.Logger
}

func NewCollection[T domain.Entity[T]](remote ports.RemoteCollection[T], local ports.LocalStore, opts CollectionOptions[T], log zerolog.Logger) *Collection[T] {
	return &Collection[T]{
		remote: remote,
		local:  local,
		opts:   opts,
		now:    time.Now,
		log:    log.With().Str("collection", opts.Name).Logger(),
	}
}

// GetList returns the remote records in remote order followed by the local
// records whose id the remote store does not know, in local order. When the
// remote store fails, the local collection is returned as is.
func (c *Collection[T]) GetList(ctx context.Context) ([]T, error) {
	remote, err := c.remote.List(ctx, c.opts.Sort)
	if err != nil {
		c.fallback("list", err)
		return c.localRecords(ctx)
	}

	local, err := c.localRecords(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("local records unreadable, serving remote records only")
		return remote, nil
	}

	seen := make(map[string]struct{}, len(remote)+len(local))
	merged := make([]T, 0, len(remote)+len(local))
	for _, r := range remote {
		seen[r.RecordID()] = struct{}{}
		merged = append(merged, r)
	}
	for _, r := range local {
		if _, dup := seen[r.RecordID()]; dup {
			continue
		}
		seen[r.RecordID()] = struct{}{}
		merged = append(merged, r)
	}
	return merged, nil
}

// Create stores record remotely, or locally under a synthesized id when the
// remote store fails.
func (c *Collection[T]) Create(ctx context.Context, record T) (T, error) {
	created, err := c.remote.Create(ctx, record)
	if err == nil {
		return created, nil
	}
	c.fallback("create", err)

	var zero T
	now := c.now()
	if c.opts.LocalDefaults != nil {
		record = c.opts.LocalDefaults(record, now)
	}

	// The id must be picked under the store's lock so two creates in the
	// same millisecond cannot both take it.
	_, err = c.local.AppendWith(ctx, c.opts.LocalKey, func(raws []json.RawMessage) (json.RawMessage, error) {
		record = record.WithID(c.localID(c.decodeRecords(raws), now))
		raw, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrLocalStore, err)
		}
		return raw, nil
	})
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", c.opts.Name, err)
	}

	metrics.LocalRecordsCreatedTotal.WithLabelValues(c.opts.Name).Inc()
	c.log.Info().Str("id", record.RecordID()).Msg("record created locally")
	return record, nil
}

// Update applies patch remotely, or to the local copy when the remote store
// fails. The caller cannot tell the two outcomes apart.
func (c *Collection[T]) Update(ctx context.Context, id string, patch domain.Patch) error {
	_, err := c.remote.Update(ctx, id, patch)
	if err == nil {
		return nil
	}
	c.fallback("update", err)

	if err := c.local.Merge(ctx, c.opts.LocalKey, id, patch); err != nil {
		return fmt.Errorf("update %s %q: %w", c.opts.Name, id, err)
	}
	return nil
}

// GetOne fetches a record by id. When the remote store fails, the local
// collection is scanned for the raw id or its prefix-qualified form.
func (c *Collection[T]) GetOne(ctx context.Context, id string) (T, error) {
	rec, err := c.remote.GetOne(ctx, id)
	if err == nil {
		return rec, nil
	}
	c.fallback("get_one", err)

	var zero T
	local, err := c.localRecords(ctx)
	if err != nil {
		return zero, fmt.Errorf("get %s %q: %w", c.opts.Name, id, err)
	}
	normalized := id
	if !strings.HasPrefix(id, c.opts.IDPrefix+"_") {
		normalized = c.opts.IDPrefix + "_" + id
	}
	for _, r := range local {
		if r.RecordID() == normalized || r.RecordID() == id {
			return r, nil
		}
	}
	return zero, fmt.Errorf("get %s %q: %w", c.opts.Name, id, domain.ErrNotFound)
}

// Subscribe forwards remote changes to fn until ctx is done. A backend that
// cannot subscribe is logged and otherwise ignored.
func (c *Collection[T]) Subscribe(ctx context.Context, fn func(domain.ChangeEvent[T])) {
	if err := c.remote.Subscribe(ctx, fn); err != nil {
		c.log.Warn().Err(err).Msg("change subscription unavailable")
	}
}

func (c *Collection[T]) localRecords(ctx context.Context) ([]T, error) {
	raws, err := c.local.Get(ctx, c.opts.LocalKey)
	if err != nil {
		return nil, err
	}
	return c.decodeRecords(raws), nil
}

func (c *Collection[T]) decodeRecords(raws []json.RawMessage) []T {
	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			c.log.Warn().Err(err).Int("index", i).Msg("skipping unreadable local record")
			continue
		}
		out = append(out, rec)
	}
	return out
}

// localID returns "<prefix>_<unix millis>", bumped past any id already in use.
func (c *Collection[T]) localID(existing []T, now time.Time) string {
	used := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		used[r.RecordID()] = struct{}{}
	}
	ms := now.UnixMilli()
	for {
		id := c.opts.IDPrefix + "_" + strconv.FormatInt(ms, 10)
		if _, taken := used[id]; !taken {
			return id
		}
		ms++
	}
}

func (c *Collection[T]) fallback(op string, err error) {
	kind := domain.RemoteKind(err)
	if kind == "" {
		kind = domain.KindUnavailable
	}
	metrics.RemoteFallbackTotal.WithLabelValues(c.opts.Name, op, string(kind)).Inc()
	c.log.Warn().Err(err).Str("op", op).Str("kind", string(kind)).Msg("remote store failed, using local store")
}
