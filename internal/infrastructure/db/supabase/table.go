package supabase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/supabase-community/postgrest-go"

	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/core/ports"
)

// Table is a ports.RemoteCollection over one PostgREST table. Ids and the
// "created" column are assigned by the database.
type Table[T any] struct {
	c    *Client
	name string
}

func NewTable[T any](c *Client, name string) *Table[T] {
	return &Table[T]{c: c, name: name}
}

// encodable reports a body the query builder would fail to marshal. The
// builder records such failures on the shared client, poisoning every later
// request, so they are caught here first.
func (t *Table[T]) encodable(op string, body any) error {
	if _, err := json.Marshal(body); err != nil {
		return &domain.RemoteError{Backend: backendName, Collection: t.name, Op: op, Kind: domain.KindRejected, Err: err}
	}
	return nil
}

func (t *Table[T]) exec(ctx context.Context, build func(q *postgrest.QueryBuilder) *postgrest.FilterBuilder) result {
	ctx, cancel := context.WithTimeout(ctx, t.c.timeout)
	defer cancel()
	return call(ctx, func() ([]byte, error) {
		data, _, err := build(t.c.rest.From(t.name)).Execute()
		return data, err
	})
}

func (t *Table[T]) List(ctx context.Context, sort ports.Sort) ([]T, error) {
	res := t.exec(ctx, func(q *postgrest.QueryBuilder) *postgrest.FilterBuilder {
		f := q.Select("*", "", false)
		if sort.Field != "" {
			f = f.Order(sort.Field, &postgrest.OrderOpts{Ascending: !sort.Descending})
		}
		return f
	})
	if err := res.err(t.name, "list"); err != nil {
		return nil, err
	}
	out := []T{}
	if err := res.decode(t.name, "list", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Table[T]) GetOne(ctx context.Context, id string) (T, error) {
	var rec T
	res := t.exec(ctx, func(q *postgrest.QueryBuilder) *postgrest.FilterBuilder {
		return q.Select("*", "", false).Eq("id", id).Single()
	})
	if err := res.err(t.name, "get_one"); err != nil {
		return rec, err
	}
	err := res.decode(t.name, "get_one", &rec)
	return rec, err
}

func (t *Table[T]) Create(ctx context.Context, record T) (T, error) {
	var rec T
	if err := t.encodable("create", record); err != nil {
		return rec, err
	}
	res := t.exec(ctx, func(q *postgrest.QueryBuilder) *postgrest.FilterBuilder {
		return q.Insert(record, false, "", "representation", "").Single()
	})
	if err := res.err(t.name, "create"); err != nil {
		return rec, err
	}
	err := res.decode(t.name, "create", &rec)
	return rec, err
}

func (t *Table[T]) Update(ctx context.Context, id string, patch domain.Patch) (T, error) {
	var rec T
	body := make(map[string]any, len(patch))
	for k, v := range patch {
		if k == "id" {
			continue
		}
		body[k] = v
	}
	if err := t.encodable("update", body); err != nil {
		return rec, err
	}

	res := t.exec(ctx, func(q *postgrest.QueryBuilder) *postgrest.FilterBuilder {
		return q.Update(body, "representation", "").Eq("id", id).Single()
	})
	if err := res.err(t.name, "update"); err != nil {
		return rec, err
	}
	err := res.decode(t.name, "update", &rec)
	return rec, err
}

// Subscribe is not available over plain HTTP; realtime needs a websocket
// channel this binding does not open.
func (t *Table[T]) Subscribe(context.Context, func(domain.ChangeEvent[T])) error {
	return &domain.RemoteError{
		Backend:    backendName,
		Collection: t.name,
		Op:         "subscribe",
		Kind:       domain.KindUnsupported,
		Err:        fmt.Errorf("realtime changes are not available for %s", t.name),
	}
}
