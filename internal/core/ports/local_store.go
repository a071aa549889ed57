package ports

import (
	"context"
	"encoding/json"

	"github.com/lottopool/lottopool/internal/core/domain"
)

// KeyValue is a string slot store with browser-storage semantics.
type KeyValue interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// LocalStore keeps whole collections as JSON arrays under one key each,
// newest record first. Writes to one key are serialized within a process.
type LocalStore interface {
	Get(ctx context.Context, key string) ([]json.RawMessage, error)
	// Append prepends record to the collection and persists it.
	Append(ctx context.Context, key string, record json.RawMessage) error
	// AppendWith prepends the record build returns for the collection as it
	// stands, and returns it.
	AppendWith(ctx context.Context, key string, build func(existing []json.RawMessage) (json.RawMessage, error)) (json.RawMessage, error)
	// Merge applies patch to the record whose "id" equals id; absent ids are a no-op.
	Merge(ctx context.Context, key, id string, patch domain.Patch) error
}

// DraftStore persists invite progress per group.
type DraftStore interface {
	Load(ctx context.Context, groupID string) (domain.InviteDraft, bool, error)
	Save(ctx context.Context, groupID string, draft domain.InviteDraft) error
	Delete(ctx context.Context, groupID string) error
}

// SessionStore holds the snapshot of the authenticated user.
type SessionStore interface {
	Load(ctx context.Context) (*domain.User, error)
	Save(ctx context.Context, user domain.User) error
	Clear(ctx context.Context) error
}

// CPFRegistry is the naive "cpf already used" flag.
type CPFRegistry interface {
	IsUsed(ctx context.Context, cpf string) (bool, error)
	MarkUsed(ctx context.Context, cpf string) error
}
