package domain

import "encoding/json"

// Entity is implemented by every record kept in a reconciled collection.
// WithID returns a copy carrying the given id, so both the remote and the
// local-only code paths hand back records of identical shape.
type Entity[T any] interface {
	RecordID() string
	WithID(id string) T
}

// Patch is a partial update keyed by the records' JSON field names.
type Patch map[string]any

// Normalized round-trips the patch through JSON so nested Go values become
// plain maps and slices, matching what a stored record decodes into.
func (p Patch) Normalized() (map[string]any, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ChangeAction is the kind of mutation carried by a change feed event.
type ChangeAction string

const (
	ChangeCreate ChangeAction = "create"
	ChangeUpdate ChangeAction = "update"
	ChangeDelete ChangeAction = "delete"
)

// ChangeEvent is a single item of a collection's change subscription feed.
type ChangeEvent[T any] struct {
	Action ChangeAction `json:"action"`
	ID     string       `json:"id"`
	Record *T           `json:"record,omitempty"`
}
