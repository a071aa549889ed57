package ports

import (
	"context"
	"strings"

	"github.com/lottopool/lottopool/internal/core/domain"
)

// Sort orders a remote listing by a single field.
type Sort struct {
	Field      string
	Descending bool
}

// ParseSort reads the "-field" / "field" notation.
func ParseSort(s string) Sort {
	if strings.HasPrefix(s, "-") {
		return Sort{Field: s[1:], Descending: true}
	}
	return Sort{Field: s}
}

// RemoteCollection is one table of the hosted store. Every binding reports
// failures as *domain.RemoteError regardless of how its backend signals them.
type RemoteCollection[T any] interface {
	List(ctx context.Context, sort Sort) ([]T, error)
	GetOne(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, id string, patch domain.Patch) (T, error)
	// Subscribe starts delivering changes to fn until ctx is done.
	Subscribe(ctx context.Context, fn func(domain.ChangeEvent[T])) error
}

// RemoteStore groups the collections a backend binding exposes.
type RemoteStore struct {
	Backend      string
	Pools        RemoteCollection[domain.Pool]
	Groups       RemoteCollection[domain.PoolGroup]
	Participants RemoteCollection[domain.Participant]
	Auth         Authenticator
	Ping         func(ctx context.Context) error
}
