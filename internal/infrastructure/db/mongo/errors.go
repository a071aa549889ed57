package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lottopool/lottopool/internal/core/domain"
)

// Server error codes that need a kind other than "rejected".
const (
	codeUnauthorized         = 13
	codeAuthenticationFailed = 18
	codeChangeStreamsOnlyRS  = 40573
)

// classify wraps a driver error into a *domain.RemoteError.
func classify(collection, op string, err error) error {
	return &domain.RemoteError{
		Backend:    backendName,
		Collection: collection,
		Op:         op,
		Kind:       kindOf(err),
		Err:        err,
	}
}

func kindOf(err error) domain.RemoteErrorKind {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.KindNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return domain.KindUnavailable
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case codeUnauthorized, codeAuthenticationFailed:
			return domain.KindUnauthorized
		case codeChangeStreamsOnlyRS:
			return domain.KindUnsupported
		}
		return domain.KindRejected
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		return domain.KindRejected
	}
	return domain.KindUnavailable
}
