package mongo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lottopool/lottopool/internal/core/domain"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domain.RemoteErrorKind
	}{
		{"no documents", mongo.ErrNoDocuments, domain.KindNotFound},
		{"wrapped no documents", fmt.Errorf("find: %w", mongo.ErrNoDocuments), domain.KindNotFound},
		{"deadline", context.DeadlineExceeded, domain.KindUnavailable},
		{"canceled", context.Canceled, domain.KindUnavailable},
		{"unauthorized", mongo.CommandError{Code: 13, Message: "not authorized"}, domain.KindUnauthorized},
		{"auth failed", mongo.CommandError{Code: 18, Message: "auth failed"}, domain.KindUnauthorized},
		{"no change streams", mongo.CommandError{Code: 40573, Message: "replica sets only"}, domain.KindUnsupported},
		{"other command", mongo.CommandError{Code: 2, Message: "bad value"}, domain.KindRejected},
		{"duplicate key", mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}, domain.KindRejected},
		{"unknown", errors.New("socket closed"), domain.KindUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, kindOf(tc.err))
		})
	}
}

func TestClassify_MatchesNotFound(t *testing.T) {
	err := classify("pools", "get_one", mongo.ErrNoDocuments)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)

	var re *domain.RemoteError
	assert.True(t, errors.As(err, &re))
	assert.Equal(t, "pools", re.Collection)
	assert.Equal(t, "get_one", re.Op)
}
