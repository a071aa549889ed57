// Package mongo binds the remote store to a MongoDB database. Records are
// stored one document per record, with the record id as _id.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/core/ports"
)

const (
	backendName    = "mongo"
	defaultTimeout = 10 * time.Second
)

// Config captures the settings of the remote MongoDB database.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect creates the client without waiting for the server: a database that
// is down at startup only sends requests to the local store until it is back.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	return client, client.Database(cfg.Database), nil
}

// NewRemoteStore exposes the pools, groups, participants and profiles
// collections of db as a ports.RemoteStore.
func NewRemoteStore(client *mongo.Client, db *mongo.Database, timeout time.Duration, log zerolog.Logger) ports.RemoteStore {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return ports.RemoteStore{
		Backend:      backendName,
		Pools:        NewCollection[domain.Pool](db, "pools", timeout, log),
		Groups:       NewCollection[domain.PoolGroup](db, "groups", timeout, log),
		Participants: NewCollection[domain.Participant](db, "participants", timeout, log),
		Auth:         NewProfiles(db, timeout),
		Ping: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			if err := client.Ping(ctx, readpref.Primary()); err != nil {
				return classify("", "ping", err)
			}
			return nil
		},
	}
}
