// Command lottopool runs the local-first agent of an organizer's device: an
// HTTP API whose reads and writes go to the remote store when it answers and
// to the local store when it does not.
//
//	@title						Lottopool API
//	@version					1.0
//	@description				Local-first agent for lottery betting pools.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lottopool/lottopool/internal/api"
	"github.com/lottopool/lottopool/internal/api/handler"
	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/core/ports"
	"github.com/lottopool/lottopool/internal/core/service"
	"github.com/lottopool/lottopool/internal/infrastructure/config"
	mongostore "github.com/lottopool/lottopool/internal/infrastructure/db/mongo"
	redisstore "github.com/lottopool/lottopool/internal/infrastructure/db/redis"
	"github.com/lottopool/lottopool/internal/infrastructure/db/supabase"
	"github.com/lottopool/lottopool/internal/infrastructure/localstore"
	"github.com/lottopool/lottopool/internal/infrastructure/queue"
	"github.com/lottopool/lottopool/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "lottopool: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dotEnvErr := config.LoadDotEnv()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Pretty(),
		Service: "lottopool",
		Backend: cfg.RemoteBackend,
	})
	if dotEnvErr != nil {
		log.Debug().Err(dotEnvErr).Msg("no .env file loaded, using process environment")
	}

	kv, closeLocal, err := openLocal(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLocal()

	remote, closeRemote, err := openRemote(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRemote()

	local := localstore.New(kv)
	sessions := localstore.NewSession(kv)
	ns := cfg.Local.Namespace

	pools := service.NewPoolCollection(remote.Pools, local, ns, log)
	participants := service.NewParticipantCollection(remote.Participants, local, ns, log)
	groups := service.NewGroupService(remote.Groups, local, ns, log)

	authSvc := service.NewAuthService(remote.Auth, sessions, cfg.JWTSecret, cfg.TokenTTL, cfg.AuthTimeout, log)
	poolSvc := service.NewPoolService(pools, log)
	inviteSvc := service.NewInviteService(
		groups,
		participants,
		localstore.NewDrafts(kv),
		localstore.NewCPFFlags(kv),
		sessions,
		authSvc,
		log,
	)

	feed := queue.NewBroadcaster[domain.ChangeEvent[domain.Pool]](log)
	feed.Start(ctx)
	poolSvc.Subscribe(ctx, feed.Publish)

	e := api.NewRouter(api.Deps{
		Log:          log,
		JWTSecret:    cfg.JWTSecret,
		Auth:         authSvc,
		Pools:        poolSvc,
		PoolFeed:     feed,
		Groups:       groups,
		Participants: participants,
		Invites:      inviteSvc,
		Health:       handler.NewHealthHandler(remote.Backend, remote.Ping, kv.Ping),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("local_driver", cfg.Local.Driver).Msg("lottopool agent listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openLocal(ctx context.Context, cfg *config.Config) (ports.KeyValue, func(), error) {
	if cfg.Local.Driver == config.LocalMemory {
		return localstore.NewMemory(), func() {}, nil
	}
	kv, closeFn, err := redisstore.Open(ctx, redisstore.Config{
		Addr:      cfg.Local.RedisAddr,
		DB:        cfg.Local.RedisDB,
		KeyPrefix: cfg.Local.Namespace,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("local store: %w", err)
	}
	return kv, func() { _ = closeFn() }, nil
}

func openRemote(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.RemoteStore, func(), error) {
	if cfg.RemoteBackend == config.BackendSupabase {
		client := supabase.NewClient(supabase.Config{
			URL:     cfg.Supabase.URL,
			AnonKey: cfg.Supabase.AnonKey,
			Timeout: cfg.RemoteTimeout,
		})
		return supabase.NewRemoteStore(client), func() {}, nil
	}

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.RemoteTimeout,
	})
	if err != nil {
		return ports.RemoteStore{}, nil, fmt.Errorf("remote store: %w", err)
	}
	if err := mongostore.NewProfiles(db, cfg.RemoteTimeout).EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("could not ensure profile indexes, remote store may be offline")
	}

	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
	return mongostore.NewRemoteStore(client, db, cfg.RemoteTimeout, log), closeFn, nil
}
