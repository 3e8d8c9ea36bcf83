package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/fashionfinder/internal/buildinfo"
	"github.com/dmitrijs2005/fashionfinder/internal/client/auth"
	"github.com/dmitrijs2005/fashionfinder/internal/client/cli"
	"github.com/dmitrijs2005/fashionfinder/internal/client/compute"
	"github.com/dmitrijs2005/fashionfinder/internal/client/config"
	"github.com/dmitrijs2005/fashionfinder/internal/client/objectstore"
	"github.com/dmitrijs2005/fashionfinder/internal/client/persist"
	"github.com/dmitrijs2005/fashionfinder/internal/client/remote"
	"github.com/dmitrijs2005/fashionfinder/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fashionfinder/internal/client/repositories/repomanager"
	"github.com/dmitrijs2005/fashionfinder/internal/client/session"
	"github.com/dmitrijs2005/fashionfinder/internal/client/store"
	"github.com/dmitrijs2005/fashionfinder/internal/dbx"
	"github.com/dmitrijs2005/fashionfinder/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)

	if err := run(ctx, cfg, logger); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	local, err := repomanager.OpenLocal(ctx, cfg.LocalDBPath)
	if err != nil {
		return err
	}
	defer local.Close()
	kv := metadata.NewSQLiteRepository(local)

	backend, err := dbx.Open(ctx, "pgx", cfg.DatabaseDSN, 5*time.Second)
	if err != nil {
		return err
	}
	defer backend.Close()
	repos := repomanager.NewPostgresRepositoryManager()

	blobs, err := objectstore.New(ctx, objectstore.Options{
		Endpoint:   cfg.StorageEndpoint(),
		Region:     cfg.S3Region,
		AccessKey:  cfg.S3AccessKey,
		SecretKey:  cfg.S3SecretKey,
		Bucket:     cfg.ImagesBucket,
		PublicBase: cfg.SupabaseURL,
	})
	if err != nil {
		return err
	}

	st := store.New(
		remote.New(backend, repos, blobs),
		compute.New(cfg.ComputeBaseURL, cfg.ComputeTimeout, logger.With("component", "compute")),
		persist.NewAdapter(kv, logger.With("component", "persist")),
		logger.With("component", "store"),
	)
	if err := st.Load(ctx); err != nil {
		logger.Warn(ctx, "could not load recent boards", "error", err)
	}

	sessions := session.NewManager(
		auth.New(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.JWTSecret, cfg.AuthTimeout),
		kv,
		logger.With("component", "session"),
	)
	unbind := st.BindSession(ctx, sessions)
	defer unbind()

	sessions.Resolve(ctx)
	go sessions.Watch(ctx, cfg.SessionCheckInterval)

	app := cli.NewApp(cli.Deps{
		Store:   st,
		Session: sessions,
		Links:   blobs,
		Migrate: func(ctx context.Context) error { return repos.RunMigrations(ctx, backend) },
		Logger:  logger,
	})
	app.Run(ctx)
	return nil
}
