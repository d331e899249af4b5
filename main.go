package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/db"
	"github.com/danielhkuo/livepoll/logger"
	"github.com/danielhkuo/livepoll/metrics"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/notify"
	"github.com/danielhkuo/livepoll/router"
	"github.com/danielhkuo/livepoll/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "livepoll",
		Short:        "Live polls with one vote per network origin",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd)
		},
	}
	cliparse.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the database schema and exit",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return migrate(cmd)
			},
		},
	)

	return root
}

// setup loads the configuration and builds the logger
func setup(cmd *cobra.Command) (cliparse.Config, *zap.Logger, error) {
	cfg, err := cliparse.Load(cmd.Flags())
	if err != nil {
		return cliparse.Config{}, nil, err
	}

	l, err := logger.New(cfg.LogLevel)
	if err != nil {
		return cliparse.Config{}, nil, err
	}
	zap.ReplaceGlobals(l)

	return cfg, l, nil
}

func migrate(cmd *cobra.Command) (err error) {
	cfg, l, err := setup(cmd)
	if err != nil {
		return err
	}
	defer l.Sync()

	dialect := db.Dialect(cfg.DatabaseType)
	conn, err := db.Open(cmd.Context(), dialect, cfg.DatabaseURL, cfg.DBConnectTimeout, l)
	if err != nil {
		l.Error("database connection failed", zap.Error(err))
		return err
	}
	defer func() { err = multierr.Append(err, conn.Close()) }()

	if err := db.CreateSchema(cmd.Context(), conn, dialect); err != nil {
		l.Error("schema creation failed", zap.Error(err))
		return err
	}

	l.Info("database schema ready", zap.String("dialect", cfg.DatabaseType))
	return nil
}

func serve(cmd *cobra.Command) (err error) {
	cfg, l, err := setup(cmd)
	if err != nil {
		return err
	}
	defer l.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialect := db.Dialect(cfg.DatabaseType)
	conn, err := db.Open(ctx, dialect, cfg.DatabaseURL, cfg.DBConnectTimeout, l)
	if err != nil {
		l.Error("database connection failed", zap.Error(err))
		return err
	}
	defer func() { err = multierr.Append(err, conn.Close()) }()

	// Create schema (tables)
	if err := db.CreateSchema(ctx, conn, dialect); err != nil {
		l.Error("schema creation failed", zap.Error(err))
		return err
	}
	l.Info("database schema ready", zap.String("dialect", cfg.DatabaseType))

	m := metrics.New()
	hub := notify.NewHub(cfg.SubscriberBuffer, m, l.Named("hub"))

	var pub notify.Publisher = hub
	if cfg.NotifyRelay {
		relay, rerr := notify.NewPGRelay(conn, cfg.DatabaseURL, hub, l.Named("relay"))
		if rerr != nil {
			l.Error("relay setup failed", zap.Error(rerr))
			return rerr
		}
		defer func() { err = multierr.Append(err, relay.Close()) }()
		go relay.Run(ctx)
		pub = relay
		l.Info("vote events relayed through postgres", zap.String("channel", notify.RelayChannel))
	}

	store, err := db.NewStore(conn, dialect, cfg.PollCacheSize, l.Named("store"))
	if err != nil {
		return err
	}
	svc := service.New(store, pub, hub, m, l.Named("service"))

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           middleware.CORS(cfg.CORSOrigin, router.NewRouter(svc, m, cfg, l.Named("http"))),
		ReadHeaderTimeout: 10 * time.Second,
	}
	// Streams are hijacked connections that Shutdown does not wait for
	server.RegisterOnShutdown(hub.CloseAll)

	errCh := make(chan error, 1)
	go func() {
		l.Info("listening", zap.Int("port", cfg.Port))
		errCh <- server.ListenAndServe()
	}()

	select {
	case serr := <-errCh:
		if !errors.Is(serr, http.ErrServerClosed) {
			l.Error("server failed", zap.Error(serr))
			return fmt.Errorf("server failed: %w", serr)
		}
		return nil
	case <-ctx.Done():
	}

	l.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Error("forced shutdown", zap.Error(err))
		return err
	}
	l.Info("server closed")
	return nil
}
