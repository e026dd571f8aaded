// Command resolverd serves the resolver over HTTP with a short-lived cache,
// for callers that resolve many queries (chat bots, players).
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

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ytresolve/internal/cache"
	"ytresolve/internal/config"
	"ytresolve/internal/resolve"
	"ytresolve/internal/server"
	"ytresolve/internal/spotify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolverd: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolverd: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("resolverd stopped", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func newStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (cache.Store, func()) {
	if cfg.RedisURL != "" {
		rs, err := cache.NewRedisStore(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err == nil {
			log.Info("redis cache connected")
			return rs, func() { _ = rs.Close() }
		}
		log.Warn("redis not available, using in-memory cache", zap.Error(err))
	}
	ms := cache.NewMemoryStore(cfg.CacheTTL)
	go ms.RunJanitor(ctx, config.CacheSweepInterval)
	return ms, func() {}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	store, closeStore := newStore(ctx, cfg, log)
	defer closeStore()

	opts := resolve.DefaultOptions()
	opts.Executable = cfg.YTDLPPath
	resolver := resolve.NewResolver(resolve.NewYTDLP(opts, log.Named("ytdlp")), log.Named("resolve"))

	var rewriter server.QueryRewriter
	if cfg.SpotifyLookup {
		rewriter = spotify.NewClient("")
	}

	srv := server.New(resolver, rewriter, store, server.Options{
		Workers:        cfg.Workers,
		QueueCapacity:  cfg.QueueCapacity,
		RateRPS:        cfg.RateRPS,
		RateBurst:      cfg.RateBurst,
		RequestTimeout: cfg.RequestTimeout,
		APISecret:      cfg.APISecret,
	}, log.Named("server"))
	// Workers outlive the signal; Shutdown below drains them.
	srv.Start(context.WithoutCancel(ctx))

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("resolverd listening",
			zap.String("addr", cfg.Addr),
			zap.Int("workers", cfg.Workers),
			zap.Float64("rate_rps", cfg.RateRPS),
			zap.Bool("auth", cfg.APISecret != ""))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutdown initiated")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownBudget(cfg))
	defer cancel()
	return shutdown(shutdownCtx, httpSrv, srv, log)
}

// shutdownBudget leaves room for a request accepted just before the signal.
func shutdownBudget(cfg *config.Config) time.Duration {
	return cfg.RequestTimeout + 5*time.Second
}

// shutdown closes the listener and waits for in-flight requests, whose jobs
// keep running, then drains and stops the worker pool.
func shutdown(ctx context.Context, httpSrv *http.Server, srv *server.Server, log *zap.Logger) error {
	httpErr := httpSrv.Shutdown(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("worker drain: %w", err)
	}
	if httpErr != nil {
		return fmt.Errorf("http shutdown: %w", httpErr)
	}
	log.Info("shutdown completed")
	return nil
}
