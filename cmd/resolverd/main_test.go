package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ytresolve/internal/cache"
	"ytresolve/internal/config"
	"ytresolve/internal/resolve"
	"ytresolve/internal/server"
)

func TestNewLogger(t *testing.T) {
	log, err := newLogger("debug")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))

	log, err = newLogger("warn")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.InfoLevel))

	_, err = newLogger("loud")
	assert.Error(t, err)
}

func TestNewStoreFallsBackToMemory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.FromLookup(func(k string) (string, bool) {
		if k == "REDIS_URL" {
			return "bogus://nowhere", true
		}
		return "", false
	})
	require.NoError(t, err)

	store, closeStore := newStore(ctx, cfg, zap.NewNop())
	defer closeStore()

	_, ok := store.(*cache.MemoryStore)
	assert.True(t, ok)
}

type blockingResolver struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingResolver) Resolve(ctx context.Context, raw string) resolve.Result {
	b.started <- struct{}{}
	select {
	case <-b.release:
		return resolve.Resolved{Title: raw, WebpageURL: "https://p", StreamURL: "https://s"}
	case <-ctx.Done():
		return resolve.Failed{Message: ctx.Err().Error()}
	}
}

func TestShutdownFinishesInFlightRequest(t *testing.T) {
	r := &blockingResolver{started: make(chan struct{}, 1), release: make(chan struct{})}
	srv := server.New(r, nil, cache.NewMemoryStore(time.Minute), server.Options{
		Workers:        1,
		QueueCapacity:  2,
		RequestTimeout: 5 * time.Second,
	}, nil)
	srv.Start(context.Background())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	httpSrv := &http.Server{Handler: srv.Routes()}
	go httpSrv.Serve(ln) //nolint:errcheck

	type response struct {
		code int
		body string
	}
	respCh := make(chan response, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/resolve?query=song")
		if err != nil {
			respCh <- response{body: err.Error()}
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		respCh <- response{code: resp.StatusCode, body: string(body)}
	}()
	<-r.started

	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done <- shutdown(ctx, httpSrv, srv, zap.NewNop())
	}()

	// Listener closed: shutdown is underway while the resolve still runs.
	assert.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", ln.Addr().String())
		if err == nil {
			conn.Close()
		}
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)

	close(r.release)

	resp := <-respCh
	assert.Equal(t, http.StatusOK, resp.code)
	assert.Contains(t, resp.body, `"title":"song"`)
	assert.NoError(t, <-done)
}

func TestShutdownBudgetCoversRequestTimeout(t *testing.T) {
	cfg := &config.Config{RequestTimeout: 30 * time.Second}
	assert.Greater(t, shutdownBudget(cfg), cfg.RequestTimeout)
}
