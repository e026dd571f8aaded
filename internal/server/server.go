// Package server exposes the resolver over HTTP for long-lived callers such
// as chat bots, adding a short-lived cache and a bounded worker pool.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"ytresolve/internal/cache"
)

var (
	errQueueFull    = errors.New("queue full")
	errShuttingDown = errors.New("shutting down")
)

type Options struct {
	Workers        int
	QueueCapacity  int
	RateRPS        float64
	RateBurst      int
	RequestTimeout time.Duration
	APISecret      string
}

type counters struct {
	active    atomic.Int64
	queued    atomic.Int64
	resolved  atomic.Int64
	failed    atomic.Int64
	cacheHits atomic.Int64
	shared    atomic.Int64
	rejected  atomic.Int64
}

type Server struct {
	resolver Resolver
	rewriter QueryRewriter
	store    cache.Store
	group    *cache.Group
	log      *zap.Logger

	opts    Options
	jobs    chan *job
	limiter *rate.Limiter
	stats   counters
	started time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu guards closing against enqueues racing Shutdown.
	mu      sync.RWMutex
	closing bool
	pending sync.WaitGroup
}

// New builds a Server. rewriter may be nil.
func New(r Resolver, rewriter QueryRewriter, store cache.Store, opts Options, log *zap.Logger) *Server {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.QueueCapacity < 1 {
		opts.QueueCapacity = 1
	}
	if opts.RateRPS <= 0 {
		opts.RateRPS = 10
	}
	if opts.RateBurst < 1 {
		opts.RateBurst = 1
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if store == nil {
		store = cache.NewMemoryStore(cache.DefaultTTL)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		resolver: r,
		rewriter: rewriter,
		store:    store,
		group:    cache.NewGroup(),
		log:      log,
		opts:     opts,
		jobs:     make(chan *job, opts.QueueCapacity),
		limiter:  rate.NewLimiter(rate.Limit(opts.RateRPS), opts.RateBurst),
		started:  time.Now(),
		ctx:      context.Background(),
		cancel:   func() {},
	}
}

// Start launches the worker pool. Workers exit when ctx is done or after
// Shutdown.
func (s *Server) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	for i := 0; i < s.opts.Workers; i++ {
		s.wg.Add(1)
		go func(id int) {
			defer s.wg.Done()
			s.startWorker(s.ctx, id)
		}(i)
	}
	s.log.Info("workers started", zap.Int("workers", s.opts.Workers), zap.Int("queue_capacity", s.opts.QueueCapacity))
}

// Wait blocks until every worker has returned.
func (s *Server) Wait() {
	s.wg.Wait()
}

// Shutdown stops accepting jobs, lets the workers finish everything already
// queued, then stops them. If ctx ends first the remaining work is cancelled
// and ctx's error returned.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(drained)
	}()

	var err error
	select {
	case <-drained:
	case <-ctx.Done():
		err = ctx.Err()
	}
	s.cancel()
	s.wg.Wait()
	return err
}

// enqueue hands j to the pool. It reports errShuttingDown or errQueueFull
// when the job was not accepted.
func (s *Server) enqueue(j *job) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closing {
		return errShuttingDown
	}
	s.pending.Add(1)
	s.stats.queued.Add(1)
	select {
	case s.jobs <- j:
		return nil
	default:
		s.pending.Done()
		s.stats.queued.Add(-1)
		return errQueueFull
	}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)
	r.Get("/stats", s.handleStats)

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Use(s.requireSecret)
		r.Get("/resolve", s.handleResolve)
		r.Post("/resolve", s.handleResolve)
	})
	return r
}
