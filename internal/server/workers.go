package server

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ytresolve/internal/cache"
	"ytresolve/internal/resolve"
)

func (s *Server) startWorker(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.jobs:
			s.processJob(j, workerID)
		}
	}
}

func (s *Server) processJob(j *job, workerID int) {
	defer s.pending.Done()
	s.stats.queued.Add(-1)
	s.stats.active.Add(1)
	defer s.stats.active.Add(-1)

	if j.ctx.Err() != nil {
		s.log.Debug("job abandoned before start", zap.String("job_id", j.ID))
		return
	}

	log := s.log.With(zap.String("job_id", j.ID), zap.Int("worker", workerID))
	start := time.Now()

	res := s.resolveCached(j.ctx, j.Query, log)
	if res.OK() {
		s.stats.resolved.Add(1)
	} else {
		s.stats.failed.Add(1)
	}
	log.Debug("job finished", zap.Bool("ok", res.OK()), zap.Duration("elapsed", time.Since(start)))

	// done is buffered; the requester may already have timed out.
	j.done <- res
}

// resolveCached serves from the store, otherwise resolves once per key no
// matter how many requests for it are in flight. The raw query is looked up
// before rewriting so cached Spotify links skip the oEmbed call.
func (s *Server) resolveCached(ctx context.Context, query string, log *zap.Logger) resolve.Result {
	keys := []string{cache.Key(query)}
	if r, ok := s.cached(ctx, keys[0], log); ok {
		return r
	}

	if s.rewriter != nil {
		if q := s.rewriter.Rewrite(ctx, query); q != query {
			log.Info("query rewritten", zap.String("from", query), zap.String("to", q))
			query = q
			keys = append([]string{cache.Key(q)}, keys...)
			if r, ok := s.cached(ctx, keys[0], log); ok {
				return r
			}
		}
	}

	res, shared := s.group.Do(keys[0], func() resolve.Result {
		// Detached from the requester so that other waiters still get an answer.
		rctx, cancel := context.WithTimeout(s.ctx, s.opts.RequestTimeout)
		defer cancel()

		r := s.resolver.Resolve(rctx, query)
		if err := rctx.Err(); err != nil {
			// Our own deadline or shutdown cut yt-dlp short; the query itself may be fine.
			log.Debug("result not cached", zap.Error(err))
			return r
		}
		for _, key := range keys {
			if err := s.store.Set(context.WithoutCancel(rctx), key, r); err != nil {
				log.Warn("cache write failed", zap.Error(err))
			}
		}
		return r
	})
	if shared {
		s.stats.shared.Add(1)
	}
	return res
}

func (s *Server) cached(ctx context.Context, key string, log *zap.Logger) (resolve.Result, bool) {
	r, ok, err := s.store.Get(ctx, key)
	if err != nil {
		log.Warn("cache read failed", zap.Error(err))
		return nil, false
	}
	if ok {
		s.stats.cacheHits.Add(1)
	}
	return r, ok
}
