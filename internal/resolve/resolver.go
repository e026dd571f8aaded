// Package resolve turns a search query or page URL into a direct audio
// stream URL plus display metadata, using yt-dlp as the extractor.
//
// When yt-dlp fails, the reported error is its last "ERROR: " line with that
// prefix removed, e.g. "[youtube] xyz: Video unavailable".
package resolve

import (
	"context"

	"go.uber.org/zap"
)

// Resolver runs classify -> extract -> select for one query.
type Resolver struct {
	extractor Extractor
	log       *zap.Logger
}

// NewResolver returns a Resolver backed by ext.
func NewResolver(ext Extractor, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{extractor: ext, log: log}
}

// Resolve never returns a nil Result; every error becomes Failed.
func (r *Resolver) Resolve(ctx context.Context, raw string) Result {
	res, err := r.resolve(ctx, raw)
	if err != nil {
		r.log.Info("resolve failed", zap.String("query", raw), zap.Error(err))
		return Fail(err)
	}
	r.log.Info("resolved",
		zap.String("query", raw),
		zap.String("title", res.Title),
		zap.String("webpage_url", res.WebpageURL))
	return res
}

func (r *Resolver) resolve(ctx context.Context, raw string) (Resolved, error) {
	q := Classify(raw)
	r.log.Debug("classified", zap.String("target", q.Target), zap.Bool("url", q.IsURL))

	info, err := r.extractor.Extract(ctx, q.Target)
	if err != nil {
		return Resolved{}, err
	}
	info, err = effective(info)
	if err != nil {
		return Resolved{}, err
	}

	stream, err := SelectStream(info)
	if err != nil {
		return Resolved{}, err
	}

	return Resolved{
		Title:      info.title(),
		WebpageURL: info.pageURL(q.Raw),
		Thumbnail:  info.Thumbnail,
		Duration:   info.Duration,
		StreamURL:  stream,
	}, nil
}
