package resolve

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"
)

// Extractor turns a classified target into a yt-dlp info record.
type Extractor interface {
	Extract(ctx context.Context, target string) (*Info, error)
}

// Options is the fixed yt-dlp configuration.
type Options struct {
	Executable    string
	Format        string
	SocketTimeout time.Duration
	Retries       int
}

// DefaultOptions returns the configuration every resolution runs with.
func DefaultOptions() Options {
	return Options{
		Executable:    "yt-dlp",
		Format:        "bestaudio/best",
		SocketTimeout: 7 * time.Second,
		Retries:       2,
	}
}

// YTDLP runs the yt-dlp executable through go-ytdlp.
type YTDLP struct {
	opts Options
	log  *zap.Logger
}

// NewYTDLP builds an extractor. Zero-valued option fields take their defaults.
func NewYTDLP(opts Options, log *zap.Logger) *YTDLP {
	def := DefaultOptions()
	if opts.Executable == "" {
		opts.Executable = def.Executable
	}
	if opts.Format == "" {
		opts.Format = def.Format
	}
	if opts.SocketTimeout <= 0 {
		opts.SocketTimeout = def.SocketTimeout
	}
	if opts.Retries <= 0 {
		opts.Retries = def.Retries
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &YTDLP{opts: opts, log: log}
}

func (y *YTDLP) command() *ytdlp.Command {
	return ytdlp.New().
		SetExecutable(y.opts.Executable).
		IgnoreConfig().
		Quiet().
		NoWarnings().
		NoPlaylist().
		SkipDownload().
		DumpSingleJSON().
		Format(y.opts.Format).
		SocketTimeout(y.opts.SocketTimeout.Seconds()).
		Retries(strconv.Itoa(y.opts.Retries))
}

// Extract runs one non-flat metadata extraction for target.
func (y *YTDLP) Extract(ctx context.Context, target string) (*Info, error) {
	start := time.Now()
	res, err := y.command().Run(ctx, target)
	if err != nil {
		var stderr string
		if res != nil {
			stderr = res.Stderr
		}
		y.log.Debug("yt-dlp failed", zap.String("target", target), zap.Error(err))
		return nil, extractorError(err, stderr)
	}
	y.log.Debug("yt-dlp finished",
		zap.String("target", target),
		zap.Duration("elapsed", time.Since(start)))

	return decodeInfo([]byte(res.Stdout))
}

// extractorError reports yt-dlp's own error line when there is one, so the
// caller sees e.g. "[youtube] abc: Video unavailable" rather than an exit status.
func extractorError(err error, stderr string) error {
	if msg := lastErrorLine(stderr); msg != "" {
		return errors.New(msg)
	}
	return err
}

func lastErrorLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if msg, ok := strings.CutPrefix(line, "ERROR: "); ok {
			return strings.TrimSpace(msg)
		}
	}
	return ""
}
