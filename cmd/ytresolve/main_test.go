package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"ytresolve/internal/resolve"
)

type fakeExtractor struct {
	targets []string
	info    *resolve.Info
	err     error
}

func (f *fakeExtractor) Extract(_ context.Context, target string) (*resolve.Info, error) {
	f.targets = append(f.targets, target)
	return f.info, f.err
}

func f64p(f float64) *float64 { return &f }

func TestRunSearchSuccess(t *testing.T) {
	ext := &fakeExtractor{info: &resolve.Info{
		Title:      "Test Song",
		WebpageURL: "https://example/watch?v=1",
		URL:        "https://stream/direct.mp4",
		Duration:   f64p(180),
	}}
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"--query", "test song"}, &stdout, &stderr, resolve.NewResolver(ext, nil))

	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"ytsearch1:test song"}, ext.targets)
	assert.JSONEq(t,
		`{"ok": true, "title": "Test Song", "webpage_url": "https://example/watch?v=1", "thumbnail": null, "duration": 180, "stream_url": "https://stream/direct.mp4"}`,
		stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunExtractorFailure(t *testing.T) {
	ext := &fakeExtractor{err: errors.New("video unavailable")}
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"--query=https://example/watch?v=2"}, &stdout, &stderr, resolve.NewResolver(ext, nil))

	assert.Equal(t, 1, code)
	assert.Equal(t, []string{"https://example/watch?v=2"}, ext.targets)
	assert.Equal(t, `{"ok":false,"error":"video unavailable"}`+"\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunNoStream(t *testing.T) {
	ext := &fakeExtractor{info: &resolve.Info{Title: "Nothing"}}
	var stdout bytes.Buffer

	code := run(context.Background(), []string{"--query", "nothing"}, &stdout, &bytes.Buffer{}, resolve.NewResolver(ext, nil))

	assert.Equal(t, 1, code)
	assert.JSONEq(t, `{"ok": false, "error": "No direct audio stream URL found"}`, stdout.String())
}

func TestRunEmptyQueryIsPassedThrough(t *testing.T) {
	ext := &fakeExtractor{err: errors.New("[youtube:search] empty query")}
	var stdout bytes.Buffer

	code := run(context.Background(), []string{"--query", "   "}, &stdout, &bytes.Buffer{}, resolve.NewResolver(ext, nil))

	assert.Equal(t, 1, code)
	assert.Equal(t, []string{"ytsearch1:"}, ext.targets)
}

func TestRunUsageErrors(t *testing.T) {
	tests := map[string]struct {
		args    []string
		wantErr string
	}{
		"missing query": {nil, "the following arguments are required: --query"},
		"unknown flag":  {[]string{"--query", "x", "--verbose"}, "unknown flag: --verbose"},
		"no value":      {[]string{"--query"}, "flag needs an argument: --query"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ext := &fakeExtractor{}
			var stdout, stderr bytes.Buffer

			code := run(context.Background(), tt.args, &stdout, &stderr, resolve.NewResolver(ext, nil))

			assert.Equal(t, exitUsage, code)
			assert.Empty(t, stdout.String())
			assert.Contains(t, stderr.String(), "ytresolve: "+tt.wantErr)
			assert.Contains(t, stderr.String(), "usage: ytresolve --query QUERY")
			assert.Contains(t, stderr.String(), "--query string")
			assert.Empty(t, ext.targets)
		})
	}
}

func TestRunHelp(t *testing.T) {
	ext := &fakeExtractor{}
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"--help"}, &stdout, &stderr, resolve.NewResolver(ext, nil))

	assert.Equal(t, 0, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "usage: ytresolve --query QUERY")
	assert.Empty(t, ext.targets)
}
