package resolve

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Result is the outcome of one resolution: either Resolved or Failed.
type Result interface {
	OK() bool
	isResult()
}

// Resolved is a successful resolution. StreamURL is never empty.
type Resolved struct {
	Title      string
	WebpageURL string
	Thumbnail  *string
	Duration   *float64
	StreamURL  string
}

// Failed carries the error text reported to the caller.
type Failed struct {
	Message string
}

func (Resolved) OK() bool { return true }
func (Failed) OK() bool   { return false }

func (Resolved) isResult() {}
func (Failed) isResult()   {}

// Fail wraps err as a Failed result.
func Fail(err error) Failed {
	return Failed{Message: err.Error()}
}

type resolvedJSON struct {
	OK         bool     `json:"ok"`
	Title      string   `json:"title"`
	WebpageURL string   `json:"webpage_url"`
	Thumbnail  *string  `json:"thumbnail"`
	Duration   *float64 `json:"duration"`
	StreamURL  string   `json:"stream_url"`
}

type failedJSON struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (r Resolved) MarshalJSON() ([]byte, error) {
	return marshal(resolvedJSON{
		OK:         true,
		Title:      r.Title,
		WebpageURL: r.WebpageURL,
		Thumbnail:  r.Thumbnail,
		Duration:   r.Duration,
		StreamURL:  r.StreamURL,
	})
}

func (f Failed) MarshalJSON() ([]byte, error) {
	return marshal(failedJSON{OK: false, Error: f.Message})
}

// marshal encodes without HTML escaping; stream URLs are full of '&'.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Encode returns the single-line JSON form of r.
func Encode(r Result) ([]byte, error) {
	switch v := r.(type) {
	case Resolved:
		return v.MarshalJSON()
	case Failed:
		return v.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown result type %T", r)
	}
}

// Decode parses a line produced by Encode.
func Decode(data []byte) (Result, error) {
	var head struct {
		OK    *bool  `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	if head.OK == nil {
		return nil, errors.New("result has no ok field")
	}
	if !*head.OK {
		return Failed{Message: head.Error}, nil
	}
	var body resolvedJSON
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	if body.StreamURL == "" {
		return nil, errors.New("resolved result has no stream_url")
	}
	return Resolved{
		Title:      body.Title,
		WebpageURL: body.WebpageURL,
		Thumbnail:  body.Thumbnail,
		Duration:   body.Duration,
		StreamURL:  body.StreamURL,
	}, nil
}

// WriteResult writes r as exactly one line of JSON.
func WriteResult(w io.Writer, r Result) error {
	line, err := Encode(r)
	if err != nil {
		return err
	}
	_, err = w.Write(append(line, '\n'))
	return err
}

// ExitCode maps a result to the process exit status.
func ExitCode(r Result) int {
	if r != nil && r.OK() {
		return 0
	}
	return 1
}
