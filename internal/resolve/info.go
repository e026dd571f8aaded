package resolve

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultTitle is reported when the extractor returns no title.
const DefaultTitle = "Unknown title"

// Info is the subset of a yt-dlp info dict this module reads. Optional
// fields are pointers so that absence survives decoding.
type Info struct {
	Title       string   `json:"title"`
	WebpageURL  string   `json:"webpage_url"`
	OriginalURL string   `json:"original_url"`
	Thumbnail   *string  `json:"thumbnail"`
	Duration    *float64 `json:"duration"`
	URL         string   `json:"url"`
	Formats     []Format `json:"formats"`
	Entries     []*Info  `json:"entries"`
}

// Format is one entry of Info.Formats.
type Format struct {
	FormatID string   `json:"format_id"`
	ACodec   *string  `json:"acodec"`
	ABR      *float64 `json:"abr"`
	URL      string   `json:"url"`
}

// HasAudio reports whether the format carries an audio codec.
func (f Format) HasAudio() bool {
	return f.ACodec != nil && *f.ACodec != "none"
}

// Bitrate returns the average audio bitrate, 0 when unknown.
func (f Format) Bitrate() float64 {
	if f.ABR == nil {
		return 0
	}
	return *f.ABR
}

var errEmptyEntry = errors.New("extractor returned an empty search entry")

// decodeInfo parses yt-dlp's single JSON document.
func decodeInfo(data []byte) (*Info, error) {
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("invalid JSON from yt-dlp: %w", err)
	}
	return &info, nil
}

// effective returns the item a resolution is built from: the first entry of
// a search container, or info itself.
func effective(info *Info) (*Info, error) {
	if info == nil {
		return nil, errEmptyEntry
	}
	if len(info.Entries) == 0 {
		return info, nil
	}
	if info.Entries[0] == nil {
		return nil, errEmptyEntry
	}
	return info.Entries[0], nil
}

// title applies DefaultTitle.
func (i *Info) title() string {
	if i.Title == "" {
		return DefaultTitle
	}
	return i.Title
}

// pageURL falls back from webpage_url to original_url to the query itself.
func (i *Info) pageURL(query string) string {
	switch {
	case i.WebpageURL != "":
		return i.WebpageURL
	case i.OriginalURL != "":
		return i.OriginalURL
	default:
		return query
	}
}
