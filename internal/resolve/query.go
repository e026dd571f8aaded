package resolve

import (
	"regexp"
	"strings"
)

// SearchPrefix asks yt-dlp for the first search result only.
const SearchPrefix = "ytsearch1:"

var urlPattern = regexp.MustCompile(`^(?:https?://|//)`)

// Query is a classified user input.
type Query struct {
	Raw    string // trimmed input
	Target string // what is handed to the extractor
	IsURL  bool
}

// IsURL reports whether s starts with http://, https:// or a protocol-relative //.
func IsURL(s string) bool {
	return urlPattern.MatchString(s)
}

// Classify trims raw and decides between a direct URL and a single-result search.
// Empty input is not rejected here; the extractor reports it.
func Classify(raw string) Query {
	q := strings.TrimSpace(raw)
	if IsURL(q) {
		return Query{Raw: q, Target: q, IsURL: true}
	}
	return Query{Raw: q, Target: SearchPrefix + q}
}
