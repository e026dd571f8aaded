// Package spotify turns Spotify track links into searchable titles. yt-dlp
// cannot play Spotify audio, so the daemon searches for the title instead.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	defaultOEmbedURL = "https://open.spotify.com/oembed"
	lookupTimeout    = 400 * time.Millisecond
)

var (
	spotifyLink = regexp.MustCompile(`(?i)^(https?://)?(open\.)?spotify\.com/`)
	trackPath   = regexp.MustCompile(`(?i)/track/`)
	enDash      = regexp.MustCompile(`\s*–\s*`)
)

// IsTrackURL reports whether s links to a single Spotify track.
func IsTrackURL(s string) bool {
	return spotifyLink.MatchString(s) && trackPath.MatchString(s)
}

// Client queries Spotify's public oEmbed endpoint; no credentials needed.
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *http.Client
}

// NewClient returns a Client for endpoint ("" selects Spotify's).
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = defaultOEmbedURL
	}
	return &Client{
		endpoint: endpoint,
		timeout:  lookupTimeout,
		http:     &http.Client{},
	}
}

type oembedResponse struct {
	Title string `json:"title"`
}

// Title fetches the display title of a track link.
func (c *Client) Title(ctx context.Context, trackURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := c.endpoint + "?url=" + url.QueryEscape(trackURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("spotify oembed status %d", resp.StatusCode)
	}

	var body oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	title := strings.TrimSpace(enDash.ReplaceAllString(body.Title, " "))
	if title == "" {
		return "", fmt.Errorf("spotify oembed returned no title")
	}
	return title, nil
}

// Rewrite returns the track title for Spotify track links and query
// unchanged otherwise or when the lookup fails.
func (c *Client) Rewrite(ctx context.Context, query string) string {
	q := strings.TrimSpace(query)
	if !IsTrackURL(q) {
		return query
	}
	title, err := c.Title(ctx, q)
	if err != nil {
		return query
	}
	return title
}
