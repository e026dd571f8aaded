package resolve

import (
	"errors"
	"sort"
)

// ErrNoStream is returned when neither the info nor its formats expose a
// playable audio URL.
var ErrNoStream = errors.New("No direct audio stream URL found") //nolint:staticcheck // user-facing text

// SelectStream prefers the URL yt-dlp picked for "bestaudio/best" and only
// falls back to the highest-abr audio format when it is missing.
func SelectStream(info *Info) (string, error) {
	if info == nil {
		return "", ErrNoStream
	}
	if info.URL != "" {
		return info.URL, nil
	}

	candidates := make([]Format, 0, len(info.Formats))
	for _, f := range info.Formats {
		if f.HasAudio() && f.URL != "" {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return "", ErrNoStream
	}

	// Stable so equal bitrates keep yt-dlp's order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Bitrate() > candidates[j].Bitrate()
	})
	return candidates[0].URL, nil
}
