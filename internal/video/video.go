// Package video resolves YouTube links into references that timestamps can
// point into.
package video

import (
	"fmt"
	"regexp"
	"strconv"
)

const watchURL = "https://www.youtube.com/watch?v="

// idPatterns are tried in order; the first match wins.
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`v=([^&#?]+)`),
	regexp.MustCompile(`be/([^&#?]+)`),
	regexp.MustCompile(`live/([^&#?]+)`),
	regexp.MustCompile(`embed/([^&#?]+)`),
	regexp.MustCompile(`shorts/([^&#?]+)`),
}

// Reference identifies a video. The zero value means no video, in which
// case no timestamp links are produced.
type Reference struct {
	id string
}

// Parse extracts the video id from a YouTube URL in watch, youtu.be, live,
// embed or shorts form. An empty string returns the zero Reference.
func Parse(rawURL string) (Reference, error) {
	if rawURL == "" {
		return Reference{}, nil
	}
	for _, p := range idPatterns {
		if m := p.FindStringSubmatch(rawURL); m != nil {
			return Reference{id: m[1]}, nil
		}
	}
	return Reference{}, fmt.Errorf("%q: %w", rawURL, ErrInvalidURL)
}

// ID returns the video id, or "" for the zero Reference.
func (r Reference) ID() string {
	return r.id
}

// IsZero reports whether no video is referenced.
func (r Reference) IsZero() bool {
	return r.id == ""
}

// URL returns the canonical watch URL, or "" for the zero Reference.
func (r Reference) URL() string {
	if r.IsZero() {
		return ""
	}
	return watchURL + r.id
}

// At returns the watch URL offset by seconds. Zero and negative offsets
// link to the start of the video.
func (r Reference) At(seconds int) string {
	if r.IsZero() {
		return ""
	}
	if seconds <= 0 {
		return r.URL()
	}
	return r.URL() + "&t=" + strconv.Itoa(seconds) + "s"
}
