package playback

import (
	"fmt"
	"maps"
	"net/url"
)

// Source identifies the stream to play.
// Treat a Source as immutable once handed to the engine.
type Source struct {
	URL     string
	Headers map[string]string
}

// NewSource creates a Source for rawURL with optional HTTP headers.
func NewSource(rawURL string, headers map[string]string) *Source {
	return &Source{URL: rawURL, Headers: maps.Clone(headers)}
}

// Validate checks that the URL is an absolute http(s) address.
func (s Source) Validate() error {
	u, err := url.Parse(s.URL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", s.URL)
	}
	return nil
}

// Clone returns a deep copy.
func (s Source) Clone() *Source {
	return &Source{URL: s.URL, Headers: maps.Clone(s.Headers)}
}

// String returns the URL.
func (s Source) String() string { return s.URL }
