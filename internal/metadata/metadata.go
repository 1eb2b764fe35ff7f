// Package metadata turns raw in-stream title strings into artist and track
// fields.
package metadata

import (
	"regexp"
	"strings"
)

// Separator splits the artist from the track in a stream title.
const Separator = " - "

// cleanupPattern removes parenthesised and bracketed annotations such as
// "(Live)" or "[Radio Edit]", together with any word glued to the closing
// bracket.
var cleanupPattern = regexp.MustCompile(`(\(.*?\)\w*)|(\[.*?\]\w*)`)

// Metadata is the parsed form of a stream title.
type Metadata struct {
	Artist string
	Track  string
	// Raw is the cleaned title the fields were extracted from.
	Raw string
}

// IsEmpty reports whether neither artist nor track is known.
func (m Metadata) IsEmpty() bool {
	return m.Artist == "" && m.Track == ""
}

// String returns "Artist - Track", or whichever half is known.
func (m Metadata) String() string {
	switch {
	case m.Artist != "" && m.Track != "":
		return m.Artist + Separator + m.Track
	case m.Track != "":
		return m.Track
	default:
		return m.Artist
	}
}

// Clean strips annotations and surrounding whitespace from a raw title.
func Clean(raw string) string {
	return strings.TrimSpace(cleanupPattern.ReplaceAllString(raw, ""))
}

// Extract parses artist and track from a raw title. The artist is the text
// before the first separator and the track the text after the last one.
// A title without a separator yields the same text for both.
func Extract(raw string) Metadata {
	cleaned := cleanupPattern.ReplaceAllString(raw, "")
	if strings.TrimSpace(cleaned) == "" {
		return Metadata{}
	}
	parts := strings.Split(cleaned, Separator)
	m := Metadata{
		Artist: strings.TrimSpace(parts[0]),
		Track:  strings.TrimSpace(parts[len(parts)-1]),
		Raw:    strings.TrimSpace(cleaned),
	}
	if m.IsEmpty() {
		return Metadata{}
	}
	return m
}

// Extractor maps the string groups carried by a timed-metadata signal to
// Metadata. A nil result means the groups carried nothing usable.
type Extractor interface {
	Extract(groups []string) *Metadata
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(groups []string) *Metadata

// Extract calls f(groups).
func (f ExtractorFunc) Extract(groups []string) *Metadata { return f(groups) }

// ExtractGroups parses the first group of a timed-metadata signal. It
// returns nil when there are no groups.
func ExtractGroups(groups []string) *Metadata {
	if len(groups) == 0 {
		return nil
	}
	m := Extract(groups[0])
	return &m
}

// DefaultExtractor uses ExtractGroups.
type DefaultExtractor struct{}

// Extract implements Extractor.
func (DefaultExtractor) Extract(groups []string) *Metadata { return ExtractGroups(groups) }

// Equal reports whether a and b hold the same value. Two nils are equal.
func Equal(a, b *Metadata) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
