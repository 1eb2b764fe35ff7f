// Package artwork resolves cover art URLs for stream metadata.
//
// A Resolver returns (nil, nil) when a lookup succeeds but finds nothing;
// an error means the lookup itself failed.
package artwork

import (
	"context"
	"net/url"
	"strings"

	"github.com/llehouerou/airwaves/internal/metadata"
)

// DefaultSize is the edge length in pixels requested from providers that
// support sized artwork.
const DefaultSize = 300

// Resolver finds an artwork URL for metadata.
type Resolver interface {
	Resolve(ctx context.Context, md metadata.Metadata) (*url.URL, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, md metadata.Metadata) (*url.URL, error)

// Resolve calls f(ctx, md).
func (f ResolverFunc) Resolve(ctx context.Context, md metadata.Metadata) (*url.URL, error) {
	return f(ctx, md)
}

// Null never finds artwork.
type Null struct{}

// Resolve implements Resolver.
func (Null) Resolve(context.Context, metadata.Metadata) (*url.URL, error) {
	return nil, nil
}

// parseURL parses raw, treating an empty string as "not found".
func parseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	return url.Parse(raw)
}

// stripQuotes removes double quotes so a value can sit inside a quoted
// search field.
func stripQuotes(s string) string {
	return strings.ReplaceAll(s, "\"", "")
}
