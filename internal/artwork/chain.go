package artwork

import (
	"context"
	"io"
	"net/url"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/airwaves/internal/metadata"
)

// Named is a Resolver with a name used in logs.
type Named struct {
	Name string
	Resolver
}

// Chain asks each resolver in turn and returns the first artwork found.
// A failing resolver is logged and skipped.
type Chain struct {
	resolvers []Named
	logger    *log.Logger
}

// NewChain creates a Chain. A nil logger discards messages.
func NewChain(logger *log.Logger, resolvers ...Named) *Chain {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Chain{resolvers: resolvers, logger: logger}
}

// Resolve implements Resolver. It returns an error only when every resolver
// failed, or when ctx is done.
func (c *Chain) Resolve(ctx context.Context, md metadata.Metadata) (*url.URL, error) {
	var lastErr error
	failed := 0
	for _, r := range c.resolvers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		u, err := r.Resolve(ctx, md)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Debug("artwork lookup failed", "provider", r.Name, "query", md.String(), "err", err)
			lastErr = err
			failed++
			continue
		}
		if u != nil {
			c.logger.Debug("artwork found", "provider", r.Name, "query", md.String(), "url", u)
			return u, nil
		}
	}
	if failed > 0 && failed == len(c.resolvers) {
		return nil, lastErr
	}
	return nil, nil
}
