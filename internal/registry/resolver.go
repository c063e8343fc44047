package registry

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
)

// Source is one way of finding a package's release-information URL.
// An empty URL with a nil error means the source had nothing usable.
type Source interface {
	ProjectURL(ctx context.Context, name string) (string, error)
}

// Resolver tries each source in order and falls back to the public
// registry page. It never fails.
type Resolver struct {
	sources []Source
}

// NewResolver creates a resolver over sources.
func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

// LookupURL returns the first usable URL for name.
func (r *Resolver) LookupURL(ctx context.Context, name string) string {
	for _, s := range r.sources {
		u, err := s.ProjectURL(ctx, name)
		if err != nil {
			logger.Debugf("url lookup for %s via %T failed: %v", name, s, err)
			continue
		}
		if isHTTP(u) {
			return u
		}
	}
	return FallbackURL(name)
}

// FallbackURL is the public registry project page for name.
func FallbackURL(name string) string {
	return fmt.Sprintf("https://pypi.org/project/%s/", name)
}
