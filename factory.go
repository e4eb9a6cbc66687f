package apihistory

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultUserAgent = "apihistory"
	defaultTimeout   = 30 * time.Second
)

// Source names where the versions of an artifact are looked up.
type Source string

const (
	SourceNexus2     Source = "nexus2"     // Nexus 2 lucene search API
	SourceNexus3     Source = "nexus3"     // Nexus 3 REST search API
	SourceDepsDev    Source = "depsdev"    // deps.dev, Maven Central artifacts
	SourceEcosystems Source = "ecosystems" // ecosyste.ms, Maven Central artifacts
	SourceRegistries Source = "registries" // Maven registry metadata, queried directly
	SourceHybrid     Source = "hybrid"     // registries with a repository URL, ecosyste.ms otherwise
)

// Sources lists every supported source.
func Sources() []Source {
	return []Source{SourceNexus2, SourceNexus3, SourceDepsDev, SourceEcosystems, SourceRegistries, SourceHybrid}
}

func (s Source) valid() bool {
	for _, known := range Sources() {
		if s == known {
			return true
		}
	}
	return false
}

func (s Source) isNexus() bool {
	return s == SourceNexus2 || s == SourceNexus3
}

// Option configures finders and resolvers.
type Option func(*options)

type options struct {
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// WithUserAgent sets the User-Agent header for API requests.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithHTTPClient replaces the HTTP client used for repository queries.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger sets the logger for debug output and warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func buildOptions(opts []Option) options {
	o := options{userAgent: defaultUserAgent}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// NewFinder creates the finder for cfg.Source.
//
// Nexus sources need cfg.RepositoryHome and query cfg.RepositoryID. The
// public sources resolve documents against Maven Central, or against the
// artifact's repository URL where the source supports one.
func NewFinder(cfg Config, opts ...Option) (Finder, error) {
	return newFinder(cfg, buildOptions(opts))
}

func newFinder(cfg Config, o options) (Finder, error) {
	switch cfg.Source {
	case SourceNexus2, SourceNexus3, "":
		return newNexusFinder(cfg, o), nil
	case SourceDepsDev:
		return newDepsDevFinder(o), nil
	case SourceEcosystems:
		f, err := newEcosystemsFinder(o)
		if err != nil {
			return nil, err
		}
		return f, nil
	case SourceRegistries:
		return newRegistriesFinder(), nil
	case SourceHybrid:
		f, err := newHybridFinder(o)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return nil, fmt.Errorf("%w: unknown source %q", ErrInvalidConfig, cfg.Source)
}
