package apihistory

import (
	"context"
	"log/slog"
)

// Resolver produces the working set and history of one configured artifact.
type Resolver struct {
	cfg    Config
	finder Finder
	logger *slog.Logger
}

// NewResolver normalizes and validates cfg and creates the finder for its
// source.
func NewResolver(cfg Config, opts ...Option) (*Resolver, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	finder, err := newFinder(cfg, o)
	if err != nil {
		return nil, err
	}
	return &Resolver{cfg: cfg, finder: finder, logger: o.logger}, nil
}

// NewResolverWithFinder creates a resolver that looks versions up with f
// instead of the finder for cfg.Source.
func NewResolverWithFinder(cfg Config, f Finder, opts ...Option) (*Resolver, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	return &Resolver{cfg: cfg, finder: f, logger: o.logger}, nil
}

// Versions queries the source once and appends the pending build when one
// is configured. Released versions without a document location are kept
// and reported as warnings.
func (r *Resolver) Versions(ctx context.Context) ([]ArtifactVersion, error) {
	a := r.cfg.Artifact()
	versions, err := r.finder.FindVersions(ctx, a)
	if err != nil {
		return nil, err
	}

	for _, v := range versions {
		if !v.HasLocation() {
			r.logger.Warn("no document found for version",
				"artifact", a.String(), "version", v.Version, "classifier", a.Classifier)
		}
	}

	if r.cfg.PendingFile != "" {
		r.logger.Debug("adding pending version to history", "artifact", a.String(), "path", r.cfg.PendingFile)
		versions = append(versions, NewPendingVersion(a, r.cfg.PendingFile))
	}
	return versions, nil
}

// History returns the ordered steps of the artifact's change history. An
// artifact with fewer than two diffable versions has an empty history.
func (r *Resolver) History(ctx context.Context) ([]VersionStep, error) {
	versions, err := r.Versions(ctx)
	if err != nil {
		return nil, err
	}
	steps := BuildHistory(since(versions, r.cfg.Since))
	r.logger.Debug("built history", "artifact", r.cfg.Artifact().String(),
		"versions", len(versions), "steps", len(steps))
	return steps, nil
}

// ResolveHistory resolves the history of the artifact described by cfg.
func ResolveHistory(ctx context.Context, cfg Config, opts ...Option) ([]VersionStep, error) {
	r, err := NewResolver(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return r.History(ctx)
}
