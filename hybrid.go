package apihistory

import (
	"context"

	"github.com/git-pkgs/purl"
)

// HybridFinder routes on the artifact's repository.
// Artifacts with a repository URL go to the registry, others to ecosyste.ms.
type HybridFinder struct {
	ecosystems *EcosystemsFinder
	registries *RegistriesFinder
}

// NewHybridFinder creates a finder that routes on the repository URL.
func NewHybridFinder(opts ...Option) (*HybridFinder, error) {
	return newHybridFinder(buildOptions(opts))
}

func newHybridFinder(o options) (*HybridFinder, error) {
	eco, err := newEcosystemsFinder(o)
	if err != nil {
		return nil, err
	}
	return &HybridFinder{
		ecosystems: eco,
		registries: newRegistriesFinder(),
	}, nil
}

func (c *HybridFinder) FindVersions(ctx context.Context, a Artifact) ([]ArtifactVersion, error) {
	if hasRepositoryURL(a.PURL()) {
		return c.registries.FindVersions(ctx, a)
	}
	return c.ecosystems.FindVersions(ctx, a)
}

// hasRepositoryURL checks if a PURL has a repository_url qualifier.
func hasRepositoryURL(purlStr string) bool {
	p, err := purl.Parse(purlStr)
	if err != nil {
		return false
	}
	return p.Qualifier("repository_url") != ""
}
