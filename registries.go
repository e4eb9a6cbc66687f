package apihistory

import (
	"context"

	"github.com/git-pkgs/registries"
	_ "github.com/git-pkgs/registries/all"
)

// RegistriesFinder reads the version list straight from a Maven registry.
// The artifact's RepositoryURL selects the registry; Maven Central is used
// when it is empty.
type RegistriesFinder struct {
	client *registries.Client
}

// NewRegistriesFinder creates a finder that queries registries directly.
func NewRegistriesFinder() *RegistriesFinder {
	return newRegistriesFinder()
}

func newRegistriesFinder() *RegistriesFinder {
	return &RegistriesFinder{
		client: registries.DefaultClient(),
	}
}

func (c *RegistriesFinder) FindVersions(ctx context.Context, a Artifact) ([]ArtifactVersion, error) {
	purlStr := a.PURL()
	reg, name, _, err := registries.NewFromPURL(purlStr, c.client)
	if err != nil {
		return nil, c.queryError(ErrParse, purlStr, a, err)
	}

	versions, err := reg.FetchVersions(ctx, name)
	if err != nil {
		return nil, c.queryError(ErrTransport, purlStr, a, err)
	}

	base := mavenBaseURL(a)
	result := make([]ArtifactVersion, 0, len(versions))
	for _, v := range versions {
		result = append(result, ArtifactVersion{
			Group:       a.Group,
			Artifact:    a.Name,
			Version:     v.Number,
			Classifier:  a.Classifier,
			DownloadURL: mavenURL(base, a, v.Number),
			PublishedAt: v.PublishedAt,
		})
	}
	return result, nil
}

func (c *RegistriesFinder) queryError(kind error, endpoint string, a Artifact, err error) *QueryError {
	return &QueryError{Kind: kind, Source: SourceRegistries, Endpoint: endpoint, Repository: a.RepositoryURL, Artifact: a, Err: err}
}
