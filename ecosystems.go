package apihistory

import (
	"context"
	"log/slog"

	"github.com/ecosyste-ms/ecosystems-go"
)

// EcosystemsFinder lists versions through the ecosyste.ms packages API.
type EcosystemsFinder struct {
	client *ecosystems.Client
	logger *slog.Logger
}

// NewEcosystemsFinder creates a finder that uses the ecosyste.ms API.
func NewEcosystemsFinder(opts ...Option) (*EcosystemsFinder, error) {
	return newEcosystemsFinder(buildOptions(opts))
}

func newEcosystemsFinder(o options) (*EcosystemsFinder, error) {
	client, err := ecosystems.NewClient(o.userAgent)
	if err != nil {
		return nil, err
	}
	return &EcosystemsFinder{client: client, logger: o.logger}, nil
}

func (c *EcosystemsFinder) FindVersions(ctx context.Context, a Artifact) ([]ArtifactVersion, error) {
	purlStr := a.PURL()
	p, err := ecosystems.ParsePURL(purlStr)
	if err != nil {
		return nil, c.queryError(ErrParse, purlStr, a, err)
	}

	versions, err := c.client.GetAllVersionsPURL(ctx, p)
	if err != nil {
		return nil, c.queryError(ErrTransport, purlStr, a, err)
	}

	base := mavenBaseURL(a)
	result := make([]ArtifactVersion, 0, len(versions))
	for _, v := range versions {
		av := ArtifactVersion{
			Group:       a.Group,
			Artifact:    a.Name,
			Version:     v.Number,
			Classifier:  a.Classifier,
			DownloadURL: mavenURL(base, a, v.Number),
		}
		if v.PublishedAt != nil {
			av.PublishedAt = publishedAt(c.logger, av, *v.PublishedAt)
		}
		result = append(result, av)
	}
	return result, nil
}

func (c *EcosystemsFinder) queryError(kind error, endpoint string, a Artifact, err error) *QueryError {
	return &QueryError{Kind: kind, Source: SourceEcosystems, Endpoint: endpoint, Artifact: a, Err: err}
}
