package apihistory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"log/slog"
	"net/url"

	"github.com/git-pkgs/purl"
)

// DepsDevFinder lists Maven Central versions through the deps.dev v3 REST
// API. Documents are located in the Maven layout of the artifact's
// repository, Maven Central by default.
type DepsDevFinder struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// NewDepsDevFinder creates a finder for the deps.dev API.
func NewDepsDevFinder(opts ...Option) *DepsDevFinder {
	return newDepsDevFinder(buildOptions(opts))
}

func newDepsDevFinder(o options) *DepsDevFinder {
	return &DepsDevFinder{
		baseURL:    "https://api.deps.dev",
		httpClient: o.httpClient,
		userAgent:  o.userAgent,
		logger:     o.logger,
	}
}

func (c *DepsDevFinder) FindVersions(ctx context.Context, a Artifact) ([]ArtifactVersion, error) {
	system := purl.PURLTypeToDepsdev("maven")
	name := a.Group + ":" + a.Name
	u := fmt.Sprintf("%s/v3/systems/%s/packages/%s", c.baseURL, system, url.PathEscape(name))

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, c.queryError(ErrTransport, u, a, err)
	}

	var resp depsdevPackageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, c.queryError(ErrParse, u, a, err)
	}

	base := mavenBaseURL(a)
	result := make([]ArtifactVersion, 0, len(resp.Versions))
	for _, v := range resp.Versions {
		number := v.VersionKey.Version
		av := ArtifactVersion{
			Group:       a.Group,
			Artifact:    a.Name,
			Version:     number,
			Classifier:  a.Classifier,
			DownloadURL: mavenURL(base, a, number),
		}
		av.PublishedAt = publishedAt(c.logger, av, v.PublishedAt)
		result = append(result, av)
	}
	return result, nil
}

type depsdevPackageResponse struct {
	PackageKey struct {
		System string `json:"system"`
		Name   string `json:"name"`
	} `json:"packageKey"`
	Versions []depsdevVersion `json:"versions"`
}

type depsdevVersion struct {
	VersionKey struct {
		System  string `json:"system"`
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"versionKey"`
	PublishedAt string `json:"publishedAt"`
	IsDefault   bool   `json:"isDefault"`
}

func (c *DepsDevFinder) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("deps.dev: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func (c *DepsDevFinder) queryError(kind error, endpoint string, a Artifact, err error) *QueryError {
	return &QueryError{Kind: kind, Source: SourceDepsDev, Endpoint: endpoint, Artifact: a, Err: err}
}
