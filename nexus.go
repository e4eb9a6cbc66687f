package apihistory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// adapter turns one Nexus search response into versions.
type adapter func(body []byte, a Artifact) (versions []ArtifactVersion, truncated bool, err error)

var adapters = map[Source]adapter{
	SourceNexus2: legacyVersions,
	SourceNexus3: modernVersions,
}

// NexusFinder queries the search API of a Nexus repository manager. One
// FindVersions call makes exactly one request.
type NexusFinder struct {
	generation   Source
	home         string
	repositoryID string
	username     string
	password     string
	httpClient   *http.Client
	userAgent    string
	logger       *slog.Logger
}

// NewNexusFinder creates a finder for the Nexus described by cfg.
func NewNexusFinder(cfg Config, opts ...Option) *NexusFinder {
	return newNexusFinder(cfg, buildOptions(opts))
}

func newNexusFinder(cfg Config, o options) *NexusFinder {
	generation := cfg.Source
	if generation != SourceNexus3 {
		generation = SourceNexus2
	}
	return &NexusFinder{
		generation:   generation,
		home:         strings.TrimSuffix(cfg.RepositoryHome, "/"),
		repositoryID: cfg.RepositoryID,
		username:     cfg.Username,
		password:     cfg.Password,
		httpClient:   o.httpClient,
		userAgent:    o.userAgent,
		logger:       o.logger,
	}
}

func (c *NexusFinder) FindVersions(ctx context.Context, a Artifact) ([]ArtifactVersion, error) {
	u := c.searchURL(a)
	c.logger.Debug("querying nexus", "generation", c.generation, "url", u)

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, c.queryError(ErrTransport, u, a, err)
	}

	versions, truncated, err := adapters[c.generation](body, a)
	if err != nil {
		return nil, c.queryError(ErrParse, u, a, err)
	}
	if truncated {
		c.logger.Warn("nexus returned a partial result, older versions may be missing",
			"artifact", a.String(), "repository", c.repositoryID)
	}
	c.logger.Debug("nexus search complete", "artifact", a.String(), "versions", len(versions))
	return versions, nil
}

// searchURL builds the search query. The two API generations use different
// endpoints and parameter names.
func (c *NexusFinder) searchURL(a Artifact) string {
	q := url.Values{}
	var path string
	switch c.generation {
	case SourceNexus3:
		path = "/service/rest/v1/search"
		q.Set("repository", c.repositoryID)
		q.Set("group", a.Group)
		q.Set("maven.artifactId", a.Name)
		q.Set("maven.extension", documentExtension)
		if a.Classifier != "" {
			q.Set("maven.classifier", a.Classifier)
		}
	default:
		path = "/service/local/lucene/search"
		q.Set("g", a.Group)
		q.Set("a", a.Name)
		q.Set("p", documentExtension)
		q.Set("repositoryId", c.repositoryID)
		if a.Classifier != "" {
			q.Set("c", a.Classifier)
		}
	}
	return c.home + path + "?" + q.Encode()
}

func (c *NexusFinder) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("nexus: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

func (c *NexusFinder) queryError(kind error, endpoint string, a Artifact, err error) *QueryError {
	return &QueryError{
		Kind:       kind,
		Source:     c.generation,
		Endpoint:   endpoint,
		Repository: c.repositoryID,
		Artifact:   a,
		Err:        err,
	}
}
