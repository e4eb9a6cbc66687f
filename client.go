// Package apihistory finds the published versions of an API-description
// artifact in a binary repository (Nexus 2, Nexus 3, or a public Maven
// registry), orders them, and pairs neighbouring versions into the steps of
// a change history.
package apihistory

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/git-pkgs/purl"
)

// Finder lists the published versions of an artifact.
type Finder interface {
	// FindVersions returns every version the source knows about, in source
	// order. Entries whose document could not be located are kept with an
	// empty DownloadURL.
	FindVersions(ctx context.Context, a Artifact) ([]ArtifactVersion, error)
}

// Artifact identifies a component in a Maven-layout repository.
type Artifact struct {
	Group         string
	Name          string
	Classifier    string
	RepositoryURL string // optional, used by the registry finders
}

func (a Artifact) String() string {
	s := a.Group + ":" + a.Name
	if a.Classifier != "" {
		s += ":" + a.Classifier
	}
	return s
}

// ArtifactFromPURL parses a maven package URL such as
// pkg:maven/com.example/orders-api?classifier=openapi into an Artifact.
// Any version in the PURL is ignored.
func ArtifactFromPURL(s string) (Artifact, error) {
	p, err := purl.Parse(s)
	if err != nil {
		return Artifact{}, err
	}
	if p.Type != "maven" {
		return Artifact{}, fmt.Errorf("unsupported purl type %q, want maven", p.Type)
	}
	if p.Namespace == "" || p.Name == "" {
		return Artifact{}, fmt.Errorf("purl %q has no group or artifact", s)
	}
	return Artifact{
		Group:         p.Namespace,
		Name:          p.Name,
		Classifier:    p.Qualifier("classifier"),
		RepositoryURL: p.Qualifier("repository_url"),
	}, nil
}

// PURL renders the artifact as a maven package URL without a version.
func (a Artifact) PURL() string {
	s := fmt.Sprintf("pkg:maven/%s/%s", url.PathEscape(a.Group), url.PathEscape(a.Name))
	q := url.Values{}
	if a.Classifier != "" {
		q.Set("classifier", a.Classifier)
	}
	if a.RepositoryURL != "" {
		q.Set("repository_url", a.RepositoryURL)
	}
	if len(q) > 0 {
		s += "?" + q.Encode()
	}
	return s
}

// ArtifactVersion is one discovered build of an artifact.
type ArtifactVersion struct {
	Group      string
	Artifact   string
	Version    string // empty for the pending build
	Classifier string

	// Pending marks the not-yet-released build supplied from a local file.
	Pending bool

	DownloadURL string
	Path        string // local document path, pending build only
	PublishedAt time.Time
}

// NewPendingVersion returns the pending entry for a, read from path.
func NewPendingVersion(a Artifact, path string) ArtifactVersion {
	return ArtifactVersion{
		Group:      a.Group,
		Artifact:   a.Name,
		Classifier: a.Classifier,
		Pending:    true,
		Path:       path,
	}
}

// IsPending reports whether v is the pending build.
func (v ArtifactVersion) IsPending() bool {
	return v.Pending
}

// HasLocation reports whether there is a document to fetch for v.
func (v ArtifactVersion) HasLocation() bool {
	return Location(v) != ""
}

func (v ArtifactVersion) String() string {
	if v.Pending {
		return v.Group + ":" + v.Artifact + "@pending"
	}
	return v.Group + ":" + v.Artifact + "@" + v.Version
}

// VersionStep is a pair of neighbouring versions in the history.
// From always precedes To.
type VersionStep struct {
	From ArtifactVersion
	To   ArtifactVersion
}

// Location returns where the document for v can be read from: the local
// path for the pending build, the resolved download URL otherwise.
func Location(v ArtifactVersion) string {
	if v.Pending {
		return v.Path
	}
	return v.DownloadURL
}

// publishedAt parses an RFC 3339 publish time. A bad timestamp gives the zero
// time and a debug log line.
func publishedAt(logger *slog.Logger, v ArtifactVersion, raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		logger.Debug("ignoring unreadable publish time", "version", v.String(), "published_at", raw, "error", err)
		return time.Time{}
	}
	return t
}
