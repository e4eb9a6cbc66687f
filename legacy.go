package apihistory

import (
	"encoding/json"
	"errors"
	"strings"
)

// legacyResponse is the Nexus 2 lucene search payload.
type legacyResponse struct {
	TooManyResults bool          `json:"tooManyResults"`
	RepoDetails    []legacyRepo  `json:"repoDetails"`
	Data           *[]legacyItem `json:"data"`
}

type legacyRepo struct {
	RepositoryID  string `json:"repositoryId"`
	RepositoryURL string `json:"repositoryURL"`
}

type legacyItem struct {
	GroupID      string      `json:"groupId"`
	ArtifactID   string      `json:"artifactId"`
	Version      string      `json:"version"`
	ArtifactHits []legacyHit `json:"artifactHits"`
}

type legacyHit struct {
	RepositoryID  string       `json:"repositoryId"`
	ArtifactLinks []legacyLink `json:"artifactLinks"`
}

type legacyLink struct {
	Classifier string `json:"classifier"`
	Extension  string `json:"extension"`
}

var errNoLegacyData = errors.New("not a nexus 2 search response: no data array")

// legacyVersions normalizes a Nexus 2 search response. The download URL is
// composed from the base URL of the repository holding the matched json link.
// truncated is set when Nexus capped the result set.
func legacyVersions(body []byte, a Artifact) (versions []ArtifactVersion, truncated bool, err error) {
	var resp legacyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, false, err
	}
	if resp.Data == nil {
		return nil, false, errNoLegacyData
	}

	repos := make(map[string]string, len(resp.RepoDetails))
	for _, r := range resp.RepoDetails {
		repos[r.RepositoryID] = r.RepositoryURL
	}

	items := *resp.Data
	result := make([]ArtifactVersion, 0, len(items))
	for _, item := range items {
		v := ArtifactVersion{
			Group:      item.GroupID,
			Artifact:   item.ArtifactID,
			Version:    item.Version,
			Classifier: a.Classifier,
		}
		if repoID, ok := item.findDocument(a.Classifier); ok {
			if base, ok := repos[repoID]; ok && base != "" {
				v.DownloadURL = strings.TrimSuffix(base, "/") + "/content/" +
					mavenPath(item.GroupID, item.ArtifactID, item.Version, a.Classifier, documentExtension)
			}
		}
		result = append(result, v)
	}
	return result, resp.TooManyResults, nil
}

// findDocument returns the repository of the first json link carrying the
// classifier, across all hits.
func (i legacyItem) findDocument(classifier string) (repoID string, ok bool) {
	for _, hit := range i.ArtifactHits {
		for _, l := range hit.ArtifactLinks {
			if l.Classifier == classifier && l.Extension == documentExtension {
				return hit.RepositoryID, true
			}
		}
	}
	return "", false
}
