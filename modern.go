package apihistory

import (
	"encoding/json"
	"errors"
	"strings"
)

// modernResponse is the Nexus 3 REST search payload.
type modernResponse struct {
	Items             *[]modernItem `json:"items"`
	ContinuationToken string        `json:"continuationToken"`
}

type modernItem struct {
	Group   string        `json:"group"`
	Name    string        `json:"name"`
	Version string        `json:"version"`
	Assets  []modernAsset `json:"assets"`
}

type modernAsset struct {
	Path        string `json:"path"`
	DownloadURL string `json:"downloadUrl"`
}

var errNoModernItems = errors.New("not a nexus 3 search response: no items array")

// modernVersions normalizes a Nexus 3 search response. Each item already
// carries its assets, so the download URL is taken as is. truncated is set
// when the response points at a further page.
func modernVersions(body []byte, a Artifact) (versions []ArtifactVersion, truncated bool, err error) {
	var resp modernResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, false, err
	}
	if resp.Items == nil {
		return nil, false, errNoModernItems
	}
	return resp.versions(a), resp.ContinuationToken != "", nil
}

func (r *modernResponse) versions(a Artifact) []ArtifactVersion {
	suffix := "." + documentExtension
	if a.Classifier != "" {
		suffix = "-" + a.Classifier + suffix
	}

	items := *r.Items
	result := make([]ArtifactVersion, 0, len(items))
	for _, item := range items {
		v := ArtifactVersion{
			Group:      item.Group,
			Artifact:   item.Name,
			Version:    item.Version,
			Classifier: a.Classifier,
		}
		for _, asset := range item.Assets {
			if strings.HasSuffix(asset.Path, suffix) {
				v.DownloadURL = asset.DownloadURL
				break
			}
		}
		result = append(result, v)
	}
	return result
}
