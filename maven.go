package apihistory

import (
	"strings"

	"github.com/git-pkgs/registries"
)

const documentExtension = "json"

// mavenPath is the repository-relative path of one file in the Maven layout:
// com/example/orders-api/1.2/orders-api-1.2[-classifier].ext
func mavenPath(group, artifact, version, classifier, ext string) string {
	file := artifact + "-" + version
	if classifier != "" {
		file += "-" + classifier
	}
	file += "." + ext
	return strings.Join([]string{
		strings.ReplaceAll(group, ".", "/"),
		artifact,
		version,
		file,
	}, "/")
}

// mavenURL joins a repository base URL and the Maven path of a document.
func mavenURL(base string, a Artifact, version string) string {
	return strings.TrimSuffix(base, "/") + "/" + mavenPath(a.Group, a.Name, version, a.Classifier, documentExtension)
}

// mavenBaseURL returns the artifact's own repository, or Maven Central.
func mavenBaseURL(a Artifact) string {
	if a.RepositoryURL != "" {
		return a.RepositoryURL
	}
	return registries.DefaultURL("maven")
}
