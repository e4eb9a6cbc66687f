package apihistory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testGroup    = "com.sonalake"
	testArtifact = "order-state-service"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func byVersion(versions []ArtifactVersion) map[string]ArtifactVersion {
	m := make(map[string]ArtifactVersion, len(versions))
	for _, v := range versions {
		m[v.Version] = v
	}
	return m
}

func TestLegacyVersionsWithoutClassifier(t *testing.T) {
	versions, truncated, err := legacyVersions(fixture(t, "results.v2.json"), Artifact{Group: testGroup, Name: testArtifact})
	require.NoError(t, err)
	assert.False(t, truncated)
	require.Len(t, versions, 4)

	got := byVersion(versions)
	assert.Equal(t, "http://nexus/service/local/repositories/releases/content/com/sonalake/order-state-service/1.0.2/order-state-service-1.0.2.json", got["1.0.2"].DownloadURL)
	assert.Equal(t, "http://nexus/service/local/repositories/releases/content/com/sonalake/order-state-service/1.0.1/order-state-service-1.0.1.json", got["1.0.1"].DownloadURL)
	assert.Equal(t, testGroup, got["1.0.1"].Group)
	assert.Equal(t, testArtifact, got["1.0.1"].Artifact)

	// 1.0.0 only published a jar: kept, but nothing to fetch.
	assert.Contains(t, got, "1.0.0")
	assert.Empty(t, got["1.0.0"].DownloadURL)
	assert.False(t, got["1.0.0"].HasLocation())
}

func TestLegacyVersionsWithClassifier(t *testing.T) {
	a := Artifact{Group: testGroup, Name: testArtifact, Classifier: "openapi"}
	versions, _, err := legacyVersions(fixture(t, "results.v2.json"), a)
	require.NoError(t, err)

	got := byVersion(versions)
	assert.Equal(t, "http://nexus/service/local/repositories/releases/content/com/sonalake/order-state-service/1.0.2/order-state-service-1.0.2-openapi.json", got["1.0.2"].DownloadURL)
	assert.Equal(t, "http://nexus/service/local/repositories/releases/content/com/sonalake/order-state-service/1.0.1/order-state-service-1.0.1-openapi.json", got["1.0.1"].DownloadURL)
	assert.Equal(t, "openapi", got["1.0.1"].Classifier)
	assert.Empty(t, got["1.0.0"].DownloadURL)
}

func TestLegacyVersionsUnknownRepository(t *testing.T) {
	body := []byte(`{
		"repoDetails": [],
		"data": [{"groupId": "g", "artifactId": "a", "version": "1.0",
			"artifactHits": [{"repositoryId": "gone", "artifactLinks": [{"extension": "json"}]}]}]
	}`)

	versions, _, err := legacyVersions(body, Artifact{Group: "g", Name: "a"})
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Empty(t, versions[0].DownloadURL)
}

func TestLegacyVersionsTruncated(t *testing.T) {
	_, truncated, err := legacyVersions([]byte(`{"tooManyResults": true, "data": []}`), Artifact{})
	require.NoError(t, err)
	assert.True(t, truncated)
}

func TestModernVersionsWithoutClassifier(t *testing.T) {
	versions, truncated, err := modernVersions(fixture(t, "results.v3.json"), Artifact{Group: testGroup, Name: testArtifact})
	require.NoError(t, err)
	assert.False(t, truncated)
	require.Len(t, versions, 2)

	got := byVersion(versions)
	assert.Equal(t, "http://nexus/repository/sample-repo/com/sonalake/order-state-service/1.0.1/order-state-service-1.0.1-openapi.json", got["1.0.1"].DownloadURL)
	assert.Equal(t, "http://nexus/repository/sample-repo/com/sonalake/order-state-service/1.0.2/order-state-service-1.0.2-openapi.json", got["1.0.2"].DownloadURL)
	assert.Equal(t, testGroup, got["1.0.2"].Group)
	assert.Equal(t, testArtifact, got["1.0.2"].Artifact)
}

func TestModernVersionsWithClassifier(t *testing.T) {
	a := Artifact{Group: testGroup, Name: testArtifact, Classifier: "asyncapi"}
	versions, _, err := modernVersions(fixture(t, "results.v3.json"), a)
	require.NoError(t, err)

	got := byVersion(versions)
	assert.Equal(t, "http://nexus/repository/sample-repo/com/sonalake/order-state-service/1.0.2/order-state-service-1.0.2-asyncapi.json", got["1.0.2"].DownloadURL)
	// 1.0.1 has no asyncapi document.
	assert.Empty(t, got["1.0.1"].DownloadURL)
}

func TestModernVersionsTruncated(t *testing.T) {
	_, truncated, err := modernVersions([]byte(`{"items": [], "continuationToken": "abc"}`), Artifact{})
	require.NoError(t, err)
	assert.True(t, truncated)
}

func TestLegacyVersionsPrefersJSONDocument(t *testing.T) {
	body := []byte(`{
		"repoDetails": [{"repositoryId": "r", "repositoryURL": "http://n/r"}],
		"data": [{"groupId": "g", "artifactId": "a", "version": "1.0",
			"artifactHits": [{"repositoryId": "r", "artifactLinks": [
				{"classifier": "openapi", "extension": "yaml"},
				{"classifier": "sources", "extension": "jar"},
				{"classifier": "openapi", "extension": "json"}
			]}]},
			{"groupId": "g", "artifactId": "a", "version": "1.1",
			"artifactHits": [{"repositoryId": "r", "artifactLinks": [
				{"classifier": "openapi", "extension": "yaml"}
			]}]}]
	}`)

	versions, _, err := legacyVersions(body, Artifact{Group: "g", Name: "a", Classifier: "openapi"})
	require.NoError(t, err)

	got := byVersion(versions)
	assert.Equal(t, "http://n/r/content/g/a/1.0/a-1.0-openapi.json", got["1.0"].DownloadURL)
	assert.Empty(t, got["1.1"].DownloadURL, "a yaml-only version has no json document")
}

func TestAdaptersEmptyResults(t *testing.T) {
	bodies := map[Source]string{
		SourceNexus2: `{"tooManyResults": false, "repoDetails": [], "data": []}`,
		SourceNexus3: `{"items": [], "continuationToken": null}`,
	}
	for generation, adapt := range adapters {
		t.Run(string(generation), func(t *testing.T) {
			versions, _, err := adapt([]byte(bodies[generation]), Artifact{Group: "g", Name: "a"})
			require.NoError(t, err)
			require.NotNil(t, versions)
			assert.Empty(t, versions)
		})
	}
}

func TestAdaptersMalformedJSON(t *testing.T) {
	bodies := map[string]string{
		"not json":       "this be no json",
		"wrong shape":    `[1, 2, 3]`,
		"truncated body": `{"items": [`,
		"null":           `null`,
		"empty object":   `{}`,
		"unknown keys":   `{"foo": 1}`,
		"null list":      `{"data": null, "items": null}`,
	}
	for generation, adapt := range adapters {
		for name, body := range bodies {
			t.Run(string(generation)+"/"+name, func(t *testing.T) {
				_, _, err := adapt([]byte(body), Artifact{})
				assert.Error(t, err)
			})
		}
	}
}

func TestAdaptersRejectOtherGeneration(t *testing.T) {
	_, _, err := legacyVersions(fixture(t, "results.v3.json"), Artifact{})
	assert.Error(t, err, "a nexus 3 body is not a nexus 2 response")

	_, _, err = legacyVersions([]byte(`{"items": "x"}`), Artifact{})
	assert.Error(t, err)

	_, _, err = modernVersions(fixture(t, "results.v2.json"), Artifact{})
	assert.Error(t, err, "a nexus 2 body is not a nexus 3 response")
}

func TestMavenPath(t *testing.T) {
	assert.Equal(t, "com/example/api/1.2/api-1.2.json", mavenPath("com.example", "api", "1.2", "", "json"))
	assert.Equal(t, "com/example/api/1.2/api-1.2-openapi.json", mavenPath("com.example", "api", "1.2", "openapi", "json"))
}

func TestMavenURL(t *testing.T) {
	a := Artifact{Group: "com.example", Name: "api", Classifier: "openapi"}
	assert.Equal(t, "https://repo.example.com/maven2/com/example/api/2.0/api-2.0-openapi.json",
		mavenURL("https://repo.example.com/maven2/", a, "2.0"))
}
