package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nexus(t *testing.T) *httptest.Server {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("..", "..", "testdata", "results.v2.json"))
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/service/local/lucene/search" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestHistoryCommand(t *testing.T) {
	srv := nexus(t)

	out, _, err := run(t, "history",
		"--nexus-home", srv.URL,
		"--purl", "pkg:maven/com.sonalake/order-state-service?classifier=openapi",
		"--pending", "build/openapi.json",
	)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "1.0.0 -> 1.0.1\t"))
	assert.True(t, strings.HasPrefix(lines[1], "1.0.1 -> 1.0.2\t"))
	assert.True(t, strings.HasPrefix(lines[2], "1.0.2 -> pending\t"))
	assert.True(t, strings.HasSuffix(lines[2], "\tbuild/openapi.json"))
}

func TestHistoryCommandJSON(t *testing.T) {
	srv := nexus(t)

	out, _, err := run(t, "history", "--json",
		"--nexus-home", srv.URL,
		"--group", "com.sonalake",
		"--artifact", "order-state-service",
		"--classifier", "openapi",
		"--since", "1.0.1",
	)
	require.NoError(t, err)

	var steps []stepJSON
	require.NoError(t, json.Unmarshal([]byte(out), &steps))
	require.Len(t, steps, 1)
	assert.Equal(t, "1.0.1", steps[0].From)
	assert.Equal(t, "1.0.2", steps[0].To)
	assert.Equal(t,
		"http://nexus/service/local/repositories/releases/content/com/sonalake/order-state-service/1.0.2/order-state-service-1.0.2-openapi.json",
		steps[0].ToLocation)
}

func TestHistoryCommandNoChanges(t *testing.T) {
	srv := nexus(t)

	out, _, err := run(t, "history",
		"--nexus-home", srv.URL,
		"--group", "com.sonalake",
		"--artifact", "order-state-service",
		"--since", "1.0.2",
	)
	require.NoError(t, err)
	assert.Equal(t, "no changes: fewer than two comparable versions\n", out)
}

func TestVersionsCommand(t *testing.T) {
	srv := nexus(t)

	out, _, err := run(t, "versions",
		"--nexus-home", srv.URL,
		"--group", "com.sonalake",
		"--artifact", "order-state-service",
		"--classifier", "openapi",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "- 1.0.2-RC1\t")
	assert.Contains(t, out, "  1.0.2\t")
}

func TestVersionsCommandWarnsAboutMissingDocuments(t *testing.T) {
	srv := nexus(t)

	_, stderr, err := run(t, "versions",
		"--nexus-home", srv.URL,
		"--group", "com.sonalake",
		"--artifact", "order-state-service",
		"--classifier", "openapi",
	)
	require.NoError(t, err)
	assert.Contains(t, stderr, "no document found for version")
	assert.Contains(t, stderr, "version=1.0.0")
}

func TestCommandRejectsInvalidConfig(t *testing.T) {
	_, _, err := run(t, "history", "--group", "com.sonalake", "--artifact", "order-state-service")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nexus_home")
}
