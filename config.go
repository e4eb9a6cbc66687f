package apihistory

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/git-pkgs/vers"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes the environment variables read by LoadConfig, e.g.
// APIHISTORY_REPOSITORY_ID.
const EnvPrefix = "APIHISTORY_"

const defaultRepositoryID = "releases"

// Config describes one artifact and where to look for its versions.
type Config struct {
	// Source selects the lookup API; nexus2 when empty.
	Source Source `koanf:"source"`

	// RepositoryHome is the Nexus base URL, e.g. https://nexus.example.com/nexus.
	RepositoryHome string `koanf:"nexus_home"`
	// RepositoryID is the Nexus repository to search. Default: releases.
	RepositoryID string `koanf:"repository_id"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`

	GroupID    string `koanf:"group_id"`
	ArtifactID string `koanf:"artifact_id"`
	Classifier string `koanf:"classifier"`
	// RepositoryURL is a Maven-layout repository for the registry sources.
	RepositoryURL string `koanf:"repository_url"`
	// PURL sets the coordinates above from a package URL. Fields that are
	// set explicitly win over the PURL.
	PURL string `koanf:"purl"`

	// PendingFile is a local document for the unreleased build. When set it
	// is always the last version in the history.
	PendingFile string `koanf:"snapshot_version_file"`

	// Since drops released versions older than this one.
	Since string `koanf:"since"`
}

// Artifact returns the configured coordinates.
func (c Config) Artifact() Artifact {
	return Artifact{
		Group:         c.GroupID,
		Name:          c.ArtifactID,
		Classifier:    c.Classifier,
		RepositoryURL: c.RepositoryURL,
	}
}

// Normalize applies defaults and fills coordinates from PURL.
func (c *Config) Normalize() error {
	if c.Source == "" {
		c.Source = SourceNexus2
	}
	c.Source = Source(strings.ToLower(string(c.Source)))
	if c.RepositoryID == "" {
		c.RepositoryID = defaultRepositoryID
	}
	if c.PURL != "" {
		a, err := ArtifactFromPURL(c.PURL)
		if err != nil {
			return fmt.Errorf("%w: purl: %v", ErrInvalidConfig, err)
		}
		c.GroupID = firstNonEmpty(c.GroupID, a.Group)
		c.ArtifactID = firstNonEmpty(c.ArtifactID, a.Name)
		c.Classifier = firstNonEmpty(c.Classifier, a.Classifier)
		c.RepositoryURL = firstNonEmpty(c.RepositoryURL, a.RepositoryURL)
	}
	return nil
}

// Validate reports the first problem that would stop a query.
func (c Config) Validate() error {
	if !c.Source.valid() {
		return fmt.Errorf("%w: unknown source %q, want one of %v", ErrInvalidConfig, c.Source, Sources())
	}
	if c.GroupID == "" {
		return fmt.Errorf("%w: group_id is required", ErrInvalidConfig)
	}
	if c.ArtifactID == "" {
		return fmt.Errorf("%w: artifact_id is required", ErrInvalidConfig)
	}
	if c.Source.isNexus() && c.RepositoryHome == "" {
		return fmt.Errorf("%w: nexus_home is required for source %s", ErrInvalidConfig, c.Source)
	}
	if c.Since != "" && !vers.Valid(c.Since) {
		return fmt.Errorf("%w: since %q is not a version", ErrInvalidConfig, c.Since)
	}
	return nil
}

// String describes the query without credentials.
func (c Config) String() string {
	return fmt.Sprintf("%s from %s (source %s, repository %s)", c.Artifact(), c.RepositoryHome, c.Source, c.RepositoryID)
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// Path is a YAML or JSON config file. Optional.
	Path string
	// Overrides are applied last, keyed like the file, e.g. "group_id".
	// Empty values are skipped.
	Overrides map[string]string
}

// LoadConfig reads a YAML or JSON config file, when path is not empty, and
// then APIHISTORY_* environment variables, which take precedence. The result
// is normalized and validated.
func LoadConfig(path string) (*Config, error) {
	return LoadConfigWithOptions(LoadOptions{Path: path})
}

// LoadConfigWithOptions loads configuration with the priority
// overrides > environment > file.
func LoadConfigWithOptions(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if opts.Path != "" {
		var parser koanf.Parser = yaml.Parser()
		if strings.EqualFold(filepath.Ext(opts.Path), ".json") {
			parser = json.Parser()
		}
		if err := k.Load(file.Provider(opts.Path), parser); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", opts.Path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	for key, value := range opts.Overrides {
		if value != "" {
			if err := k.Set(key, value); err != nil {
				return nil, fmt.Errorf("setting %s: %w", key, err)
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps APIHISTORY_GROUP_ID to group_id.
func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
