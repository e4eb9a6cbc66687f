package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/git-pkgs/apihistory"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	overrides  map[string]*string
	verbose    bool
	asJSON     bool
}

// overrideFlags maps flag names to config keys.
var overrideFlags = map[string]string{
	"source":     "source",
	"nexus-home": "nexus_home",
	"repository": "repository_id",
	"group":      "group_id",
	"artifact":   "artifact_id",
	"classifier": "classifier",
	"purl":       "purl",
	"pending":    "snapshot_version_file",
	"since":      "since",
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{overrides: map[string]*string{}}

	root := &cobra.Command{
		Use:          "apihistory",
		Short:        "Plan the version comparisons of an API changelog",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&f.configPath, "config", "c", "", "config file (yaml or json)")
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&f.asJSON, "json", false, "print JSON")
	for name, key := range overrideFlags {
		f.overrides[name] = root.PersistentFlags().String(name, "", "overrides config key "+key)
	}

	root.AddCommand(newHistoryCmd(f), newVersionsCmd(f))
	return root
}

func newHistoryCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print the ordered version steps to compare",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := f.resolver(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			steps, err := r.History(cmd.Context())
			if err != nil {
				return err
			}
			return printSteps(cmd.OutOrStdout(), steps, f.asJSON)
		},
	}
}

func newVersionsCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "Print every version found, diffable or not",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := f.resolver(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			versions, err := r.Versions(cmd.Context())
			if err != nil {
				return err
			}
			return printVersions(cmd.OutOrStdout(), versions, f.asJSON)
		},
	}
}

func (f *rootFlags) resolver(logOut io.Writer) (*apihistory.Resolver, error) {
	overrides := make(map[string]string, len(f.overrides))
	for name, value := range f.overrides {
		overrides[overrideFlags[name]] = *value
	}
	cfg, err := apihistory.LoadConfigWithOptions(apihistory.LoadOptions{
		Path:      f.configPath,
		Overrides: overrides,
	})
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	return apihistory.NewResolver(*cfg, apihistory.WithLogger(logger))
}

type stepJSON struct {
	From         string `json:"from"`
	To           string `json:"to"`
	FromLocation string `json:"fromLocation"`
	ToLocation   string `json:"toLocation"`
}

func printSteps(w io.Writer, steps []apihistory.VersionStep, asJSON bool) error {
	if asJSON {
		out := make([]stepJSON, 0, len(steps))
		for _, s := range steps {
			out = append(out, stepJSON{
				From:         label(s.From),
				To:           label(s.To),
				FromLocation: apihistory.Location(s.From),
				ToLocation:   apihistory.Location(s.To),
			})
		}
		return writeJSON(w, out)
	}
	if len(steps) == 0 {
		_, err := fmt.Fprintln(w, "no changes: fewer than two comparable versions")
		return err
	}
	for _, s := range steps {
		if _, err := fmt.Fprintf(w, "%s -> %s\t%s\t%s\n", label(s.From), label(s.To),
			apihistory.Location(s.From), apihistory.Location(s.To)); err != nil {
			return err
		}
	}
	return nil
}

type versionJSON struct {
	Version  string `json:"version"`
	Diffable bool   `json:"diffable"`
	Location string `json:"location,omitempty"`
}

func printVersions(w io.Writer, versions []apihistory.ArtifactVersion, asJSON bool) error {
	if asJSON {
		out := make([]versionJSON, 0, len(versions))
		for _, v := range versions {
			out = append(out, versionJSON{Version: label(v), Diffable: apihistory.IsDiffable(v), Location: apihistory.Location(v)})
		}
		return writeJSON(w, out)
	}
	for _, v := range versions {
		mark := " "
		if !apihistory.IsDiffable(v) {
			mark = "-"
		}
		if _, err := fmt.Fprintf(w, "%s %s\t%s\n", mark, label(v), apihistory.Location(v)); err != nil {
			return err
		}
	}
	return nil
}

func label(v apihistory.ArtifactVersion) string {
	if v.IsPending() {
		return "pending"
	}
	return v.Version
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
