// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/z5labs/envcompose"
	"github.com/z5labs/envcompose/config"
	"github.com/z5labs/envcompose/config/key"
	"github.com/z5labs/envcompose/merge"
	"github.com/z5labs/envcompose/pkg/slogfield"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// UnknownFormatError occurs when the requested output format is not supported.
type UnknownFormatError struct {
	Format string
}

// Error implements the error interface.
func (e UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown output format: %s", e.Format)
}

// BaseConfigError occurs when the base config file can not be read.
type BaseConfigError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e BaseConfigError) Error() string {
	return fmt.Sprintf("failed to read base config from %q: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e BaseConfigError) Unwrap() error {
	return e.Cause
}

func newComposeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Print the base config merged with an environment config",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = runE(v, func(ctx context.Context, cmd *cobra.Command, s session) error {
		return compose(ctx, cmd, v, s)
	})

	flags := cmd.Flags()
	flags.String("env", "", "environment to compose, overrides the environment variable")
	flags.String("base", "", "path to the base config file (yaml or json)")
	flags.StringToString("var", nil, "extra values passed to the environment config, e.g. analyze=true")
	flags.String("format", "yaml", "output format: yaml or json")
	flags.Bool("template", false, "render environment config files as Go templates")
	flags.String("schema", "", "path to a JSON schema the composed config must satisfy")
	flags.Bool("watch", false, "compose again whenever a config file is written")
	flags.StringToString("unique", nil, "de-duplicate list entries at a path by a field, e.g. plugins=name")
	flags.StringSlice("replace", nil, "paths whose environment value replaces the base value")
	return cmd
}

func compose(ctx context.Context, cmd *cobra.Command, v *viper.Viper, s session) error {
	format := strings.ToLower(v.GetString("format"))
	if format != "yaml" && format != "json" {
		return UnknownFormatError{Format: format}
	}

	var schema []byte
	if p := v.GetString("schema"); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		schema = b
	}

	vars, err := cmd.Flags().GetStringToString("var")
	if err != nil {
		return err
	}
	mergeOpts, err := mergeOptions(cmd)
	if err != nil {
		return err
	}

	var resolverOpts []envcompose.FileResolverOption
	if v.GetBool("template") {
		resolverOpts = append(resolverOpts, envcompose.RenderTemplates())
	}
	resolver := newFileResolver(v, resolverOpts...)
	desc := descriptor(v.GetString("env"), vars)
	basePath := v.GetString("base")

	run := func(ctx context.Context) error {
		base, err := readBase(basePath)
		if err != nil {
			return err
		}

		opts := append(composerOptions(v, s), envcompose.WithMergeOptions(mergeOpts...))
		m, err := envcompose.New(base, resolver, opts...).Compose(ctx, desc)
		if err != nil {
			return err
		}
		if schema != nil {
			err = validateSchema(schema, m)
			if err != nil {
				return err
			}
		}
		return writeConfig(cmd.OutOrStdout(), format, m)
	}

	if !v.GetBool("watch") {
		return run(ctx)
	}

	err = run(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to compose config", slogfield.Error(err))
	}

	w := watcher{
		log:      s.log,
		paths:    watchPaths(v.GetString("dir"), basePath),
		relevant: relevantFiles(v.GetString("prefix"), basePath),
	}
	return w.watch(ctx, func(ctx context.Context) error {
		s.log.InfoContext(ctx, "config files changed, composing again")
		return run(ctx)
	})
}

func mergeOptions(cmd *cobra.Command) ([]merge.Option, error) {
	unique, err := cmd.Flags().GetStringToString("unique")
	if err != nil {
		return nil, err
	}
	replace, err := cmd.Flags().GetStringSlice("replace")
	if err != nil {
		return nil, err
	}

	var opts []merge.Option
	for path, field := range unique {
		opts = append(opts, merge.Unique(key.ParseChain(path), field))
	}
	for _, path := range replace {
		opts = append(opts, merge.Customize(key.ParseChain(path), merge.Replace))
	}
	return opts, nil
}

func readBase(p string) (config.Map, error) {
	if p == "" {
		return nil, nil
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, BaseConfigError{Path: p, Cause: err}
	}

	var m config.Map
	if filepath.Ext(p) == ".json" {
		m, err = config.DecodeJson(f)
	} else {
		m, err = config.DecodeYaml(f)
	}
	if err != nil {
		return nil, BaseConfigError{Path: p, Cause: err}
	}
	return m, nil
}

func writeConfig(w io.Writer, format string, m config.Map) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any(m))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err := enc.Encode(map[string]any(m))
	if err != nil {
		return err
	}
	return enc.Close()
}
