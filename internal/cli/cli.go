// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package cli implements the envcompose command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/z5labs/envcompose"
	"github.com/z5labs/envcompose/internal/try"
	"github.com/z5labs/envcompose/pkg/maskslog"
	"github.com/z5labs/envcompose/pkg/otelconfig"
	"github.com/z5labs/envcompose/pkg/otelslog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

// EnvPrefix prefixes the environment variables which
// can be used in place of flags, e.g. ENVCOMPOSE_DIR.
const EnvPrefix = "ENVCOMPOSE"

// Run executes the envcompose command line with the given args.
// An interrupt from the OS cancels the context.
func Run(ctx context.Context, args ...string) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	cmd := New()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// New returns the root envcompose command.
func New() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:          "envcompose",
		Short:        "Compose environment specific configs with a shared base config",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return v.BindPFlags(cmd.Flags())
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("dir", ".", "directory containing the environment config files")
	flags.String("prefix", "webpack", "file name prefix of the environment config files")
	flags.String("env-var", envcompose.DefaultEnvVar, "environment variable naming the environment")
	flags.String("default-env", envcompose.DefaultEnv, "environment used when no other is named")
	flags.String("log-level", "warn", "minimum log level: debug, info, warn or error")
	flags.Bool("trace", false, "write OpenTelemetry spans to stderr")

	cmd.AddCommand(
		newComposeCmd(v),
		newResolveCmd(v),
		newListCmd(v),
	)
	return cmd
}

// InvalidLogLevelError occurs when the --log-level flag
// is not a known slog.Level.
type InvalidLogLevelError struct {
	Level string
	Cause error
}

// Error implements the error interface.
func (e InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level: %s", e.Level)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidLogLevelError) Unwrap() error {
	return e.Cause
}

type session struct {
	log     *slog.Logger
	handler slog.Handler
}

// newLogHandler returns a text handler which redacts descriptor
// vars since they are commonly used to pass secrets to templates.
func newLogHandler(w io.Writer, level string) (slog.Handler, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(level))
	if err != nil {
		return nil, InvalidLogLevelError{Level: level, Cause: err}
	}
	return maskslog.NewHandler(
		slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}),
		maskslog.Attr("vars", maskslog.Redact),
	), nil
}

func runE(v *viper.Viper, f func(context.Context, *cobra.Command, session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer try.Recover(&err)

		h, err := newLogHandler(cmd.ErrOrStderr(), v.GetString("log-level"))
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if v.GetBool("trace") {
			tp, initErr := otelconfig.Local(
				otelconfig.ServiceName("envcompose"),
				otelconfig.Out(cmd.ErrOrStderr()),
			).Init(ctx)
			if initErr != nil {
				return initErr
			}
			otel.SetTracerProvider(tp)
			defer func() {
				err = errors.Join(err, otelconfig.Shutdown(context.WithoutCancel(ctx), tp))
			}()
		}

		return f(ctx, cmd, session{
			log:     otelslog.New(h),
			handler: h,
		})
	}
}

// dirFS returns a fs.FS and the directory within it for dir.
// Relative directories stay relative so locations read the same
// way they were given.
func dirFS(dir string) (fs.FS, string) {
	d := filepath.ToSlash(filepath.Clean(dir))
	if fs.ValidPath(d) {
		return os.DirFS("."), d
	}
	return os.DirFS(dir), "."
}

func newFileResolver(v *viper.Viper, opts ...envcompose.FileResolverOption) *envcompose.FileResolver {
	fsys, dir := dirFS(v.GetString("dir"))
	opts = append([]envcompose.FileResolverOption{envcompose.FilePrefix(v.GetString("prefix"))}, opts...)
	return envcompose.NewFileResolver(fsys, dir, opts...)
}

func composerOptions(v *viper.Viper, s session) []envcompose.Option {
	return []envcompose.Option{
		envcompose.WithEnvVar(v.GetString("env-var")),
		envcompose.WithDefaultEnv(v.GetString("default-env")),
		envcompose.WithLogHandler(s.handler),
	}
}

func descriptor(env string, vars map[string]string) envcompose.Descriptor {
	if len(vars) > 0 {
		return envcompose.EnvObject{Env: env, Vars: vars}
	}
	if env == "" {
		return nil
	}
	return envcompose.EnvString(env)
}
