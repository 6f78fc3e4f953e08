// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package envcompose

import (
	"context"
	"log/slog"
	"os"

	"github.com/z5labs/envcompose/config"
	"github.com/z5labs/envcompose/merge"
	"github.com/z5labs/envcompose/pkg/noop"
	"github.com/z5labs/envcompose/pkg/otelslog"
	"github.com/z5labs/envcompose/pkg/slogfield"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultEnvVar is the environment variable consulted when
	// the Descriptor does not name an environment.
	DefaultEnvVar = "NODE_ENV"

	// DefaultEnv is used when neither the Descriptor nor the
	// environment variable name an environment.
	DefaultEnv = "dev"
)

// Option configures a [Composer].
type Option func(*Composer)

// WithEnvVar overrides [DefaultEnvVar].
func WithEnvVar(name string) Option {
	return func(c *Composer) {
		c.envVar = name
	}
}

// WithDefaultEnv overrides [DefaultEnv].
func WithDefaultEnv(env string) Option {
	return func(c *Composer) {
		c.defaultEnv = env
	}
}

// WithLookupEnv replaces the process environment as the source of
// the environment variable. A nil lookup disables the variable.
func WithLookupEnv(lookup config.LookupFunc) Option {
	return func(c *Composer) {
		c.lookup = lookup
	}
}

// WithLogHandler configures the [slog.Handler] used by the Composer.
func WithLogHandler(h slog.Handler) Option {
	return func(c *Composer) {
		c.log = otelslog.New(h)
	}
}

// WithMergeOptions configures how the environment config is
// merged onto the base config.
func WithMergeOptions(opts ...merge.Option) Option {
	return func(c *Composer) {
		c.mergeOpts = append(c.mergeOpts, opts...)
	}
}

// Composer merges environment specific configs onto a shared base config.
// A Composer is safe for concurrent use.
type Composer struct {
	log        *slog.Logger
	base       config.Map
	resolver   Resolver
	envVar     string
	defaultEnv string
	lookup     config.LookupFunc
	mergeOpts  []merge.Option
}

// New returns a Composer for the given base config and Resolver. The
// base config is copied so later changes by the caller have no effect.
func New(base config.Map, resolver Resolver, opts ...Option) *Composer {
	c := &Composer{
		log:        slog.New(noop.LogHandler{}),
		base:       base.Clone(),
		resolver:   resolver,
		envVar:     DefaultEnvVar,
		defaultEnv: DefaultEnv,
		lookup:     os.LookupEnv,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose is a convenience wrapper around New(base, resolver).Compose(ctx, d).
func Compose(ctx context.Context, base config.Map, resolver Resolver, d Descriptor) (config.Map, error) {
	return New(base, resolver).Compose(ctx, d)
}

// ResolveEnvName selects the environment name. In order of priority:
// the environment named by d, the value of the envVar variable as reported
// by lookup and, lastly, def. Empty names are ignored.
func ResolveEnvName(ctx context.Context, d Descriptor, lookup config.LookupFunc, envVar, def string) (string, error) {
	return config.Read(ctx, config.Default(
		def,
		config.Or(
			descriptorEnv(d),
			config.NonEmpty(config.LookupEnv(lookup, envVar)),
		),
	))
}

func descriptorEnv(d Descriptor) config.Reader[string] {
	return config.ReaderFunc[string](func(ctx context.Context) (config.Value[string], error) {
		if d == nil {
			return config.Value[string]{}, nil
		}
		env, ok := d.ProvidedEnv()
		if !ok {
			return config.Value[string]{}, nil
		}
		return config.ValueOf(env), nil
	})
}

func descriptorVars(d Descriptor) map[string]string {
	obj, ok := d.(EnvObject)
	if !ok {
		return nil
	}
	return obj.Vars
}

// ResolveEnv returns the environment name and unit location
// the Composer would use for d.
func (c *Composer) ResolveEnv(ctx context.Context, d Descriptor) (env string, location string, err error) {
	env, err = ResolveEnvName(ctx, d, c.lookup, c.envVar, c.defaultEnv)
	if err != nil {
		return "", "", err
	}
	return env, c.resolver.Location(env), nil
}

// Compose selects an environment name for d, loads its unit, invokes the
// unit with d if it is a factory and deep merges the result onto the base
// config. Environment values take precedence over base values.
//
// Loading a unit may run arbitrary code, i.e. a factory or template.
//
// Failing to load or invoke the unit results in a [LoadError]. Failing to
// merge results in a [MergeError].
func (c *Composer) Compose(ctx context.Context, d Descriptor) (_ config.Map, err error) {
	spanCtx, span := otel.Tracer("envcompose").Start(ctx, "Composer.Compose")
	defer span.End()
	defer recordError(span, &err)

	env, location, err := c.ResolveEnv(spanCtx, d)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("env", env),
		attribute.String("location", location),
	)
	c.log.DebugContext(
		spanCtx,
		"resolved env",
		slogfield.Env(env),
		slogfield.Location(location),
		slogfield.Vars(descriptorVars(d)),
	)

	envCfg, err := c.load(spanCtx, env, d)
	if err != nil {
		c.log.ErrorContext(
			spanCtx,
			"failed to load env config",
			slogfield.Env(env),
			slogfield.Location(location),
			slogfield.Error(err),
		)
		return nil, LoadError{Env: env, Path: location, Cause: err}
	}

	merged, err := merge.With(c.mergeOpts, c.base, envCfg)
	if err != nil {
		c.log.ErrorContext(spanCtx, "failed to merge env config", slogfield.Env(env), slogfield.Error(err))
		return nil, MergeError{Env: env, Cause: err}
	}

	c.log.DebugContext(
		spanCtx,
		"composed env config",
		slogfield.Env(env),
		slogfield.Location(location),
		slogfield.Int("num_of_keys", len(merged)),
	)
	return merged, nil
}

func (c *Composer) load(ctx context.Context, env string, d Descriptor) (config.Map, error) {
	u, err := c.resolver.Resolve(ctx, env)
	if err != nil {
		return nil, err
	}
	return u.Resolve(ctx, d)
}

func recordError(span trace.Span, err *error) {
	if *err == nil {
		return
	}
	span.RecordError(*err)
	span.SetStatus(codes.Error, (*err).Error())
}
