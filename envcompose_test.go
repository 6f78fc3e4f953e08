// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package envcompose

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/z5labs/envcompose/config"
	"github.com/z5labs/envcompose/config/key"
	"github.com/z5labs/envcompose/internal/try"
	"github.com/z5labs/envcompose/merge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEnvName(t *testing.T) {
	testCases := []struct {
		name     string
		desc     Descriptor
		vars     map[string]string
		expected string
	}{
		{
			name:     "string descriptor",
			desc:     EnvString("prod"),
			vars:     map[string]string{"NODE_ENV": "staging"},
			expected: "prod",
		},
		{
			name:     "object descriptor wins over env var",
			desc:     EnvObject{Env: "staging"},
			vars:     map[string]string{"NODE_ENV": "prod"},
			expected: "staging",
		},
		{
			name:     "object descriptor without env falls back to env var",
			desc:     EnvObject{Vars: map[string]string{"analyze": "true"}},
			vars:     map[string]string{"NODE_ENV": "prod"},
			expected: "prod",
		},
		{
			name:     "empty string descriptor falls back to env var",
			desc:     EnvString(""),
			vars:     map[string]string{"NODE_ENV": "prod"},
			expected: "prod",
		},
		{
			name:     "absent descriptor uses env var",
			desc:     nil,
			vars:     map[string]string{"NODE_ENV": "test"},
			expected: "test",
		},
		{
			name:     "absent descriptor and unset env var",
			desc:     nil,
			vars:     map[string]string{},
			expected: DefaultEnv,
		},
		{
			name:     "empty env var counts as unset",
			desc:     nil,
			vars:     map[string]string{"NODE_ENV": ""},
			expected: DefaultEnv,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env, err := ResolveEnvName(context.Background(), tc.desc, config.MapLookup(tc.vars), DefaultEnvVar, DefaultEnv)
			require.Nil(t, err)
			require.Equal(t, tc.expected, env)
		})
	}
}

func TestComposer_ResolveEnv(t *testing.T) {
	t.Run("will use the configured env var and default", func(t *testing.T) {
		t.Run("if they are overridden", func(t *testing.T) {
			c := New(
				nil,
				NewRegistry(),
				WithEnvVar("APP_ENV"),
				WithDefaultEnv("local"),
				WithLookupEnv(config.MapLookup(map[string]string{"NODE_ENV": "prod"})),
			)

			env, location, err := c.ResolveEnv(context.Background(), nil)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "local", env) {
				return
			}
			if !assert.Equal(t, "registry:local", location) {
				return
			}
		})

		t.Run("if the lookup is disabled", func(t *testing.T) {
			c := New(nil, NewRegistry(), WithLookupEnv(nil))

			env, _, err := c.ResolveEnv(context.Background(), nil)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, DefaultEnv, env) {
				return
			}
		})
	})
}

func newTestComposer(base config.Map, r Resolver, opts ...Option) *Composer {
	opts = append([]Option{WithLookupEnv(config.MapLookup(nil))}, opts...)
	return New(base, r, opts...)
}

func TestComposer_Compose(t *testing.T) {
	t.Run("will return a LoadError", func(t *testing.T) {
		t.Run("if the env unit does not exist", func(t *testing.T) {
			fsys := fstest.MapFS{
				"build-utils/webpack.dev.yaml": &fstest.MapFile{Data: []byte("mode: development")},
			}
			c := newTestComposer(config.Map{"mode": "base"}, NewFileResolver(fsys, "build-utils"))

			_, err := c.Compose(context.Background(), EnvObject{Env: "prod"})

			var lerr LoadError
			if !assert.ErrorAs(t, err, &lerr) {
				return
			}
			if !assert.ErrorIs(t, err, fs.ErrNotExist) {
				return
			}
			if !assert.Equal(t, "prod", lerr.Env) {
				return
			}
			if !assert.Equal(t, "build-utils/webpack.prod.yaml", lerr.Path) {
				return
			}
			if !assert.Contains(t, err.Error(), `"prod"`) {
				return
			}
			if !assert.Contains(t, err.Error(), "build-utils/webpack.prod.yaml") {
				return
			}
		})

		t.Run("if the env is not registered", func(t *testing.T) {
			r := NewRegistry().RegisterValue("dev", config.Map{})
			c := newTestComposer(nil, r)

			_, err := c.Compose(context.Background(), EnvString("prod"))

			var lerr LoadError
			if !assert.ErrorAs(t, err, &lerr) {
				return
			}
			if !assert.ErrorIs(t, err, ErrUnknownEnv) {
				return
			}
			if !assert.Equal(t, "registry:prod", lerr.Path) {
				return
			}
		})

		t.Run("if the factory returns an error", func(t *testing.T) {
			factoryErr := errors.New("missing analyzer")
			r := NewRegistry().RegisterFactory("prod", func(ctx context.Context, d Descriptor) (config.Map, error) {
				return nil, factoryErr
			})
			c := newTestComposer(nil, r)

			_, err := c.Compose(context.Background(), EnvString("prod"))

			var lerr LoadError
			if !assert.ErrorAs(t, err, &lerr) {
				return
			}
			if !assert.ErrorIs(t, err, factoryErr) {
				return
			}
		})

		t.Run("if the factory panics", func(t *testing.T) {
			r := NewRegistry().RegisterFactory("prod", func(ctx context.Context, d Descriptor) (config.Map, error) {
				panic("boom")
			})
			c := newTestComposer(nil, r)

			_, err := c.Compose(context.Background(), EnvString("prod"))

			var lerr LoadError
			if !assert.ErrorAs(t, err, &lerr) {
				return
			}

			var perr try.PanicError
			if !assert.ErrorAs(t, err, &perr) {
				return
			}
			if !assert.Equal(t, "boom", perr.Value) {
				return
			}
		})

		t.Run("if the factory returns a nil config", func(t *testing.T) {
			r := NewRegistry().RegisterFactory("prod", func(ctx context.Context, d Descriptor) (config.Map, error) {
				return nil, nil
			})
			c := newTestComposer(nil, r)

			_, err := c.Compose(context.Background(), EnvString("prod"))

			var lerr LoadError
			if !assert.ErrorAs(t, err, &lerr) {
				return
			}
			if !assert.ErrorIs(t, err, errNilFactoryResult) {
				return
			}
		})

		t.Run("if the env unit is invalid yaml", func(t *testing.T) {
			fsys := fstest.MapFS{
				"webpack.dev.yaml": &fstest.MapFile{Data: []byte("mode: [development")},
			}
			c := newTestComposer(nil, NewFileResolver(fsys, "."))

			_, err := c.Compose(context.Background(), nil)

			var lerr LoadError
			if !assert.ErrorAs(t, err, &lerr) {
				return
			}

			var yerr config.InvalidYamlError
			if !assert.ErrorAs(t, err, &yerr) {
				return
			}
		})
	})

	t.Run("will return a MergeError", func(t *testing.T) {
		t.Run("if a merge option does not fit the config", func(t *testing.T) {
			r := NewRegistry().RegisterValue("dev", config.Map{"plugins": "A"})
			c := newTestComposer(
				config.Map{"plugins": "B"},
				r,
				WithMergeOptions(merge.Unique(key.Name("plugins"), "name")),
			)

			_, err := c.Compose(context.Background(), nil)

			var merr MergeError
			if !assert.ErrorAs(t, err, &merr) {
				return
			}
			if !assert.Equal(t, "dev", merr.Env) {
				return
			}

			var serr merge.StrategyMismatchError
			if !assert.ErrorAs(t, err, &serr) {
				return
			}
		})
	})

	t.Run("will invoke the factory with the original descriptor", func(t *testing.T) {
		t.Run("if the env unit is a factory", func(t *testing.T) {
			desc := EnvObject{Env: "prod", Vars: map[string]string{"analyze": "true"}}

			var got Descriptor
			r := NewRegistry().RegisterFactory("prod", func(ctx context.Context, d Descriptor) (config.Map, error) {
				got = d
				return config.Map{"optimization": config.Map{"minimize": true}}, nil
			})
			c := newTestComposer(config.Map{"mode": "base"}, r)

			m, err := c.Compose(context.Background(), desc)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, desc, got) {
				return
			}

			minimize, ok := m.Lookup(key.ParseChain("optimization.minimize"))
			if !assert.True(t, ok) {
				return
			}
			if !assert.Equal(t, true, minimize) {
				return
			}
			if !assert.Equal(t, "base", m["mode"]) {
				return
			}
		})
	})

	t.Run("will override base values and keep the rest", func(t *testing.T) {
		t.Run("if the env unit is a value", func(t *testing.T) {
			base := config.Map{
				"mode":    "base",
				"plugins": []any{"A"},
			}
			r := NewRegistry().RegisterValue("dev", config.Map{"mode": "development"})
			c := newTestComposer(base, r)

			m, err := c.Compose(context.Background(), EnvString("dev"))
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "development", m["mode"]) {
				return
			}
			if !assert.Equal(t, []any{"A"}, m["plugins"]) {
				return
			}
		})
	})

	t.Run("will concatenate lists with base entries first", func(t *testing.T) {
		t.Run("if both configs define the list", func(t *testing.T) {
			base := config.Map{"plugins": []any{"A"}}
			r := NewRegistry().RegisterValue("prod", config.Map{"plugins": []any{"B"}})
			c := newTestComposer(base, r)

			m, err := c.Compose(context.Background(), EnvString("prod"))
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, []any{"A", "B"}, m["plugins"]) {
				return
			}
		})
	})

	t.Run("will not modify the base config or env unit", func(t *testing.T) {
		t.Run("if the same composer is used more than once", func(t *testing.T) {
			base := config.Map{
				"plugins": []any{"A"},
				"output":  config.Map{"path": "dist"},
			}
			unit := config.Map{
				"plugins": []any{"B"},
				"output":  config.Map{"filename": "[name].js"},
			}
			c := newTestComposer(base, NewRegistry().RegisterValue("dev", unit))

			first, err := c.Compose(context.Background(), nil)
			if !assert.Nil(t, err) {
				return
			}
			first["mode"] = "changed"

			second, err := c.Compose(context.Background(), nil)
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, []any{"A", "B"}, second["plugins"]) {
				return
			}
			if !assert.NotContains(t, second, "mode") {
				return
			}
			if !assert.Equal(t, []any{"A"}, base["plugins"]) {
				return
			}
			if !assert.Equal(t, config.Map{"path": "dist"}, base["output"]) {
				return
			}
			if !assert.Equal(t, []any{"B"}, unit["plugins"]) {
				return
			}
		})
	})

	t.Run("will use the env var", func(t *testing.T) {
		t.Run("if the descriptor does not name an env", func(t *testing.T) {
			r := NewRegistry().
				RegisterValue("dev", config.Map{"mode": "development"}).
				RegisterValue("prod", config.Map{"mode": "production"})
			c := New(
				nil,
				r,
				WithLookupEnv(config.MapLookup(map[string]string{"NODE_ENV": "prod"})),
			)

			m, err := c.Compose(context.Background(), EnvObject{})
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "production", m["mode"]) {
				return
			}
		})
	})

	t.Run("will log the failure", func(t *testing.T) {
		t.Run("if the env unit fails to load", func(t *testing.T) {
			var buf bytes.Buffer
			c := newTestComposer(nil, NewRegistry(), WithLogHandler(slog.NewJSONHandler(&buf, nil)))

			_, err := c.Compose(context.Background(), EnvString("prod"))
			if !assert.Error(t, err) {
				return
			}
			if !assert.Contains(t, buf.String(), `"env":"prod"`) {
				return
			}
			if !assert.Contains(t, buf.String(), `"location":"registry:prod"`) {
				return
			}
		})
	})
}

func TestCompose(t *testing.T) {
	t.Run("will compose with the default options", func(t *testing.T) {
		t.Run("if the descriptor names an env", func(t *testing.T) {
			r := NewRegistry().RegisterValue("prod", config.Map{"mode": "production"})

			m, err := Compose(context.Background(), config.Map{"devtool": false}, r, EnvString("prod"))
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, config.Map{"devtool": false, "mode": "production"}, m) {
				return
			}
		})
	})
}
