// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package envcompose composes environment specific configuration with a
// shared base configuration.
//
// A [Composer] is built around three pieces:
//
//   - a base config which every environment shares
//   - a [Resolver] which locates the config unit for an environment name
//   - an optional [Descriptor] supplied per call which may name the environment
//
// # Environment Names
//
// The environment name is chosen, in order of priority, from the
// [Descriptor] (either an [EnvString] or the Env field of an [EnvObject]),
// the NODE_ENV environment variable and, lastly, "dev". Empty names
// are treated as not set. See [ResolveEnvName].
//
// # Units
//
// A [Unit] is either a concrete config created with [Value] or a factory
// created with [Factory]. Factories are invoked with the Descriptor exactly
// as it was given to [Composer.Compose].
//
// Units can be registered ahead of time with a [Registry]:
//
//	r := envcompose.NewRegistry().
//	    RegisterValue("dev", config.Map{"mode": "development"}).
//	    RegisterFactory("prod", func(ctx context.Context, d envcompose.Descriptor) (config.Map, error) {
//	        return config.Map{"mode": "production"}, nil
//	    })
//
// or read from files named webpack.<env>.yaml (or .yml/.json) with a [FileResolver]:
//
//	r := envcompose.NewFileResolver(os.DirFS("."), "build-utils")
//
// # Merging
//
// The unit is deep merged onto the base config with the merge package.
// Environment values win over base values, lists are concatenated with
// base entries first and nested maps are merged recursively. Neither the base
// config nor the unit are modified.
//
// # Errors
//
// Failing to load or invoke a unit results in a [LoadError] which
// carries the environment name and unit location. Failing to merge results
// in a [MergeError].
package envcompose
