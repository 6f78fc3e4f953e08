// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package envcompose

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/z5labs/envcompose/config"
)

// Resolver locates and loads environment specific config units by name.
type Resolver interface {
	// Location returns where the unit for env is expected to be found.
	// It must be a deterministic function of env.
	Location(env string) string

	// Resolve loads the unit for env.
	Resolve(ctx context.Context, env string) (Unit, error)
}

// ErrUnknownEnv is returned when no unit is registered for an environment.
var ErrUnknownEnv = errors.New("unknown environment")

// UnknownEnvError occurs when a [Registry] has no unit for Env.
type UnknownEnvError struct {
	Env   string
	Known []string
}

// Error implements the error interface.
func (e UnknownEnvError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("%s: %s (no environments registered)", ErrUnknownEnv, e.Env)
	}
	return fmt.Sprintf("%s: %s (known: %s)", ErrUnknownEnv, e.Env, strings.Join(e.Known, ", "))
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e UnknownEnvError) Unwrap() error {
	return ErrUnknownEnv
}

// Registry is a Resolver over a closed set of units which are
// registered ahead of time. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	units map[string]Unit
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		units: make(map[string]Unit),
	}
}

// Register registers u under env, replacing any previous unit.
func (r *Registry) Register(env string, u Unit) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.units[env] = u
	return r
}

// RegisterValue registers the concrete document m under env.
func (r *Registry) RegisterValue(env string, m config.Map) *Registry {
	return r.Register(env, Value(m))
}

// RegisterFactory registers f under env.
func (r *Registry) RegisterFactory(env string, f FactoryFunc) *Registry {
	return r.Register(env, Factory(f))
}

// Envs returns the sorted names of all registered environments.
func (r *Registry) Envs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	envs := make([]string, 0, len(r.units))
	for env := range r.units {
		envs = append(envs, env)
	}
	slices.Sort(envs)
	return envs
}

// Location implements the [Resolver] interface.
func (r *Registry) Location(env string) string {
	return "registry:" + env
}

// Resolve implements the [Resolver] interface.
func (r *Registry) Resolve(ctx context.Context, env string) (Unit, error) {
	r.mu.RLock()
	u, ok := r.units[env]
	r.mu.RUnlock()
	if ok {
		return u, nil
	}
	return Unit{}, UnknownEnvError{Env: env, Known: r.Envs()}
}
