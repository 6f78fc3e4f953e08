// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package envcompose

import "fmt"

// LoadError occurs when the unit for an environment cannot be located,
// fails to load or fails to produce a config when invoked.
type LoadError struct {
	Env   string
	Path  string
	Cause error
}

// Error implements the [builtin.error] interface.
func (e LoadError) Error() string {
	return fmt.Sprintf("failed to load env config %q from %q: %s", e.Env, e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e LoadError) Unwrap() error {
	return e.Cause
}

// MergeError occurs when a successfully loaded environment config
// cannot be merged with the base config.
type MergeError struct {
	Env   string
	Cause error
}

// Error implements the [builtin.error] interface.
func (e MergeError) Error() string {
	return fmt.Sprintf("failed to merge env config %q with base config: %s", e.Env, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e MergeError) Unwrap() error {
	return e.Cause
}
