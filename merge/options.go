// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package merge

import (
	"fmt"

	"github.com/z5labs/envcompose/config/key"
)

// Strategy controls how two values found at the same path are combined.
type Strategy int

const (
	// Default uses the default behavior for the kinds of values being merged.
	Default Strategy = iota

	// Append concatenates slices, earlier elements first.
	Append

	// Prepend concatenates slices, later elements first.
	Prepend

	// Replace discards the earlier value.
	Replace

	// Deep merges nested documents recursively.
	Deep
)

// String implements the fmt.Stringer interface.
func (s Strategy) String() string {
	switch s {
	case Default:
		return "default"
	case Append:
		return "append"
	case Prepend:
		return "prepend"
	case Replace:
		return "replace"
	case Deep:
		return "deep"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

type options struct {
	strategies map[string]Strategy
	unique     map[string]string
}

// Option configures how documents are merged.
type Option func(*options)

// Customize sets the [Strategy] used for the value at path.
func Customize(path key.Keyer, s Strategy) Option {
	return func(o *options) {
		o.strategies[path.Key()] = s
	}
}

// Unique de-duplicates the elements of the slice found at path. Elements
// are documents and are considered equal when their field values are equal.
// When duplicates exist the later document wins, e.g. an environment
// specific plugin replaces a plugin of the same name from the base config.
func Unique(path key.Keyer, field string) Option {
	return func(o *options) {
		o.unique[path.Key()] = field
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		strategies: make(map[string]Strategy),
		unique:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// StrategyMismatchError occurs when a [Strategy] or [Unique] is configured
// for a path whose values it cannot be applied to.
type StrategyMismatchError struct {
	Path     string
	Strategy string
	Kind     string
}

// Error implements the error interface.
func (e StrategyMismatchError) Error() string {
	return fmt.Sprintf("merge: cannot apply %s strategy to %s at %q", e.Strategy, e.Kind, e.Path)
}
