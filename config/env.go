// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"os"
)

// LookupFunc has the same semantics as [os.LookupEnv].
type LookupFunc func(string) (string, bool)

// Env returns a [Reader] for the environment variable with the given name.
// The value is set if the variable is present, even if it is empty.
func Env(name string) Reader[string] {
	return LookupEnv(os.LookupEnv, name)
}

// LookupEnv is like [Env] but resolves the variable with lookup instead
// of the process environment. A nil lookup never produces a value.
func LookupEnv(lookup LookupFunc, name string) Reader[string] {
	return ReaderFunc[string](func(ctx context.Context) (Value[string], error) {
		if lookup == nil {
			return Value[string]{}, nil
		}
		v, ok := lookup(name)
		if !ok {
			return Value[string]{}, nil
		}
		return ValueOf(v), nil
	})
}

// MapLookup adapts a map into a [LookupFunc].
func MapLookup(m map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}
