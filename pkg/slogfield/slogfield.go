// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package slogfield provides standard attribute keys for structured logs.
package slogfield

import (
	"log/slog"
	"time"
)

// Any returns an slog.Attr for the supplied value.
func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Bool returns an slog.Attr for a bool.
func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

// Duration returns an slog.Attr for a time.Duration.
func Duration(key string, d time.Duration) slog.Attr {
	return slog.Duration(key, d)
}

// Error returns an slog.Attr for a error.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// String returns an slog.Attr for a string.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Strings returns an slog.Attr for a slice of strings.
func Strings(key string, values []string) slog.Attr {
	return slog.Any(key, values)
}

// Int returns an slog.Attr for a int.
func Int(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Env returns an slog.Attr for an environment name.
func Env(env string) slog.Attr {
	return slog.String("env", env)
}

// Location returns an slog.Attr for the location of an environment config unit.
func Location(location string) slog.Attr {
	return slog.String("location", location)
}

// Path returns an slog.Attr for a file path.
func Path(p string) slog.Attr {
	return slog.String("path", p)
}

// Vars returns an slog.Attr for the extra values of an environment descriptor.
func Vars(vars map[string]string) slog.Attr {
	return slog.Any("vars", vars)
}
