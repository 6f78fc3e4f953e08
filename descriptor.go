// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package envcompose

// Descriptor is the caller supplied hint for which environment
// to compose. A nil Descriptor means none was given.
type Descriptor interface {
	// ProvidedEnv returns the environment name carried by the
	// descriptor, if any.
	ProvidedEnv() (string, bool)
}

// EnvString is a Descriptor which is just the environment name.
type EnvString string

// ProvidedEnv implements the [Descriptor] interface.
func (s EnvString) ProvidedEnv() (string, bool) {
	return string(s), s != ""
}

// EnvObject is a structured Descriptor. Vars carries arbitrary
// additional values for unit factories, e.g. from --var flags.
type EnvObject struct {
	Env  string
	Vars map[string]string
}

// ProvidedEnv implements the [Descriptor] interface.
func (o EnvObject) ProvidedEnv() (string, bool) {
	return o.Env, o.Env != ""
}
