// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package envcompose

import (
	"context"
	"errors"

	"github.com/z5labs/envcompose/config"
	"github.com/z5labs/envcompose/internal/try"
)

// FactoryFunc produces an environment specific config from
// the Descriptor originally passed to the Composer.
type FactoryFunc func(context.Context, Descriptor) (config.Map, error)

// Unit is an environment specific config. It is either a
// concrete document or a factory which produces one.
type Unit struct {
	value   config.Map
	factory FactoryFunc
}

// Value returns a Unit holding the concrete document m.
func Value(m config.Map) Unit {
	return Unit{value: m}
}

// Factory returns a Unit which is produced by calling f.
func Factory(f FactoryFunc) Unit {
	return Unit{factory: f}
}

// IsFactory reports whether the Unit must be invoked to produce its document.
func (u Unit) IsFactory() bool {
	return u.factory != nil
}

var errNilFactoryResult = errors.New("factory returned a nil config")

// Resolve normalizes the Unit into a document. Factories are invoked with d
// and a panicking factory is reported as a [try.PanicError].
func (u Unit) Resolve(ctx context.Context, d Descriptor) (_ config.Map, err error) {
	if u.factory == nil {
		return u.value, nil
	}

	defer try.Recover(&err)

	m, err := u.factory(ctx, d)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errNilFactoryResult
	}
	return m, nil
}
