// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"errors"
)

// ErrValueNotSet is returned by [Read] when a [Reader] completes
// successfully but does not produce a value.
var ErrValueNotSet = errors.New("config: value not set")

// Value represents a configuration value which may or may not be set.
type Value[T any] struct {
	val T
	set bool
}

// ValueOf returns a set Value holding v.
func ValueOf[T any](v T) Value[T] {
	return Value[T]{val: v, set: true}
}

// Value returns the underlying value and whether or not it was set.
func (v Value[T]) Value() (T, bool) {
	return v.val, v.set
}

// Reader represents a source of a single configuration value.
type Reader[T any] interface {
	Read(context.Context) (Value[T], error)
}

// ReaderFunc is a functional implementation of the [Reader] interface.
type ReaderFunc[T any] func(context.Context) (Value[T], error)

// Read implements the [Reader] interface.
func (f ReaderFunc[T]) Read(ctx context.Context) (Value[T], error) {
	return f(ctx)
}

// Read reads a value from r. If r does not produce a value
// then [ErrValueNotSet] is returned.
func Read[T any](ctx context.Context, r Reader[T]) (T, error) {
	var zero T
	v, err := r.Read(ctx)
	if err != nil {
		return zero, err
	}
	val, ok := v.Value()
	if !ok {
		return zero, ErrValueNotSet
	}
	return val, nil
}

// Must is like [Read] but panics if an error is encountered.
func Must[T any](ctx context.Context, r Reader[T]) T {
	v, err := Read(ctx, r)
	if err != nil {
		panic(err)
	}
	return v
}

// MustOr is like [Must] but returns def if r does not produce a value.
func MustOr[T any](ctx context.Context, def T, r Reader[T]) T {
	return Must(ctx, Default(def, r))
}

// ReaderOf returns a [Reader] which always produces v.
func ReaderOf[T any](v T) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		return ValueOf(v), nil
	})
}

// Default returns a [Reader] which produces def whenever r does not produce a value.
func Default[T any](def T, r Reader[T]) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		v, err := r.Read(ctx)
		if err != nil {
			return Value[T]{}, err
		}
		if _, ok := v.Value(); ok {
			return v, nil
		}
		return ValueOf(def), nil
	})
}

// Or returns a [Reader] which produces the first value produced by rs.
// Readers are consulted in order and later readers are never read once a
// value has been found.
func Or[T any](rs ...Reader[T]) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		for _, r := range rs {
			v, err := r.Read(ctx)
			if err != nil {
				return Value[T]{}, err
			}
			if _, ok := v.Value(); ok {
				return v, nil
			}
		}
		return Value[T]{}, nil
	})
}

// Transform maps the value produced by r, if any, using f.
func Transform[A, B any](r Reader[A], f func(context.Context, A) (B, error)) Reader[B] {
	return ReaderFunc[B](func(ctx context.Context) (Value[B], error) {
		v, err := r.Read(ctx)
		if err != nil {
			return Value[B]{}, err
		}
		a, ok := v.Value()
		if !ok {
			return Value[B]{}, nil
		}
		b, err := f(ctx, a)
		if err != nil {
			return Value[B]{}, err
		}
		return ValueOf(b), nil
	})
}

// Bind uses the value produced by r to select the next [Reader] to read from.
func Bind[A, B any](r Reader[A], f func(context.Context, A) Reader[B]) Reader[B] {
	return ReaderFunc[B](func(ctx context.Context) (Value[B], error) {
		v, err := r.Read(ctx)
		if err != nil {
			return Value[B]{}, err
		}
		a, ok := v.Value()
		if !ok {
			return Value[B]{}, nil
		}
		return f(ctx, a).Read(ctx)
	})
}

// NonEmpty treats an empty string produced by r as not set.
func NonEmpty(r Reader[string]) Reader[string] {
	return ReaderFunc[string](func(ctx context.Context) (Value[string], error) {
		v, err := r.Read(ctx)
		if err != nil {
			return Value[string]{}, err
		}
		s, ok := v.Value()
		if !ok || s == "" {
			return Value[string]{}, nil
		}
		return v, nil
	})
}
