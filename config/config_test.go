// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func unset[T any]() Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		return Value[T]{}, nil
	})
}

func failing[T any](err error) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		return Value[T]{}, err
	})
}

func TestValue_Value(t *testing.T) {
	v, ok := ValueOf("").Value()
	require.True(t, ok)
	require.Equal(t, "", v)

	v, ok = Value[string]{}.Value()
	require.False(t, ok)
	require.Equal(t, "", v)
}

func TestRead(t *testing.T) {
	readErr := errors.New("read failed")

	testCases := []struct {
		name        string
		reader      Reader[string]
		expectedVal string
		expectErr   error
	}{
		{
			name:        "returns value when set",
			reader:      ReaderOf("prod"),
			expectedVal: "prod",
		},
		{
			name:      "returns error when reader fails",
			reader:    failing[string](readErr),
			expectErr: readErr,
		},
		{
			name:      "returns ErrValueNotSet when value not set",
			reader:    unset[string](),
			expectErr: ErrValueNotSet,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := Read(context.Background(), tc.reader)
			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
				require.Zero(t, val)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectedVal, val)
		})
	}
}

func TestMust(t *testing.T) {
	require.Equal(t, 3, Must(context.Background(), ReaderOf(3)))
	require.Panics(t, func() {
		Must(context.Background(), unset[int]())
	})
	require.Equal(t, 8080, MustOr(context.Background(), 8080, unset[int]()))
}

func TestDefault(t *testing.T) {
	testCases := []struct {
		name        string
		reader      Reader[string]
		expectedVal string
		expectErr   bool
	}{
		{
			name:        "keeps the set value",
			reader:      ReaderOf("staging"),
			expectedVal: "staging",
		},
		{
			name:        "falls back when not set",
			reader:      unset[string](),
			expectedVal: "dev",
		},
		{
			name:      "propagates error",
			reader:    failing[string](errors.New("boom")),
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := Read(context.Background(), Default("dev", tc.reader))
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectedVal, val)
		})
	}
}

func TestOr(t *testing.T) {
	t.Run("returns the first set value", func(t *testing.T) {
		var readAfter bool
		r := Or(
			unset[string](),
			ReaderOf("prod"),
			ReaderFunc[string](func(ctx context.Context) (Value[string], error) {
				readAfter = true
				return ValueOf("dev"), nil
			}),
		)

		val, err := Read(context.Background(), r)
		require.NoError(t, err)
		require.Equal(t, "prod", val)
		require.False(t, readAfter)
	})

	t.Run("returns unset when no reader has a value", func(t *testing.T) {
		v, err := Or(unset[string](), unset[string]()).Read(context.Background())
		require.NoError(t, err)
		_, ok := v.Value()
		require.False(t, ok)
	})

	t.Run("propagates error", func(t *testing.T) {
		readErr := errors.New("read failed")
		_, err := Or(unset[string](), failing[string](readErr)).Read(context.Background())
		require.ErrorIs(t, err, readErr)
	})
}

func TestTransform(t *testing.T) {
	atoi := func(ctx context.Context, s string) (int, error) {
		return strconv.Atoi(s)
	}

	t.Run("maps value when set", func(t *testing.T) {
		val, err := Read(context.Background(), Transform(ReaderOf("42"), atoi))
		require.NoError(t, err)
		require.Equal(t, 42, val)
	})

	t.Run("returns unset when reader returns unset", func(t *testing.T) {
		v, err := Transform(unset[string](), atoi).Read(context.Background())
		require.NoError(t, err)
		_, ok := v.Value()
		require.False(t, ok)
	})

	t.Run("propagates mapper error", func(t *testing.T) {
		_, err := Transform(ReaderOf("not a number"), atoi).Read(context.Background())
		require.Error(t, err)
	})
}

func TestBind(t *testing.T) {
	lookup := func(ctx context.Context, env string) Reader[int] {
		if env == "prod" {
			return ReaderOf(443)
		}
		return unset[int]()
	}

	t.Run("binds value when set", func(t *testing.T) {
		val, err := Read(context.Background(), Bind(ReaderOf("prod"), lookup))
		require.NoError(t, err)
		require.Equal(t, 443, val)
	})

	t.Run("returns unset when reader returns unset", func(t *testing.T) {
		v, err := Bind(unset[string](), lookup).Read(context.Background())
		require.NoError(t, err)
		_, ok := v.Value()
		require.False(t, ok)
	})

	t.Run("propagates reader error", func(t *testing.T) {
		readErr := errors.New("read failed")
		_, err := Bind(failing[string](readErr), lookup).Read(context.Background())
		require.ErrorIs(t, err, readErr)
	})
}

func TestNonEmpty(t *testing.T) {
	testCases := []struct {
		name      string
		reader    Reader[string]
		expectSet bool
	}{
		{
			name:      "non-empty string is set",
			reader:    ReaderOf("prod"),
			expectSet: true,
		},
		{
			name:   "empty string is unset",
			reader: ReaderOf(""),
		},
		{
			name:   "unset stays unset",
			reader: unset[string](),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := NonEmpty(tc.reader).Read(context.Background())
			require.NoError(t, err)
			_, ok := v.Value()
			require.Equal(t, tc.expectSet, ok)
		})
	}
}

func TestEnv(t *testing.T) {
	t.Run("returns environment variable when set", func(t *testing.T) {
		t.Setenv("ENVCOMPOSE_TEST_ENV_SET", "prod")

		val, err := Read(context.Background(), Env("ENVCOMPOSE_TEST_ENV_SET"))
		require.NoError(t, err)
		require.Equal(t, "prod", val)
	})

	t.Run("returns unset when variable not set", func(t *testing.T) {
		v, err := Env("ENVCOMPOSE_TEST_ENV_UNSET").Read(context.Background())
		require.NoError(t, err)
		_, ok := v.Value()
		require.False(t, ok)
	})
}

func TestLookupEnv(t *testing.T) {
	lookup := MapLookup(map[string]string{"NODE_ENV": "staging"})

	val, err := Read(context.Background(), LookupEnv(lookup, "NODE_ENV"))
	require.NoError(t, err)
	require.Equal(t, "staging", val)

	_, err = Read(context.Background(), LookupEnv(lookup, "MISSING"))
	require.ErrorIs(t, err, ErrValueNotSet)

	_, err = Read(context.Background(), LookupEnv(nil, "NODE_ENV"))
	require.ErrorIs(t, err, ErrValueNotSet)
}
