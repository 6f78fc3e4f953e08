// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package merge

import (
	"fmt"

	"dario.cat/mergo"
)

// StructsError occurs when typed values cannot be merged.
type StructsError struct {
	Cause error
}

// Error implements the error interface.
func (e StructsError) Error() string {
	return fmt.Sprintf("merge: failed to merge typed config: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e StructsError) Unwrap() error {
	return e.Cause
}

// Structs merges overlay onto base for typed configs, where T is a struct
// or map type. Non-zero overlay fields override base fields and slices are
// appended. Unlike [Merge], zero values in overlay never override base.
func Structs[T any](base, overlay T) (T, error) {
	var out T
	err := mergo.Merge(&out, base, mergo.WithAppendSlice)
	if err != nil {
		return out, StructsError{Cause: err}
	}
	err = mergo.Merge(&out, overlay, mergo.WithOverride, mergo.WithAppendSlice)
	if err != nil {
		var zero T
		return zero, StructsError{Cause: err}
	}
	return out, nil
}
