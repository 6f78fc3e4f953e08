// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"reflect"

	"github.com/z5labs/envcompose/config/key"
)

// Map is a configuration document. Nested documents are
// always represented as map[string]any.
type Map map[string]any

// Clone returns a deep copy of m. Nested maps and slices are copied so
// the result can be modified without affecting m.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	return Map(cloneMap(m))
}

// Lookup returns the value found by following k through nested documents.
func (m Map) Lookup(k key.Keyer) (any, bool) {
	var names []string
	switch x := k.(type) {
	case key.Chain:
		names = x.Names()
	default:
		names = []string{k.Key()}
	}
	if len(names) == 0 {
		return nil, false
	}

	cur := map[string]any(m)
	for i, name := range names {
		v, ok := cur[name]
		if !ok {
			return nil, false
		}
		if i == len(names)-1 {
			return v, true
		}
		next, ok := asMap(v)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

func asMap(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, true
	case Map:
		return x, true
	default:
		return nil, false
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return cloneMap(x)
	case Map:
		return cloneMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := range rv.Len() {
			e := cloneValue(rv.Index(i).Interface())
			if e == nil {
				continue
			}
			out.Index(i).Set(reflect.ValueOf(e))
		}
		return out.Interface()
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			e := cloneValue(iter.Value().Interface())
			if e == nil {
				out.SetMapIndex(iter.Key(), reflect.Zero(rv.Type().Elem()))
				continue
			}
			out.SetMapIndex(iter.Key(), reflect.ValueOf(e))
		}
		return out.Interface()
	default:
		return v
	}
}

// NonStringKeyError occurs when a decoded document contains
// a mapping whose keys are not strings.
type NonStringKeyError struct {
	Key any
}

// Error implements the error interface.
func (e NonStringKeyError) Error() string {
	return fmt.Sprintf("config: document keys must be strings, got %T: %v", e.Key, e.Key)
}

// Normalize converts every nested mapping in v to map[string]any and
// every nested [Map] to its underlying map[string]any.
func Normalize(m map[string]any) (Map, error) {
	out := make(Map, len(m))
	for k, v := range m {
		nv, err := normalizeValue(v)
		if err != nil {
			return nil, err
		}
		out[k] = nv
	}
	return out, nil
}

func normalizeValue(v any) (any, error) {
	switch x := v.(type) {
	case Map:
		return normalizeValue(map[string]any(x))
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			ne, err := normalizeValue(e)
			if err != nil {
				return nil, err
			}
			out[k] = ne
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			sk, ok := k.(string)
			if !ok {
				return nil, NonStringKeyError{Key: k}
			}
			ne, err := normalizeValue(e)
			if err != nil {
				return nil, err
			}
			out[sk] = ne
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			ne, err := normalizeValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = ne
		}
		return out, nil
	default:
		return v, nil
	}
}
