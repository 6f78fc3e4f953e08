// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package merge

import (
	"reflect"

	"github.com/z5labs/envcompose/config"
	"github.com/z5labs/envcompose/config/key"
)

// Merge deep merges ms using the default strategies.
func Merge(ms ...config.Map) (config.Map, error) {
	return With(nil, ms...)
}

// With deep merges ms using the given options. Nil documents are skipped.
func With(opts []Option, ms ...config.Map) (config.Map, error) {
	o := newOptions(opts)

	out := make(map[string]any)
	for _, m := range ms {
		if m == nil {
			continue
		}

		merged, err := o.mergeMaps(key.Chain{}, out, m)
		if err != nil {
			return nil, err
		}
		out = merged
	}
	return config.Map(out), nil
}

func (o *options) mergeMaps(path key.Chain, left, right map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(left)+len(right))
	for k, v := range left {
		out[k] = clone(v)
	}
	for k, rv := range right {
		lv, exists := out[k]
		if !exists {
			v, err := o.mergeValue(path.Append(k), nil, rv, false)
			if err != nil {
				return nil, err
			}
			out[k] = v
			continue
		}

		v, err := o.mergeValue(path.Append(k), lv, rv, true)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// mergeValue combines the already cloned left value with right.
func (o *options) mergeValue(path key.Chain, left, right any, hasLeft bool) (any, error) {
	v, err := o.combine(path, left, right, hasLeft)
	if err != nil {
		return nil, err
	}
	return o.dedupe(path.Key(), v)
}

func (o *options) combine(path key.Chain, left, right any, hasLeft bool) (any, error) {
	p := path.Key()
	s := o.strategies[p]
	err := checkStrategy(p, s, right)
	if err != nil {
		return nil, err
	}
	if s == Replace {
		return clone(right), nil
	}

	rm, ok := asMap(right)
	if ok {
		lm, ok := asMap(left)
		if !hasLeft || !ok {
			lm = map[string]any{}
		}
		return o.mergeMaps(path, lm, rm)
	}

	if hasLeft && isSlice(left) && isSlice(right) {
		if s == Prepend {
			return concat(clone(right), left), nil
		}
		return concat(left, clone(right)), nil
	}
	return clone(right), nil
}

func checkStrategy(path string, s Strategy, v any) error {
	switch s {
	case Append, Prepend:
		if _, ok := asMap(v); ok {
			return StrategyMismatchError{Path: path, Strategy: s.String(), Kind: "document"}
		}
	case Deep:
		if isSlice(v) {
			return StrategyMismatchError{Path: path, Strategy: s.String(), Kind: "slice"}
		}
	}
	return nil
}

func (o *options) dedupe(path string, v any) (any, error) {
	field, ok := o.unique[path]
	if !ok || v == nil {
		return v, nil
	}
	if !isSlice(v) {
		return nil, StrategyMismatchError{Path: path, Strategy: "unique", Kind: kindOf(v)}
	}

	rv := reflect.ValueOf(v)
	last := make(map[any]int)
	for i := range rv.Len() {
		id, ok := fieldValue(rv.Index(i).Interface(), field)
		if !ok {
			continue
		}
		last[id] = i
	}

	out := reflect.MakeSlice(rv.Type(), 0, rv.Len())
	for i := range rv.Len() {
		e := rv.Index(i)
		id, ok := fieldValue(e.Interface(), field)
		if ok && last[id] != i {
			continue
		}
		out = reflect.Append(out, e)
	}
	return out.Interface(), nil
}

func fieldValue(v any, field string) (any, bool) {
	m, ok := asMap(v)
	if !ok {
		return nil, false
	}
	id, ok := m[field]
	if !ok || id == nil || !reflect.TypeOf(id).Comparable() {
		return nil, false
	}
	return id, true
}

func asMap(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, true
	case config.Map:
		return x, true
	default:
		return nil, false
	}
}

func isSlice(v any) bool {
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).Kind() == reflect.Slice
}

func kindOf(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).Kind().String()
}

// concat joins two slices. Slices of the same type keep their type,
// otherwise the result is a []any.
func concat(a, b any) any {
	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	if av.Type() == bv.Type() {
		out := reflect.MakeSlice(av.Type(), 0, av.Len()+bv.Len())
		out = reflect.AppendSlice(out, av)
		out = reflect.AppendSlice(out, bv)
		return out.Interface()
	}

	out := make([]any, 0, av.Len()+bv.Len())
	for i := range av.Len() {
		out = append(out, av.Index(i).Interface())
	}
	for i := range bv.Len() {
		out = append(out, bv.Index(i).Interface())
	}
	return out
}

func clone(v any) any {
	m, ok := asMap(v)
	if ok {
		return map[string]any(config.Map(m).Clone())
	}
	if !isSlice(v) {
		return v
	}
	c := config.Map{"v": v}.Clone()
	return c["v"]
}
