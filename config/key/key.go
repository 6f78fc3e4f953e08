// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package key provides types for addressing values within nested config documents.
package key

import (
	"strings"
)

// Keyer is a common interface all value key types must implement.
type Keyer interface {
	Key() string
}

// Chain represents nested keys.
type Chain []Keyer

// Key implements the [Keyer] interface.
func (k Chain) Key() string {
	ss := make([]string, len(k))
	for i := range k {
		ss[i] = k[i].Key()
	}
	return strings.Join(ss, ".")
}

// Names returns the individual key segments of the chain.
func (k Chain) Names() []string {
	ss := make([]string, 0, len(k))
	for _, kr := range k {
		switch x := kr.(type) {
		case Chain:
			ss = append(ss, x.Names()...)
		default:
			ss = append(ss, kr.Key())
		}
	}
	return ss
}

// Append returns a new Chain with name added to the end. The receiver is
// never modified.
func (k Chain) Append(name string) Chain {
	c := make(Chain, len(k), len(k)+1)
	copy(c, k)
	return append(c, Name(name))
}

// ParseChain splits a dot separated path, e.g. "optimization.minimize",
// into a Chain. An empty string results in an empty Chain.
func ParseChain(s string) Chain {
	if s == "" {
		return Chain{}
	}
	parts := strings.Split(s, ".")
	c := make(Chain, len(parts))
	for i, p := range parts {
		c[i] = Name(p)
	}
	return c
}

// Name represents a single key.
type Name string

// Key implements the [Keyer] interface.
func (k Name) Key() string {
	return string(k)
}
