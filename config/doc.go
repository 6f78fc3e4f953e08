// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config provides the building blocks for reading configuration
// values and documents.
//
// # Values
//
// A [Reader] represents a source of a single configuration value which may
// or may not be present. Readers compose using [Or], [Default], [Transform] and
// [Bind]:
//
//	env, err := config.Read(ctx,
//	    config.Default("dev", config.NonEmpty(config.Env("NODE_ENV"))),
//	)
//
// [Value] distinguishes "not set" from "set to the zero value". [Read]
// converts "not set" into [ErrValueNotSet].
//
// # Documents
//
// A [Map] is a nested configuration document as decoded from YAML or JSON
// by [DecodeYaml] and [DecodeJson]. Nested documents are always normalized
// to map[string]any. Documents can be decoded into typed structs with
// [Map.Decode], which uses the "config" struct tag:
//
//	var cfg struct {
//	    Mode string `config:"mode"`
//	}
//	err := m.Decode(&cfg)
//
// Document files may be rendered through text/template before decoding,
// see [RenderTextTemplate].
package config
