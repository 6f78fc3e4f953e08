// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package merge deep merges configuration documents.
//
// Documents are merged left to right and values from later documents
// take precedence:
//   - two nested documents are merged recursively
//   - two slices are concatenated, earlier elements first
//   - anything else is replaced by the later value
//
// The default behavior can be changed for individual paths with
// [Customize] and [Unique]. Inputs are never modified and the result
// shares no maps or slices with them.
package merge
