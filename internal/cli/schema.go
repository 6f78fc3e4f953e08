// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/z5labs/envcompose/config"

	"github.com/xeipuuv/gojsonschema"
)

// InvalidSchemaError occurs when the JSON schema itself can not be loaded.
type InvalidSchemaError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidSchemaError) Error() string {
	return fmt.Sprintf("invalid json schema: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidSchemaError) Unwrap() error {
	return e.Cause
}

// SchemaValidationError occurs when the composed config does
// not satisfy the JSON schema.
type SchemaValidationError struct {
	Errors []string
}

// Error implements the error interface.
func (e SchemaValidationError) Error() string {
	return "composed config does not match schema: " + strings.Join(e.Errors, "; ")
}

func validateSchema(schema []byte, m config.Map) error {
	doc, err := json.Marshal(map[string]any(m))
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return InvalidSchemaError{Cause: err}
	}
	if result.Valid() {
		return nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return SchemaValidationError{Errors: errs}
}
