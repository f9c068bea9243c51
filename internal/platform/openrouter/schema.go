package openrouter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// JSONSchemaValidator validates structured output with compiled JSON
// schemas. Compiled schemas are cached by their source text.
type JSONSchemaValidator struct {
	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

var _ SchemaValidator = (*JSONSchemaValidator)(nil)

// NewJSONSchemaValidator creates an empty validator.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{compiled: make(map[string]*jsonschema.Schema)}
}

// Validate checks value, as produced by json.Unmarshal into an any, against schema.
func (v *JSONSchemaValidator) Validate(schema json.RawMessage, value any) error {
	compiled, err := v.compile(schema)
	if err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	return compiled.Validate(value)
}

func (v *JSONSchemaValidator) compile(schema json.RawMessage) (*jsonschema.Schema, error) {
	key := string(schema)

	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.compiled[key]; ok {
		return s, nil
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("response.json", bytes.NewReader(schema)); err != nil {
		return nil, err
	}
	s, err := compiler.Compile("response.json")
	if err != nil {
		return nil, err
	}

	v.compiled[key] = s
	return s, nil
}
