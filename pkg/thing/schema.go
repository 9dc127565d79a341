package thing

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaCache compiles and caches JSON-Schema validators keyed by a
// caller-supplied name (a property's name, or "action:<name>" for an action
// type's input), so repeated SetValue/AddAction calls on the same property or
// action type don't recompile the schema every time. The first document
// compiled under a key is reused for that key; Thing.AddAvailableAction drops
// the entry of an action type it re-registers.
type schemaCache struct {
	mu    sync.Mutex
	byKey map[string]*jsonschema.Schema
}

func newSchemaCache() *schemaCache {
	return &schemaCache{byKey: make(map[string]*jsonschema.Schema)}
}

// compile returns a compiled schema for doc, reusing a prior compilation
// keyed by the same resource name if one exists.
func (c *schemaCache) compile(key string, doc map[string]any) (*jsonschema.Schema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.byKey[key]; ok {
		return s, nil
	}

	compiler := jsonschema.NewCompiler()
	resource := "mem://" + key + "/schema.json"
	if err := compiler.AddResource(resource, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	c.byKey[key] = schema
	return schema, nil
}

// validate compiles (or reuses) the schema under key and validates value
// against it. A metadata map with no "type"/constraint keys relevant to
// jsonschema still compiles fine as the empty schema, which accepts anything.
func (c *schemaCache) validate(key string, doc map[string]any, value any) error {
	schema, err := c.compile(key, doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	// jsonschema/v6 validates Go-native values decoded the way
	// encoding/json decodes them (float64 for numbers, map[string]any for
	// objects); round-trip through JSON to normalize caller-supplied values
	// (e.g. plain int) into that shape.
	normalized, err := normalizeJSON(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}

	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return nil
}

func normalizeJSON(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
