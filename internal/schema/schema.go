// Package schema declares the JSON shapes the gateway expects back from the
// AI provider. A single declaration serves two purposes: it is serialized into
// the provider request as a generation constraint, and it is compiled into a
// JSON Schema used to validate whatever text actually comes back.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Type enumerates the supported field types
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Field describes one property of an expected response object
type Field struct {
	Type        Type
	Description string
	Enum        []string
	Items       *Field
	Properties  map[string]Field
	Required    []string
}

// Object describes the root response object a caller expects
type Object struct {
	Properties map[string]Field
	Required   []string

	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
}

// ContractError reports AI output that is not valid JSON or violates the
// declared shape. Callers decide whether to degrade or propagate.
type ContractError struct {
	Reason string
	Raw    string
	Cause  error
}

func (e *ContractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("response contract violated: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("response contract violated: %s", e.Reason)
}

func (e *ContractError) Unwrap() error {
	return e.Cause
}

// ToGenerationSchema renders the provider wire form of the schema, used as
// generationConfig.responseSchema on direct calls and forwarded verbatim to
// the relay in proxy mode. The provider expects uppercase type names.
func (o *Object) ToGenerationSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "OBJECT",
		"properties": generationProperties(o.Properties),
		"required":   o.Required,
	}
}

func generationProperties(props map[string]Field) map[string]interface{} {
	out := make(map[string]interface{}, len(props))
	for name, f := range props {
		out[name] = generationField(f)
	}
	return out
}

func generationField(f Field) map[string]interface{} {
	entry := map[string]interface{}{
		"type": strings.ToUpper(string(f.Type)),
	}
	if f.Description != "" {
		entry["description"] = f.Description
	}
	if len(f.Enum) > 0 {
		entry["enum"] = f.Enum
	}
	if f.Type == TypeArray && f.Items != nil {
		entry["items"] = generationField(*f.Items)
	}
	if f.Type == TypeObject && len(f.Properties) > 0 {
		entry["properties"] = generationProperties(f.Properties)
		if len(f.Required) > 0 {
			entry["required"] = f.Required
		}
	}
	return entry
}

// jsonSchema renders a draft 2020-12 document for validation. Extra keys in
// the response are tolerated; only declared keys and the required subset are
// enforced.
func (o *Object) jsonSchema() map[string]interface{} {
	doc := map[string]interface{}{
		"$schema":    "https://json-schema.org/draft/2020-12/schema",
		"type":       "object",
		"properties": validationProperties(o.Properties),
	}
	if len(o.Required) > 0 {
		doc["required"] = o.Required
	}
	return doc
}

func validationProperties(props map[string]Field) map[string]interface{} {
	out := make(map[string]interface{}, len(props))
	for name, f := range props {
		out[name] = validationField(f)
	}
	return out
}

func validationField(f Field) map[string]interface{} {
	entry := map[string]interface{}{
		"type": string(f.Type),
	}
	if len(f.Enum) > 0 {
		values := make([]interface{}, len(f.Enum))
		for i, v := range f.Enum {
			values[i] = v
		}
		entry["enum"] = values
	}
	if f.Type == TypeArray && f.Items != nil {
		entry["items"] = validationField(*f.Items)
	}
	if f.Type == TypeObject && len(f.Properties) > 0 {
		entry["properties"] = validationProperties(f.Properties)
		if len(f.Required) > 0 {
			entry["required"] = f.Required
		}
	}
	return entry
}

// compile builds the validator once per Object; declarations are package-level
// and shared across calls
func (o *Object) compile() (*jsonschema.Schema, error) {
	o.compileOnce.Do(func() {
		schemaBytes, err := json.Marshal(o.jsonSchema())
		if err != nil {
			o.compileErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("schema.json", bytes.NewReader(schemaBytes)); err != nil {
			o.compileErr = err
			return
		}
		o.compiled, o.compileErr = compiler.Compile("schema.json")
	})
	return o.compiled, o.compileErr
}

// Decode parses raw model output against the declared shape and unmarshals it
// into the target struct. Markdown code fences around the JSON are stripped
// first; providers emit them even when asked for bare JSON.
func (o *Object) Decode(raw string, into interface{}) error {
	cleaned := StripCodeFences(raw)
	if cleaned == "" {
		return &ContractError{Reason: "empty response", Raw: raw}
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return &ContractError{Reason: "response is not valid JSON", Raw: raw, Cause: err}
	}

	compiled, err := o.compile()
	if err != nil {
		return fmt.Errorf("failed to compile response schema: %w", err)
	}

	if err := compiled.Validate(decoded); err != nil {
		return &ContractError{Reason: "response shape mismatch", Raw: raw, Cause: err}
	}

	if err := json.Unmarshal([]byte(cleaned), into); err != nil {
		return &ContractError{Reason: "response does not fit target type", Raw: raw, Cause: err}
	}

	return nil
}

// StripCodeFences removes a surrounding ```json ... ``` block, if present
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
