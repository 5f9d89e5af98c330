package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const descriptorSchemaURL = "https://dijital-vitrin.local/schemas/attribute-schema.json"

//go:embed descriptor.schema.json
var descriptorSchemaJSON string

var (
	descriptorOnce   sync.Once
	descriptorSchema *jsonschema.Schema
	descriptorErr    error
)

func compiledDescriptorSchema() (*jsonschema.Schema, error) {
	descriptorOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(descriptorSchemaURL, strings.NewReader(descriptorSchemaJSON)); err != nil {
			descriptorErr = fmt.Errorf("descriptor schema load failed: %w", err)
			return
		}
		descriptorSchema, descriptorErr = c.Compile(descriptorSchemaURL)
		if descriptorErr != nil {
			descriptorErr = fmt.Errorf("descriptor schema compile failed: %w", descriptorErr)
		}
	})
	return descriptorSchema, descriptorErr
}

// ParseDocument decodes a JSON field list submitted by the category editor.
// The document must match the descriptor JSON Schema, pass CheckAuthoring
// and compile.
func ParseDocument(raw []byte) (Schema, error) {
	sch, err := compiledDescriptorSchema()
	if err != nil {
		return nil, err
	}

	if err := checkDescriptor(sch, raw); err != nil {
		return nil, err
	}

	var s Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, &SchemaError{Problems: []string{err.Error()}}
	}
	if err := CheckAuthoring(s); err != nil {
		return nil, err
	}
	return s, nil
}

// ValidateSchema applies the ParseDocument checks to a schema built in code,
// so form-authored fields obey the same rules as uploaded documents.
func ValidateSchema(s Schema) error {
	sch, err := compiledDescriptorSchema()
	if err != nil {
		return err
	}
	if s == nil {
		s = Schema{}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	if err := checkDescriptor(sch, raw); err != nil {
		return err
	}
	return CheckAuthoring(s)
}

func checkDescriptor(sch *jsonschema.Schema, raw []byte) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return &SchemaError{Problems: []string{fmt.Sprintf("malformed JSON: %v", err)}}
	}
	if err := sch.Validate(doc); err != nil {
		return &SchemaError{Problems: validationProblems(err)}
	}
	return nil
}

// CheckAuthoring applies the category-editing rules on top of Compile:
// every select field, required or not, must carry at least one option.
func CheckAuthoring(s Schema) error {
	var problems []string
	for _, f := range s {
		if f.Kind == KindSelect && len(f.Options) == 0 {
			problems = append(problems, fmt.Sprintf("field %q: select needs at least one option", f.Name))
		}
	}
	if _, err := Compile(s); err != nil {
		var se *SchemaError
		if errors.As(err, &se) {
			problems = append(problems, se.Problems...)
		} else {
			problems = append(problems, err.Error())
		}
	}
	if len(problems) > 0 {
		return &SchemaError{Problems: problems}
	}
	return nil
}

func validationProblems(err error) []string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	var problems []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			location := e.InstanceLocation
			if location == "" {
				location = "/"
			}
			problems = append(problems, fmt.Sprintf("%s: %s", location, e.Message))
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)
	return problems
}

// JSONSchema exports s as a Draft 2020-12 object schema describing the
// values a submission may carry.
func (s Schema) JSONSchema() map[string]any {
	properties := make(map[string]any, len(s))
	required := []string{}

	for _, f := range s {
		prop := map[string]any{"title": f.DisplayLabel()}
		c := f.Constraints
		switch f.Kind {
		case KindNumber:
			prop["type"] = "number"
			if c.Min != nil {
				prop["minimum"] = *c.Min
			}
			if c.Max != nil {
				prop["maximum"] = *c.Max
			}
		case KindCheckbox:
			prop["type"] = "boolean"
		case KindSelect:
			prop["type"] = "string"
			prop["enum"] = f.OptionValues()
		case KindEmail:
			prop["type"] = "string"
			prop["format"] = "email"
		default:
			prop["type"] = "string"
			minLength := 0
			if c.MinLength != nil {
				minLength = *c.MinLength
			}
			if f.Required && minLength < 1 {
				minLength = 1
			}
			if minLength > 0 {
				prop["minLength"] = minLength
			}
			if c.MaxLength != nil {
				prop["maxLength"] = *c.MaxLength
			}
			if c.Pattern != "" {
				prop["pattern"] = c.Pattern
			}
		}
		if f.Required && f.Kind != KindCheckbox {
			required = append(required, f.Name)
		}
		properties[f.Name] = prop
	}

	return map[string]any{
		"$schema":    "https://json-schema.org/draft/2020-12/schema",
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}
