// Package schema turns tenant-authored attribute field lists into validators,
// default values and renderable form fields.
package schema

import (
	"fmt"
	"net/url"
	"strings"
)

// SchemaError collects every authoring problem found while compiling a schema.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return "invalid attribute schema: " + strings.Join(e.Problems, "; ")
}

// FieldErrors maps a field name to its violation messages.
type FieldErrors map[string][]string

// Result is the outcome of validating one submission.
// Values is nil whenever Errors is non-empty.
type Result struct {
	Values map[string]any `json:"values,omitempty"`
	Errors FieldErrors    `json:"errors,omitempty"`
}

// Valid reports whether the submission passed every field rule.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

type compiledField struct {
	field Field
	check rule
}

// Validator validates submissions against a compiled schema. It is immutable
// and safe for concurrent use.
type Validator struct {
	fields []compiledField
}

// Compile builds the aggregate validator for a schema. Authoring mistakes
// (empty or duplicate names, unknown kinds, required selects without options,
// bad patterns, inverted bounds) fail here with a *SchemaError.
func Compile(s Schema) (*Validator, error) {
	var problems []string
	seen := make(map[string]bool, len(s))
	v := &Validator{fields: make([]compiledField, 0, len(s))}

	for i, f := range s {
		if strings.TrimSpace(f.Name) == "" {
			problems = append(problems, fmt.Sprintf("field #%d: name is required", i+1))
			continue
		}
		if seen[f.Name] {
			problems = append(problems, fmt.Sprintf("field %q: duplicate name", f.Name))
			continue
		}
		seen[f.Name] = true

		build, ok := ruleBuilders[f.Kind]
		if !ok {
			problems = append(problems, fmt.Sprintf("field %q: unknown type %q", f.Name, f.Kind))
			continue
		}
		check, err := build(f)
		if err != nil {
			problems = append(problems, fmt.Sprintf("field %q: %v", f.Name, err))
			continue
		}
		v.fields = append(v.fields, compiledField{field: f, check: check})
	}

	if len(problems) > 0 {
		return nil, &SchemaError{Problems: problems}
	}
	return v, nil
}

// Fields returns the compiled fields in schema order.
func (v *Validator) Fields() Schema {
	fields := make(Schema, 0, len(v.fields))
	for _, cf := range v.fields {
		fields = append(fields, cf.field)
	}
	return fields
}

// Validate checks input against every field. Keys not in the schema are ignored.
func (v *Validator) Validate(input map[string]any) Result {
	values := make(map[string]any, len(v.fields))
	var errs FieldErrors

	for _, cf := range v.fields {
		raw, ok := input[cf.field.Name]
		present := ok && !isBlank(raw)

		value, problems := cf.check(raw, present)
		if len(problems) > 0 {
			if errs == nil {
				errs = make(FieldErrors)
			}
			errs[cf.field.Name] = problems
			continue
		}
		if value != nil {
			values[cf.field.Name] = value
		}
	}

	if len(errs) > 0 {
		return Result{Errors: errs}
	}
	return Result{Values: values}
}

// ValidateForm validates an HTML form post, using the first value of each key.
func (v *Validator) ValidateForm(form url.Values) Result {
	input := make(map[string]any, len(form))
	for key, vals := range form {
		if len(vals) > 0 {
			input[key] = vals[0]
		}
	}
	return v.Validate(input)
}

// Defaults returns the initial form values: 0 for numbers, false for
// checkboxes and the empty string for everything else.
func Defaults(s Schema) map[string]any {
	defaults := make(map[string]any, len(s))
	for _, f := range s {
		switch f.Kind {
		case KindNumber:
			defaults[f.Name] = 0
		case KindCheckbox:
			defaults[f.Name] = false
		default:
			defaults[f.Name] = ""
		}
	}
	return defaults
}
