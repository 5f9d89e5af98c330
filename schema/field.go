package schema

// Kind identifies the input type of an attribute field.
type Kind string

const (
	KindText     Kind = "text"
	KindNumber   Kind = "number"
	KindEmail    Kind = "email"
	KindPhone    Kind = "phone"
	KindSelect   Kind = "select"
	KindTextarea Kind = "textarea"
	KindCheckbox Kind = "checkbox"
)

// Kinds lists every supported kind in authoring order.
var Kinds = []Kind{KindText, KindNumber, KindEmail, KindPhone, KindSelect, KindTextarea, KindCheckbox}

// Option is one choice of a select field
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Constraints holds the optional validation bounds of a field.
// Min/Max apply to number fields, the length and pattern bounds to text-like fields.
type Constraints struct {
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
}

// Field describes a single tenant-authored attribute (e.g. size, color).
type Field struct {
	Name        string      `json:"name"`
	Kind        Kind        `json:"type"`
	Label       string      `json:"label"`
	Required    bool        `json:"required"`
	Placeholder string      `json:"placeholder,omitempty"`
	Options     []Option    `json:"options,omitempty"`
	Constraints Constraints `json:"validation"`
}

// DisplayLabel returns the label, falling back to the field name.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// OptionValues returns the raw values of the field options in order.
func (f Field) OptionValues() []string {
	values := make([]string, 0, len(f.Options))
	for _, o := range f.Options {
		values = append(values, o.Value)
	}
	return values
}

// Schema is the ordered field list attached to a category.
type Schema []Field

// Field looks up a field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names returns field names in schema order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for _, f := range s {
		names = append(names, f.Name)
	}
	return names
}
