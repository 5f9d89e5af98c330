package schema

import (
	"strconv"
)

// Widget is the input affordance a form renderer draws for a field.
type Widget string

const (
	WidgetTextInput   Widget = "text-input"
	WidgetNumberInput Widget = "number-input"
	WidgetEmailInput  Widget = "email-input"
	WidgetSelect      Widget = "select"
	WidgetTextarea    Widget = "textarea"
	WidgetCheckbox    Widget = "checkbox"
)

// WidgetFor maps a kind to its affordance and the HTML input type.
// phone renders as a text input of type "tel".
func WidgetFor(k Kind) (Widget, string) {
	switch k {
	case KindNumber:
		return WidgetNumberInput, "number"
	case KindEmail:
		return WidgetEmailInput, "email"
	case KindPhone:
		return WidgetTextInput, "tel"
	case KindSelect:
		return WidgetSelect, ""
	case KindTextarea:
		return WidgetTextarea, ""
	case KindCheckbox:
		return WidgetCheckbox, "checkbox"
	default:
		return WidgetTextInput, "text"
	}
}

// FieldView is everything a template needs to draw one field.
type FieldView struct {
	Name        string
	Label       string
	Widget      Widget
	InputType   string
	Required    bool
	Placeholder string
	Options     []Option
	Value       string
	Checked     bool
	Min         string
	Max         string
	MinLength   string
	MaxLength   string
	Pattern     string
	Errors      []string
}

// IsWidget is a template helper: {{if .IsWidget "select"}}.
func (v FieldView) IsWidget(w string) bool {
	return string(v.Widget) == w
}

// BuildForm prepares the field views for s. values holds the current input
// (nil means the schema defaults); errs holds the messages of the last
// failed validation, shown beneath the matching inputs.
// Required only marks the field; enforcement belongs to the validator.
func BuildForm(s Schema, values map[string]any, errs FieldErrors) []FieldView {
	if values == nil {
		values = Defaults(s)
	}

	views := make([]FieldView, 0, len(s))
	for _, f := range s {
		widget, inputType := WidgetFor(f.Kind)
		view := FieldView{
			Name:        f.Name,
			Label:       f.DisplayLabel(),
			Widget:      widget,
			InputType:   inputType,
			Required:    f.Required,
			Placeholder: f.Placeholder,
			Options:     f.Options,
			Pattern:     f.Constraints.Pattern,
			Errors:      errs[f.Name],
		}
		if f.Constraints.Min != nil {
			view.Min = formatNumber(*f.Constraints.Min)
		}
		if f.Constraints.Max != nil {
			view.Max = formatNumber(*f.Constraints.Max)
		}
		if f.Constraints.MinLength != nil {
			view.MinLength = strconv.Itoa(*f.Constraints.MinLength)
		}
		if f.Constraints.MaxLength != nil {
			view.MaxLength = strconv.Itoa(*f.Constraints.MaxLength)
		}

		raw := values[f.Name]
		if widget == WidgetCheckbox {
			checked, _ := checkboxRuleValue(raw)
			view.Checked = checked
		} else {
			view.Value = stringify(raw)
		}
		views = append(views, view)
	}
	return views
}

func checkboxRuleValue(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		return v == "true" || v == "on" || v == "1", true
	}
	return false, false
}

func stringify(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return formatNumber(v)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}
