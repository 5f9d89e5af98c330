package service

import (
	"fmt"
	"net/url"
	"strings"

	"dijital-vitrin/cart"
	"dijital-vitrin/models"
	"dijital-vitrin/schema"
)

// AttrPrefix prefixes attribute picker inputs in forms and query strings.
const AttrPrefix = "attr."

// AttributePicker turns a product's multi-valued attributes into select
// fields and validates a customer's choice against them.
type AttributePicker struct {
	cache *schema.Cache
}

func NewAttributePicker(cache *schema.Cache) *AttributePicker {
	if cache == nil {
		cache = schema.NewCache()
	}
	return &AttributePicker{cache: cache}
}

// PickerSchema lists one select per attribute the customer can choose.
// Category fields come first in schema order and keep their label and
// required flag; remaining choice attributes follow sorted by key.
func PickerSchema(p models.Product, category schema.Schema) schema.Schema {
	var out schema.Schema
	seen := map[string]bool{}

	for _, f := range category {
		v, ok := p.Attributes[f.Name]
		if !ok || !v.IsChoice() {
			continue
		}
		seen[f.Name] = true
		out = append(out, schema.Field{
			Name:     f.Name,
			Kind:     schema.KindSelect,
			Label:    f.DisplayLabel(),
			Required: f.Required,
			Options:  optionsFor(f, v.List()),
		})
	}
	for _, key := range p.Attributes.Keys() {
		v := p.Attributes[key]
		if seen[key] || !v.IsChoice() {
			continue
		}
		out = append(out, schema.Field{
			Name:    key,
			Kind:    schema.KindSelect,
			Label:   key,
			Options: schema.OptionsFromTags(v.List()),
		})
	}
	return out
}

// optionsFor keeps the category option labels for values the product offers.
func optionsFor(f schema.Field, values []string) []schema.Option {
	labels := map[string]string{}
	for _, o := range f.Options {
		labels[o.Value] = o.Label
	}
	opts := make([]schema.Option, 0, len(values))
	for _, v := range values {
		label := labels[v]
		if label == "" {
			label = v
		}
		opts = append(opts, schema.Option{Value: v, Label: label})
	}
	return opts
}

// Select validates attr.<key> entries in form and returns the selection in
// picker order. Keys the product does not offer as a choice are ignored.
func (ap *AttributePicker) Select(p models.Product, category schema.Schema, form url.Values) (cart.Selection, schema.FieldErrors, error) {
	picker := PickerSchema(p, category)
	if len(picker) == 0 {
		return nil, nil, nil
	}

	compiled, err := ap.cache.Get(picker)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compile attribute picker for product %s: %w", p.ID, err)
	}

	input := url.Values{}
	for key, values := range form {
		if name, ok := strings.CutPrefix(key, AttrPrefix); ok {
			input[name] = values
		}
	}

	res := compiled.Validator.ValidateForm(input)
	if !res.Valid() {
		return nil, res.Errors, nil
	}

	var sel cart.Selection
	for _, f := range picker {
		if v, ok := res.Values[f.Name].(string); ok && v != "" {
			sel = append(sel, cart.Attribute{Key: f.Name, Value: v})
		}
	}
	return sel, nil, nil
}
