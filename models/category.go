package models

import (
	"time"

	"dijital-vitrin/schema"
)

// Category groups products and owns the attribute schema they are described by
type Category struct {
	ID              string        `json:"id"`
	StoreID         string        `json:"storeId"`
	Name            string        `json:"name"`
	Slug            string        `json:"slug"`
	AttributeSchema schema.Schema `json:"attributeSchema"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// AddFieldRequest is the form post used to append one field to a category schema.
// Options is comma-separated free text for select fields.
type AddFieldRequest struct {
	Name     string
	Kind     string
	Label    string
	Required bool
	Options  string
}
