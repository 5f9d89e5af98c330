package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"dijital-vitrin/cart"
)

// AttributeValue is either a single string or an ordered list of strings.
type AttributeValue struct {
	Values []string
	Multi  bool
}

func Single(v string) AttributeValue    { return AttributeValue{Values: []string{v}} }
func Multi(vs ...string) AttributeValue { return AttributeValue{Values: vs, Multi: true} }
func (a AttributeValue) List() []string { return a.Values }
func (a AttributeValue) IsChoice() bool { return a.Multi && len(a.Values) > 1 }
func (a AttributeValue) String() string { return strings.Join(a.Values, ", ") }

// Contains reports whether v is one of the values.
func (a AttributeValue) Contains(v string) bool {
	for _, x := range a.Values {
		if x == v {
			return true
		}
	}
	return false
}

func (a AttributeValue) MarshalJSON() ([]byte, error) {
	if a.Multi {
		if a.Values == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.Values)
	}
	if len(a.Values) == 0 {
		return []byte(`""`), nil
	}
	return json.Marshal(a.Values[0])
}

func (a *AttributeValue) UnmarshalJSON(data []byte) error {
	var list []any
	if err := json.Unmarshal(data, &list); err == nil {
		a.Multi = true
		a.Values = make([]string, 0, len(list))
		for _, v := range list {
			a.Values = append(a.Values, scalarString(v))
		}
		return nil
	}

	var single any
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	switch single.(type) {
	case map[string]any:
		return fmt.Errorf("attribute value must be a string or a list of strings")
	case nil:
		*a = AttributeValue{}
		return nil
	}
	*a = Single(scalarString(single))
	return nil
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// Attributes maps attribute keys to values. Stored as JSONB.
type Attributes map[string]AttributeValue

// Keys returns the attribute keys sorted.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a)
}

func (a *Attributes) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = Attributes{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported attributes type %T", src)
	}
	out := Attributes{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode attributes: %w", err)
	}
	*a = out
	return nil
}

// Product is a store's sellable item
type Product struct {
	ID          string     `json:"id"`
	StoreID     string     `json:"storeId"`
	CategoryID  *string    `json:"categoryId,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	SKU         string     `json:"sku,omitempty"`
	Price       float64    `json:"price"`
	SalePrice   *float64   `json:"salePrice,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	Attributes  Attributes `json:"attributes"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// HasDiscount reports whether the sale price applies.
func (p Product) HasDiscount() bool {
	return p.SalePrice != nil && *p.SalePrice < p.Price
}

// CartProduct copies the display fields the cart keeps.
func (p Product) CartProduct() cart.Product {
	cp := cart.Product{ID: p.ID, Name: p.Name, Price: p.Price, ImageURL: p.ImageURL}
	if p.SalePrice != nil {
		sp := *p.SalePrice
		cp.SalePrice = &sp
	}
	return cp
}

// CreateProductRequest is the dashboard body for POST /admin/products
type CreateProductRequest struct {
	CategoryID  *string    `json:"categoryId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	SKU         string     `json:"sku"`
	Price       float64    `json:"price"`
	SalePrice   *float64   `json:"salePrice"`
	Attributes  Attributes `json:"attributes"`
}
