package cart

import (
	"math"
	"sort"
	"strings"
)

// Product carries the display fields of a product at the moment it was added.
type Product struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	SalePrice *float64 `json:"salePrice,omitempty"`
	ImageURL  string   `json:"imageUrl,omitempty"`
}

// UnitPrice is the sale price when it is set and lower than the base price.
func (p Product) UnitPrice() float64 {
	if p.SalePrice != nil && *p.SalePrice < p.Price {
		return *p.SalePrice
	}
	return p.Price
}

// Attribute is one chosen attribute value, e.g. size=M.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Selection holds the attributes a customer actively chose, in the order
// they were chosen. Order matters for display only.
type Selection []Attribute

// Get returns the chosen value for key.
func (s Selection) Get(key string) (string, bool) {
	for _, a := range s {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Key is the serialized form used for line identity. It is independent of
// selection order, so {size, color} and {color, size} name the same line.
func (s Selection) Key() string {
	if len(s) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(s))
	for _, a := range s {
		pairs = append(pairs, escapeKeyPart(a.Key)+"="+escapeKeyPart(a.Value))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "&")
}

// Map returns the selection as a plain map.
func (s Selection) Map() map[string]string {
	if len(s) == 0 {
		return nil
	}
	m := make(map[string]string, len(s))
	for _, a := range s {
		m[a.Key] = a.Value
	}
	return m
}

func (s Selection) clone() Selection {
	if s == nil {
		return nil
	}
	return append(Selection(nil), s...)
}

func escapeKeyPart(s string) string {
	return strings.NewReplacer(`\`, `\\`, "=", `\=`, "&", `\&`).Replace(s)
}

// Item is one cart line.
type Item struct {
	Product            Product   `json:"product"`
	Quantity           int       `json:"quantity"`
	SelectedAttributes Selection `json:"selectedAttributes,omitempty"`
}

// LineKey identifies a line: same product and same attribute selection.
func (i Item) LineKey() string {
	return lineKey(i.Product.ID, i.SelectedAttributes)
}

// LineTotal is unit price times quantity.
func (i Item) LineTotal() float64 {
	return roundMoney(i.Product.UnitPrice() * float64(i.Quantity))
}

func lineKey(productID string, attrs Selection) string {
	return productID + "|" + attrs.Key()
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
