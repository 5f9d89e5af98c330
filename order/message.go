// Package order turns a cart or a single product choice into a WhatsApp
// order message and deep link.
package order

import (
	"fmt"
	"strings"

	"dijital-vitrin/cart"
	"dijital-vitrin/utils"

	"github.com/google/uuid"
)

const intro = "I would like to place an order for the following items:"

// Line is one bullet of the order message.
type Line struct {
	Name       string
	Quantity   int
	Attributes cart.Selection
	// Price is the line price; nil omits the price suffix.
	Price *float64
}

// Params feeds BuildOrderMessage and BuildWhatsAppURL.
type Params struct {
	PhoneNumber    string
	StoreName      string
	Items          []Line
	TotalAmount    *float64
	OrderReference string
}

// BuildOrderMessage renders the order text. Identical params always yield
// identical output.
func BuildOrderMessage(p Params) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Merhaba %s,\n\n%s\n\n", p.StoreName, intro)

	for i, item := range p.Items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(bullet(item))
	}

	if p.TotalAmount != nil {
		fmt.Fprintf(&b, "\n\nTotal Amount: %s", utils.FormatTL(*p.TotalAmount))
	}
	if p.OrderReference != "" {
		if p.TotalAmount == nil {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "\nOrder Reference: %s", p.OrderReference)
	}
	return b.String()
}

func bullet(item Line) string {
	var b strings.Builder
	b.WriteString("• ")
	b.WriteString(item.Name)
	if item.Quantity > 1 {
		fmt.Fprintf(&b, " (x%d)", item.Quantity)
	}
	if len(item.Attributes) > 0 {
		pairs := make([]string, 0, len(item.Attributes))
		for _, a := range item.Attributes {
			pairs = append(pairs, a.Key+": "+a.Value)
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(pairs, ", "))
	}
	if item.Price != nil {
		fmt.Fprintf(&b, " - %s", utils.FormatTL(*item.Price))
	}
	return b.String()
}

// FromCart builds params for every line in the cart, with line prices and the
// cart total.
func FromCart(phoneNumber, storeName string, c *cart.Store) Params {
	items := c.Items()
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		price := it.LineTotal()
		lines = append(lines, Line{
			Name:       it.Product.Name,
			Quantity:   it.Quantity,
			Attributes: it.SelectedAttributes,
			Price:      &price,
		})
	}
	total := c.TotalPrice()
	return Params{
		PhoneNumber: phoneNumber,
		StoreName:   storeName,
		Items:       lines,
		TotalAmount: &total,
	}
}

// NewReference returns a short uppercase order reference such as "VT-1A2B3C4D".
func NewReference() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "VT-" + strings.ToUpper(id[:8])
}
