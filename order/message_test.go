package order

import (
	"net/url"
	"strings"
	"testing"

	"dijital-vitrin/cart"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(f float64) *float64 { return &f }

func TestFormatPhoneNumber(t *testing.T) {
	cases := map[string]string{
		"+90 (555) 123-4567": "905551234567",
		"00905551234567":     "905551234567",
		"0090 555 123 45 67": "905551234567",
		"05551234567":        "05551234567",
		"":                   "",
		"000":                "0",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatPhoneNumber(in), "input %q", in)
	}
}

func TestBuildOrderMessage(t *testing.T) {
	msg := BuildOrderMessage(Params{
		StoreName: "Mavi Butik",
		Items: []Line{
			{Name: "Gömlek", Quantity: 2, Attributes: cart.Selection{{Key: "size", Value: "M"}, {Key: "color", Value: "red"}}, Price: amount(1500)},
			{Name: "Kupa", Quantity: 1},
		},
		TotalAmount:    amount(1580),
		OrderReference: "VT-1",
	})

	want := strings.Join([]string{
		"Merhaba Mavi Butik,",
		"",
		intro,
		"",
		"• Gömlek (x2) (size: M, color: red) - 1.500 TL",
		"• Kupa",
		"",
		"Total Amount: 1.580 TL",
		"Order Reference: VT-1",
	}, "\n")
	assert.Equal(t, want, msg)
}

func TestReferenceWithoutTotalGetsBlankLine(t *testing.T) {
	msg := BuildOrderMessage(Params{
		StoreName:      "Mavi",
		Items:          []Line{{Name: "Kupa", Quantity: 1}},
		OrderReference: "VT-2",
	})
	assert.True(t, strings.HasSuffix(msg, "• Kupa\n\nOrder Reference: VT-2"))
	assert.NotContains(t, msg, "Total Amount")
}

func TestBuildWhatsAppURL(t *testing.T) {
	p := Params{
		PhoneNumber: "+90 (555) 123-4567",
		StoreName:   "A&B (Moda)",
		Items:       []Line{{Name: "Çay + kupa", Quantity: 3}},
	}
	link := BuildWhatsAppURL(p)

	require.True(t, strings.HasPrefix(link, "https://wa.me/905551234567?text="))
	encoded := strings.TrimPrefix(link, "https://wa.me/905551234567?text=")
	assert.Contains(t, encoded, "Merhaba%20A%26B%20(Moda)%2C%0A%0A")
	assert.NotContains(t, encoded, "+")
	assert.NotContains(t, encoded, " ")

	decoded, err := url.PathUnescape(encoded)
	require.NoError(t, err)
	assert.Equal(t, BuildOrderMessage(p), decoded)
}

func TestFromCart(t *testing.T) {
	sale := 80.0
	c := cart.New(nil)
	c.AddItem(cart.Product{ID: "p1", Name: "Gömlek", Price: 100}, 2, cart.Selection{{Key: "size", Value: "M"}})
	c.AddItem(cart.Product{ID: "p2", Name: "Kupa", Price: 100, SalePrice: &sale}, 1, nil)

	p := FromCart("905551234567", "Mavi", c)
	require.Len(t, p.Items, 2)
	assert.Equal(t, 200.0, *p.Items[0].Price)
	assert.Equal(t, 80.0, *p.Items[1].Price)
	assert.Equal(t, 280.0, *p.TotalAmount)
	assert.Contains(t, BuildOrderMessage(p), "Total Amount: 280 TL")
}

func TestNewReference(t *testing.T) {
	ref := NewReference()
	assert.Regexp(t, `^VT-[0-9A-F]{8}$`, ref)
	assert.NotEqual(t, ref, NewReference())
}

func TestMessageProperties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("message is deterministic", prop.ForAll(
		func(store string, names []string, q int) bool {
			lines := make([]Line, 0, len(names))
			for _, n := range names {
				lines = append(lines, Line{Name: n, Quantity: q})
			}
			p := Params{StoreName: store, Items: lines, TotalAmount: amount(float64(q) * 10)}
			return BuildOrderMessage(p) == BuildOrderMessage(p) && BuildWhatsAppURL(p) == BuildWhatsAppURL(p)
		},
		gen.AlphaString(), gen.SliceOf(gen.AlphaString()), gen.IntRange(1, 9),
	))

	properties.Property("encoded text decodes back to the message", prop.ForAll(
		func(store, name string) bool {
			p := Params{PhoneNumber: "0090 555", StoreName: store, Items: []Line{{Name: name, Quantity: 1}}}
			encoded := strings.TrimPrefix(BuildWhatsAppURL(p), "https://wa.me/90555?text=")
			decoded, err := url.PathUnescape(encoded)
			return err == nil && decoded == BuildOrderMessage(p)
		},
		gen.AnyString(), gen.AnyString(),
	))

	properties.Property("formatted phone numbers are digits only", prop.ForAll(
		func(raw string) bool {
			for _, r := range FormatPhoneNumber(raw) {
				if r < '0' || r > '9' {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
