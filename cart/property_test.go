package cart

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestCartProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	sizes := gen.OneConstOf("S", "M", "L")
	ids := gen.OneConstOf("p1", "p2", "p3")

	properties.Property("adding the same line twice merges quantities", prop.ForAll(
		func(id, size string, a, b int, others []int) bool {
			s := New(nil)
			sel := Selection{{Key: "size", Value: size}}
			s.AddItem(Product{ID: id, Price: 10}, a, sel)
			for i, q := range others {
				s.AddItem(Product{ID: fmt.Sprintf("other-%d", i), Price: 3}, q, sel)
			}
			s.AddItem(Product{ID: id, Price: 10}, b, Selection{{Key: "size", Value: size}})

			items := s.Items()
			if len(items) != len(others)+1 {
				return false
			}
			matches := 0
			for _, it := range items {
				if it.Product.ID == id {
					matches++
					if it.Quantity != a+b {
						return false
					}
				}
			}
			return matches == 1 && items[0].Product.ID == id
		},
		ids, sizes, gen.IntRange(1, 50), gen.IntRange(1, 50), gen.SliceOfN(4, gen.IntRange(1, 9)),
	))

	properties.Property("total items equals the sum of added quantities", prop.ForAll(
		func(qs []int) bool {
			s := New(nil)
			want := 0
			for i, q := range qs {
				s.AddItem(Product{ID: []string{"p1", "p2", "p3"}[i%3], Price: 5}, q, nil)
				want += q
			}
			return s.TotalItems() == want
		},
		gen.SliceOf(gen.IntRange(1, 20)),
	))

	properties.Property("non-positive quantity removes the product", prop.ForAll(
		func(id string, q int) bool {
			s := New(nil)
			s.AddItem(Product{ID: id, Price: 1}, 3, nil)
			s.UpdateQuantity(id, q)
			return s.ItemCount(id) == 0
		},
		ids, gen.IntRange(-10, 0),
	))

	properties.Property("switching tenant always empties the cart", prop.ForAll(
		func(first, second string, q int) bool {
			s := New(nil)
			s.SetTenantID(first)
			s.AddItem(Product{ID: "p1", Price: 1}, q, nil)
			s.SetTenantID(second)
			if first == second {
				return s.TotalItems() == q
			}
			return s.IsEmpty() && s.ActiveTenant() == second
		},
		gen.OneConstOf("t1", "t2"), gen.OneConstOf("t1", "t2"), gen.IntRange(1, 9),
	))

	properties.Property("persisted state rehydrates identically", prop.ForAll(
		func(qs []int, tenant string, onSale bool) bool {
			storage := NewMemoryStorage()
			s := New(storage)
			s.SetTenantID(tenant)
			for i, q := range qs {
				p := Product{ID: []string{"p1", "p2"}[i%2], Name: "Ürün", Price: 2.5}
				if onSale {
					sale := 1.25
					p.SalePrice = &sale
				}
				s.AddItem(p, q, Selection{{Key: "n", Value: string(rune('a' + i%5))}, {Key: "m", Value: "x"}})
			}
			again := New(storage)
			return reflect.DeepEqual(again.State(), s.State())
		},
		gen.SliceOf(gen.IntRange(1, 5)), gen.OneConstOf("t1", "t2"), gen.Bool(),
	))

	properties.TestingRun(t)
}
