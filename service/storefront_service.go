package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strings"

	"dijital-vitrin/cart"
	"dijital-vitrin/models"
	"dijital-vitrin/repository"
	"dijital-vitrin/schema"
	"dijital-vitrin/utils"
)

// StorefrontService assembles the public storefront of a tenant
type StorefrontService struct {
	stores     repository.StoreRepositoryInterface
	categories repository.CategoryRepositoryInterface
	products   repository.ProductRepositoryInterface
	listings   ListingCacheInterface
	picker     *AttributePicker
}

func NewStorefrontService(
	stores repository.StoreRepositoryInterface,
	categories repository.CategoryRepositoryInterface,
	products repository.ProductRepositoryInterface,
	listings ListingCacheInterface,
	schemas *schema.Cache,
) *StorefrontService {
	if listings == nil {
		listings = NoopListingCache{}
	}
	return &StorefrontService{
		stores:     stores,
		categories: categories,
		products:   products,
		listings:   listings,
		picker:     NewAttributePicker(schemas),
	}
}

// ListingFilter narrows the product grid
type ListingFilter struct {
	CategoryID string
	Attributes map[string]string
}

// ParseListingFilter reads category= and attr.<key>= query parameters
func ParseListingFilter(q url.Values) ListingFilter {
	f := ListingFilter{CategoryID: strings.TrimSpace(q.Get("category")), Attributes: map[string]string{}}
	for key, values := range q {
		name, ok := strings.CutPrefix(key, AttrPrefix)
		if !ok || name == "" || len(values) == 0 || strings.TrimSpace(values[0]) == "" {
			continue
		}
		f.Attributes[name] = strings.TrimSpace(values[0])
	}
	return f
}

// Matches reports whether p passes every filter clause
func (f ListingFilter) Matches(p models.Product) bool {
	if f.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
		return false
	}
	for key, want := range f.Attributes {
		v, ok := p.Attributes[key]
		if !ok || !v.Contains(want) {
			return false
		}
	}
	return true
}

type FacetValue struct {
	Value    string
	Count    int
	Selected bool
}

// Facet is one attribute key with the values present in the listing
type Facet struct {
	Key    string
	Values []FacetValue
}

// BuildFacets counts attribute values over the products of the selected
// category. Attribute filters do not shrink their own facet.
func BuildFacets(products []models.Product, f ListingFilter) []Facet {
	counts := map[string]map[string]int{}
	for _, p := range products {
		if f.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
			continue
		}
		for key, v := range p.Attributes {
			if counts[key] == nil {
				counts[key] = map[string]int{}
			}
			for _, value := range v.List() {
				if value != "" {
					counts[key][value]++
				}
			}
		}
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	facets := make([]Facet, 0, len(keys))
	for _, key := range keys {
		facet := Facet{Key: key}
		for value, n := range counts[key] {
			facet.Values = append(facet.Values, FacetValue{Value: value, Count: n, Selected: f.Attributes[key] == value})
		}
		sort.Slice(facet.Values, func(i, j int) bool { return facet.Values[i].Value < facet.Values[j].Value })
		facets = append(facets, facet)
	}
	return facets
}

// ProductCard is a product prepared for the storefront grid
type ProductCard struct {
	Product        models.Product
	PriceLabel     string
	SalePriceLabel string
	Picker         []schema.FieldView
	InCart         int
}

// CartSummary is the header badge and drawer content
type CartSummary struct {
	Items      []cart.Item
	TotalItems int
	TotalPrice float64
	TotalLabel string
}

func SummarizeCart(c *cart.Store) CartSummary {
	return CartSummary{
		Items:      c.Items(),
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
		TotalLabel: utils.FormatTL(c.TotalPrice()),
	}
}

// StorefrontPage is the data behind GET /store/{slug}
type StorefrontPage struct {
	Store      models.Store
	Categories []models.Category
	Filter     ListingFilter
	Products   []ProductCard
	Facets     []Facet
	Cart       CartSummary
}

// Store resolves an active tenant by slug
func (s *StorefrontService) Store(ctx context.Context, slug string) (*models.Store, error) {
	return s.stores.GetBySlug(ctx, slug)
}

// StoreByID resolves the tenant of an authenticated dashboard request
func (s *StorefrontService) StoreByID(ctx context.Context, id string) (*models.Store, error) {
	return s.stores.GetByID(ctx, id)
}

// Products returns the store's listing, served from the cache when possible
func (s *StorefrontService) Products(ctx context.Context, storeID string) ([]models.Product, error) {
	if products, ok := s.listings.Get(ctx, storeID); ok {
		return products, nil
	}
	products, err := s.products.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	s.listings.Set(ctx, storeID, products)
	return products, nil
}

// RepriceCart refreshes every cart line from the store's active products,
// so an order never carries prices or names taken from the client cookie.
// Lines of products that are gone or inactive are dropped.
func (s *StorefrontService) RepriceCart(ctx context.Context, storeID string, c *cart.Store) error {
	products, err := s.Products(ctx, storeID)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	current := make(map[string]cart.Product, len(products))
	for _, p := range products {
		if p.IsActive {
			current[p.ID] = p.CartProduct()
		}
	}
	if c.Reprice(func(id string) (cart.Product, bool) {
		p, ok := current[id]
		return p, ok
	}) {
		log.Printf("⚠️ Cart for store %s repriced from the catalog", storeID)
	}
	return nil
}

// InvalidateListing drops the cached listing after a product change
func (s *StorefrontService) InvalidateListing(ctx context.Context, storeID string) {
	s.listings.Invalidate(ctx, storeID)
}

// Product returns one active product of the store
func (s *StorefrontService) Product(ctx context.Context, storeID, productID string) (*models.Product, error) {
	p, err := s.products.GetByID(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, fmt.Errorf("product %w", repository.ErrNotFound)
	}
	return p, nil
}

func (s *StorefrontService) categorySchema(ctx context.Context, storeID string, categoryID *string) (schema.Schema, error) {
	if categoryID == nil {
		return nil, nil
	}
	c, err := s.categories.GetByID(ctx, storeID, *categoryID)
	if err != nil {
		return nil, err
	}
	return c.AttributeSchema, nil
}

// ResolveSelection validates the customer's attr.<key> choices for p
func (s *StorefrontService) ResolveSelection(ctx context.Context, p models.Product, form url.Values) (cart.Selection, schema.FieldErrors, error) {
	categorySchema, err := s.categorySchema(ctx, p.StoreID, p.CategoryID)
	if err != nil {
		log.Printf("⚠️ Category schema unavailable for product %s: %v", p.ID, err)
		categorySchema = nil
	}
	return s.picker.Select(p, categorySchema, form)
}

// Page builds the storefront for store with the cart c
func (s *StorefrontService) Page(ctx context.Context, store models.Store, filter ListingFilter, c *cart.Store) (*StorefrontPage, error) {
	products, err := s.Products(ctx, store.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	categories, err := s.categories.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	schemaByCategory := make(map[string]schema.Schema, len(categories))
	for _, cat := range categories {
		schemaByCategory[cat.ID] = cat.AttributeSchema
	}

	page := &StorefrontPage{
		Store:      store,
		Categories: categories,
		Filter:     filter,
		Facets:     BuildFacets(products, filter),
		Cart:       SummarizeCart(c),
	}
	for _, p := range products {
		if !filter.Matches(p) {
			continue
		}
		var categorySchema schema.Schema
		if p.CategoryID != nil {
			categorySchema = schemaByCategory[*p.CategoryID]
		}
		card := ProductCard{
			Product:    p,
			PriceLabel: utils.FormatTL(p.Price),
			Picker:     schema.BuildForm(PickerSchema(p, categorySchema), nil, nil),
			InCart:     c.ItemCount(p.ID),
		}
		if p.HasDiscount() {
			card.SalePriceLabel = utils.FormatTL(*p.SalePrice)
		}
		page.Products = append(page.Products, card)
	}
	return page, nil
}
