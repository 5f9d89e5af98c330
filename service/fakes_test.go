package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"dijital-vitrin/models"
	"dijital-vitrin/repository"
	"dijital-vitrin/schema"
)

type fakeStores struct{ stores []models.Store }

func (f *fakeStores) GetBySlug(_ context.Context, slug string) (*models.Store, error) {
	for _, s := range f.stores {
		if s.Slug == slug && s.IsActive {
			s := s
			return &s, nil
		}
	}
	return nil, fmt.Errorf("store %w", repository.ErrNotFound)
}

func (f *fakeStores) GetByID(_ context.Context, id string) (*models.Store, error) {
	for _, s := range f.stores {
		if s.ID == id {
			s := s
			return &s, nil
		}
	}
	return nil, fmt.Errorf("store %w", repository.ErrNotFound)
}

type fakeCategories struct {
	mu         sync.Mutex
	categories []models.Category
}

func (f *fakeCategories) ListByStore(_ context.Context, storeID string) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Category
	for _, c := range f.categories {
		if c.StoreID == storeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategories) GetByID(_ context.Context, storeID, id string) (*models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if c.StoreID == storeID && c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, fmt.Errorf("category %w", repository.ErrNotFound)
}

func (f *fakeCategories) UpdateAttributeSchema(_ context.Context, storeID, id string, s schema.Schema) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.categories {
		if c.StoreID == storeID && c.ID == id {
			f.categories[i].AttributeSchema = s
			return nil
		}
	}
	return fmt.Errorf("category %w", repository.ErrNotFound)
}

type fakeProducts struct {
	mu        sync.Mutex
	products  []models.Product
	listCalls int
}

func (f *fakeProducts) ListByStore(_ context.Context, storeID string) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := []models.Product{}
	for _, p := range f.products {
		if p.StoreID == storeID && p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) GetByID(_ context.Context, storeID, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.StoreID == storeID && p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product %w", repository.ErrNotFound)
}

func (f *fakeProducts) GetBySKU(_ context.Context, storeID, sku string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.StoreID == storeID && p.SKU != "" && strings.EqualFold(p.SKU, sku) {
			p := p
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product %w", repository.ErrNotFound)
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = fmt.Sprintf("p%d", len(f.products)+1)
	p.IsActive = true
	f.products = append(f.products, *p)
	return nil
}

func (f *fakeProducts) UpdateImageURL(_ context.Context, storeID, id, imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.products {
		if p.StoreID == storeID && p.ID == id {
			f.products[i].ImageURL = imageURL
			return nil
		}
	}
	return fmt.Errorf("product %w", repository.ErrNotFound)
}

type memoryListingCache struct {
	mu          sync.Mutex
	entries     map[string][]models.Product
	invalidated []string
}

func newMemoryListingCache() *memoryListingCache {
	return &memoryListingCache{entries: map[string][]models.Product{}}
}

func (c *memoryListingCache) Get(_ context.Context, storeID string) ([]models.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[storeID]
	return p, ok
}

func (c *memoryListingCache) Set(_ context.Context, storeID string, products []models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[storeID] = products
}

func (c *memoryListingCache) Invalidate(_ context.Context, storeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, storeID)
	c.invalidated = append(c.invalidated, storeID)
}

func strPtr(s string) *string     { return &s }
func pricePtr(f float64) *float64 { return &f }

func apparelFixture() (*fakeStores, *fakeCategories, *fakeProducts) {
	stores := &fakeStores{stores: []models.Store{
		{ID: "s1", Slug: "mavi", Name: "Mavi Butik", WhatsAppNumber: "+90 (555) 123-4567", IsActive: true},
		{ID: "s2", Slug: "kapali", Name: "Kapalı", IsActive: false},
	}}
	categories := &fakeCategories{categories: []models.Category{
		{ID: "c1", StoreID: "s1", Name: "Giyim", AttributeSchema: schema.Schema{
			{Name: "size", Kind: schema.KindSelect, Label: "Beden", Required: true,
				Options: []schema.Option{{Value: "S", Label: "Small"}, {Value: "M", Label: "Medium"}, {Value: "L", Label: "Large"}}},
			{Name: "material", Kind: schema.KindText, Label: "Kumaş"},
		}},
		{ID: "c2", StoreID: "s1", Name: "Ev", AttributeSchema: schema.Schema{}},
	}}
	products := &fakeProducts{products: []models.Product{
		{ID: "p1", StoreID: "s1", CategoryID: strPtr("c1"), Name: "Gömlek", SKU: "GML-1", Price: 100, IsActive: true,
			Attributes: models.Attributes{"size": models.Multi("S", "M"), "material": models.Single("pamuk"), "color": models.Multi("red", "blue")}},
		{ID: "p2", StoreID: "s1", CategoryID: strPtr("c2"), Name: "Kupa", SKU: "KP-1", Price: 100, SalePrice: pricePtr(80), IsActive: true,
			Attributes: models.Attributes{"color": models.Multi("white")}},
		{ID: "p3", StoreID: "s1", Name: "Eski", Price: 10, IsActive: false},
		{ID: "p4", StoreID: "s2", Name: "Başka", Price: 10, IsActive: true},
	}}
	return stores, categories, products
}

func apparelStore() models.Store {
	return models.Store{ID: "s1", Slug: "mavi", Name: "Mavi Butik", WhatsAppNumber: "+90 (555) 123-4567", IsActive: true}
}
