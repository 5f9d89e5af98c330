package controller_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"dijital-vitrin/analytics"
	"dijital-vitrin/app"
	"dijital-vitrin/app/middleware"
	"dijital-vitrin/cart"
	"dijital-vitrin/config"
	"dijital-vitrin/models"
	"dijital-vitrin/repository"
	"dijital-vitrin/schema"
	"dijital-vitrin/service"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

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
	mu       sync.Mutex
	products []models.Product
}

func (f *fakeProducts) find(storeID string, match func(models.Product) bool) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.StoreID == storeID && match(p) {
			p := p
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product %w", repository.ErrNotFound)
}

func (f *fakeProducts) ListByStore(_ context.Context, storeID string) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, p := range f.products {
		if p.StoreID == storeID && p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) GetByID(_ context.Context, storeID, id string) (*models.Product, error) {
	return f.find(storeID, func(p models.Product) bool { return p.ID == id })
}

func (f *fakeProducts) GetBySKU(_ context.Context, storeID, sku string) (*models.Product, error) {
	return f.find(storeID, func(p models.Product) bool { return p.SKU != "" && strings.EqualFold(p.SKU, sku) })
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

type fakeEvents struct {
	mu     sync.Mutex
	events []models.AnalyticsEvent
}

func (f *fakeEvents) Insert(_ context.Context, ev *models.AnalyticsEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev.ID = fmt.Sprintf("e%d", len(f.events)+1)
	ev.CreatedAt = time.Now().UTC()
	f.events = append(f.events, *ev)
	return nil
}

func (f *fakeEvents) Summary(_ context.Context, tenantID string, since time.Time) (*models.AnalyticsSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &models.AnalyticsSummary{TenantID: tenantID, Since: since, Counts: map[string]int{}}
	for _, ev := range f.events {
		if ev.TenantID == tenantID {
			s.Counts[ev.EventType]++
		}
	}
	return s, nil
}

// recordingBeacon keeps dispatched events instead of sending them
type recordingBeacon struct {
	mu     sync.Mutex
	events []analytics.Event
}

func (b *recordingBeacon) Dispatch(_ context.Context, ev analytics.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
}

func (b *recordingBeacon) types() []analytics.EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []analytics.EventType{}
	for _, ev := range b.events {
		out = append(out, ev.EventType)
	}
	return out
}

type testServer struct {
	handler    http.Handler
	categories *fakeCategories
	products   *fakeProducts
	events     *fakeEvents
	beacon     *recordingBeacon
	auth       *middleware.TokenAuth
	mediaDir   string
}

func strPtr(s string) *string { return &s }

func newTestServer(t *testing.T, drive service.DriveServiceInterface) *testServer {
	t.Helper()
	stores := &fakeStores{stores: []models.Store{
		{ID: "s1", Slug: "mavi", Name: "Mavi Butik", WhatsAppNumber: "+90 (555) 123-4567", IsActive: true},
		{ID: "s2", Slug: "kapali", Name: "Kapalı", IsActive: false},
		{ID: "s3", Slug: "sessiz", Name: "Sessiz", IsActive: true},
	}}
	categories := &fakeCategories{categories: []models.Category{
		{ID: "c1", StoreID: "s1", Name: "Giyim", AttributeSchema: schema.Schema{
			{Name: "size", Kind: schema.KindSelect, Label: "Beden", Required: true,
				Options: schema.OptionsFromTags([]string{"S", "M", "L"})},
			{Name: "material", Kind: schema.KindText, Label: "Kumaş"},
		}},
		{ID: "c2", StoreID: "s1", Name: "Ev", AttributeSchema: schema.Schema{}},
	}}
	sale := 80.0
	products := &fakeProducts{products: []models.Product{
		{ID: "p1", StoreID: "s1", CategoryID: strPtr("c1"), Name: "Gömlek", SKU: "GML-1", Price: 100, IsActive: true,
			Attributes: models.Attributes{"size": models.Multi("S", "M"), "material": models.Single("pamuk"), "color": models.Multi("red", "blue")}},
		{ID: "p2", StoreID: "s1", CategoryID: strPtr("c2"), Name: "Kupa", SKU: "KP-1", Price: 100, SalePrice: &sale, IsActive: true},
		{ID: "p3", StoreID: "s1", Name: "Eski", Price: 10, IsActive: false},
		{ID: "p9", StoreID: "s3", Name: "Sessiz Ürün", Price: 5, IsActive: true},
	}}

	ts := &testServer{
		categories: categories,
		products:   products,
		events:     &fakeEvents{},
		beacon:     &recordingBeacon{},
		auth:       middleware.NewTokenAuth(testSecret),
		mediaDir:   t.TempDir(),
	}
	cfg := &config.Config{
		BaseURL:        "http://localhost:8080",
		JWTSecret:      testSecret,
		MediaDir:       ts.mediaDir,
		AnalyticsRPS:   0.001,
		AnalyticsBurst: 3,
	}
	ts.handler = app.Build(cfg, app.Dependencies{
		Stores:     stores,
		Categories: categories,
		Products:   products,
		Events:     ts.events,
		Listings:   service.NoopListingCache{},
		Beacon:     ts.beacon,
		Drive:      drive,
	})
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

// admin sends req with a token for tenantID
func (ts *testServer) admin(t *testing.T, tenantID string, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	token, err := ts.auth.Issue("owner", tenantID, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return ts.do(req)
}

func formRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// cartCookie returns the cart cookie set by rec
func cartCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == cart.Namespace {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", cart.Namespace)
	return nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
