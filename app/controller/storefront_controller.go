package controller

import (
	"context"
	"log"
	"net/http"

	"dijital-vitrin/analytics"
	"dijital-vitrin/cart"
	"dijital-vitrin/models"
	"dijital-vitrin/schema"
	"dijital-vitrin/service"
	"dijital-vitrin/templates"
)

// StorefrontController serves the public store pages
type StorefrontController struct {
	storefront *service.StorefrontService
	catalog    *service.CatalogService
}

// NewStorefrontController creates a new StorefrontController
func NewStorefrontController(storefront *service.StorefrontService, catalog *service.CatalogService) *StorefrontController {
	return &StorefrontController{storefront: storefront, catalog: catalog}
}

// storefrontView is the storefront page plus per-request feedback
type storefrontView struct {
	*service.StorefrontPage
	Notice string
	Errors map[string]schema.FieldErrors
}

// loadStore resolves {slug}; it writes the error response itself
func loadStore(w http.ResponseWriter, r *http.Request, storefront *service.StorefrontService) (*models.Store, bool) {
	slug := r.PathValue("slug")
	store, err := storefront.Store(r.Context(), slug)
	if err != nil {
		log.Printf("❌ Store lookup failed for slug=%s: %v", slug, err)
		writeLookupError(w, "Store", err)
		return nil, false
	}
	return store, true
}

// openCart rehydrates the customer's cart from the cookie and binds it to store.
// A cart left on another store is cleared.
func openCart(w http.ResponseWriter, r *http.Request, store *models.Store) *cart.Store {
	c := cart.New(cart.NewCookieStorage(w, r))
	if c.ActiveTenant() != store.ID {
		c.SetTenantID(store.ID)
	}
	return c
}

// dispatchCartEvent reports the cart state for the event type
func dispatchCartEvent(ctx context.Context, d analytics.Dispatcher, et analytics.EventType, c *cart.Store, extra map[string]any) {
	if d == nil {
		return
	}
	ev := analytics.NewCartEvent(c.ActiveTenant(), et, c.Snapshot())
	ev.Payload = extra
	d.Dispatch(ctx, ev)
}

// Page handles GET /store/{slug}
func (c *StorefrontController) Page(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 Storefront: %s %s", r.Method, r.URL.String())

	store, ok := loadStore(w, r, c.storefront)
	if !ok {
		return
	}
	renderStorefront(w, r, c.storefront, store, openCart(w, r, store), http.StatusOK, r.URL.Query().Get("notice"), nil)
}

// renderStorefront writes the storefront HTML with optional feedback
func renderStorefront(
	w http.ResponseWriter,
	r *http.Request,
	storefront *service.StorefrontService,
	store *models.Store,
	c *cart.Store,
	status int,
	notice string,
	errs map[string]schema.FieldErrors,
) {
	filter := service.ParseListingFilter(r.URL.Query())
	page, err := storefront.Page(r.Context(), *store, filter, c)
	if err != nil {
		log.Printf("❌ Storefront: failed to build page for %s: %v", store.Slug, err)
		http.Error(w, "Failed to load store", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Render(w, templates.Storefront, storefrontView{StorefrontPage: page, Notice: notice, Errors: errs}); err != nil {
		log.Printf("❌ Storefront: render failed: %v", err)
	}
}

// Catalog handles GET /store/{slug}/catalog, the printable catalog the PDF export loads
func (c *StorefrontController) Catalog(w http.ResponseWriter, r *http.Request) {
	store, ok := loadStore(w, r, c.storefront)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.catalog.RenderCatalogHTML(r.Context(), w, *store); err != nil {
		log.Printf("❌ Catalog: render failed for %s: %v", store.Slug, err)
		http.Error(w, "Failed to render catalog", http.StatusInternalServerError)
	}
}
