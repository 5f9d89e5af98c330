package controller

import (
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"dijital-vitrin/analytics"
	"dijital-vitrin/cart"
	"dijital-vitrin/schema"
	"dijital-vitrin/service"
)

// CartController handles the customer's cart
type CartController struct {
	storefront *service.StorefrontService
	analytics  analytics.Dispatcher
}

// NewCartController creates a new CartController
func NewCartController(storefront *service.StorefrontService, dispatcher analytics.Dispatcher) *CartController {
	return &CartController{storefront: storefront, analytics: dispatcher}
}

// cartResponse is the JSON view of a cart
type cartResponse struct {
	TenantID   string      `json:"tenantId"`
	Items      []cart.Item `json:"items"`
	TotalItems int         `json:"totalItems"`
	TotalPrice float64     `json:"totalPrice"`
}

func newCartResponse(c *cart.Store) cartResponse {
	return cartResponse{
		TenantID:   c.ActiveTenant(),
		Items:      c.Items(),
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}

// respond answers JSON clients with the cart and browsers with a redirect to the store
func respond(w http.ResponseWriter, r *http.Request, slug string, c *cart.Store, notice string) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, newCartResponse(c))
		return
	}
	target := "/store/" + url.PathEscape(slug)
	if notice != "" {
		target += "?notice=" + url.QueryEscape(notice)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// parseQuantity reads the quantity form value; empty means fallback
func parseQuantity(r *http.Request, fallback int) (int, error) {
	raw := strings.TrimSpace(r.FormValue("quantity"))
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

// selectionFromForm reads attr.<key> values as they were stored on a cart line
func selectionFromForm(form url.Values) cart.Selection {
	var sel cart.Selection
	for key, values := range form {
		name, ok := strings.CutPrefix(key, service.AttrPrefix)
		if !ok || name == "" || len(values) == 0 {
			continue
		}
		sel = append(sel, cart.Attribute{Key: name, Value: values[0]})
	}
	return sel
}

// Get handles GET /store/{slug}/cart
func (c *CartController) Get(w http.ResponseWriter, r *http.Request) {
	store, ok := loadStore(w, r, c.storefront)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(openCart(w, r, store)))
}

// AddItem handles POST /store/{slug}/cart/items
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 AddItem: Received %s request to %s", r.Method, r.URL.Path)

	store, ok := loadStore(w, r, c.storefront)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	productID := strings.TrimSpace(r.PostFormValue("productId"))
	if productID == "" {
		http.Error(w, "productId is required", http.StatusBadRequest)
		return
	}
	quantity, err := parseQuantity(r, 1)
	if err != nil || quantity < 1 {
		log.Printf("❌ AddItem: Invalid quantity %q", r.FormValue("quantity"))
		http.Error(w, "quantity must be a positive integer", http.StatusBadRequest)
		return
	}

	product, err := c.storefront.Product(r.Context(), store.ID, productID)
	if err != nil {
		log.Printf("❌ AddItem: product %s: %v", productID, err)
		writeLookupError(w, "Product", err)
		return
	}

	customerCart := openCart(w, r, store)
	selection, fieldErrs, err := c.storefront.ResolveSelection(r.Context(), *product, r.PostForm)
	if err != nil {
		log.Printf("❌ AddItem: attribute picker failed for %s: %v", product.ID, err)
		http.Error(w, "Failed to read product options", http.StatusInternalServerError)
		return
	}
	if len(fieldErrs) > 0 {
		log.Printf("⚠️ AddItem: invalid selection for product %s: %v", product.ID, fieldErrs)
		if wantsJSON(r) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fieldErrs})
			return
		}
		renderStorefront(w, r, c.storefront, store, customerCart, http.StatusUnprocessableEntity, "",
			map[string]schema.FieldErrors{product.ID: fieldErrs})
		return
	}

	wasEmpty := customerCart.IsEmpty()
	customerCart.AddItem(product.CartProduct(), quantity, selection)
	if wasEmpty {
		dispatchCartEvent(r.Context(), c.analytics, analytics.EventInitiated, customerCart, nil)
	}

	log.Printf("✅ AddItem: %d x %s added to cart for store %s", quantity, product.ID, store.Slug)
	respond(w, r, store.Slug, customerCart, product.Name+" sepete eklendi")
}

// SetQuantity handles POST /store/{slug}/cart/items/{productId}.
// The attr.<key> values name the line; quantity <= 0 removes it.
func (c *CartController) SetQuantity(w http.ResponseWriter, r *http.Request) {
	store, ok := loadStore(w, r, c.storefront)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	quantity, err := parseQuantity(r, 0)
	if err != nil {
		http.Error(w, "quantity must be an integer", http.StatusBadRequest)
		return
	}

	customerCart := openCart(w, r, store)
	customerCart.UpdateLineQuantity(r.PathValue("productId"), selectionFromForm(r.PostForm), quantity)
	respond(w, r, store.Slug, customerCart, "")
}

// RemoveItem handles DELETE /store/{slug}/cart/items/{productId}
func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	store, ok := loadStore(w, r, c.storefront)
	if !ok {
		return
	}
	customerCart := openCart(w, r, store)
	customerCart.RemoveItem(r.PathValue("productId"))
	writeJSON(w, http.StatusOK, newCartResponse(customerCart))
}

// Clear handles POST /store/{slug}/cart/clear
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	store, ok := loadStore(w, r, c.storefront)
	if !ok {
		return
	}
	customerCart := openCart(w, r, store)
	if !customerCart.IsEmpty() {
		dispatchCartEvent(r.Context(), c.analytics, analytics.EventAbandoned, customerCart, nil)
	}
	customerCart.ClearCart()
	respond(w, r, store.Slug, customerCart, "Sepet temizlendi")
}

