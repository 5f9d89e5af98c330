package controller

import (
	"log"
	"net/http"

	"dijital-vitrin/analytics"
	"dijital-vitrin/cart"
	"dijital-vitrin/order"
	"dijital-vitrin/schema"
	"dijital-vitrin/service"
)

// OrderController turns carts and single products into WhatsApp order links
type OrderController struct {
	storefront *service.StorefrontService
	analytics  analytics.Dispatcher
}

// NewOrderController creates a new OrderController
func NewOrderController(storefront *service.StorefrontService, dispatcher analytics.Dispatcher) *OrderController {
	return &OrderController{storefront: storefront, analytics: dispatcher}
}

type orderResponse struct {
	URL       string `json:"url"`
	Reference string `json:"reference,omitempty"`
	Message   string `json:"message"`
}

func sendOrder(w http.ResponseWriter, r *http.Request, params order.Params) {
	link := order.BuildWhatsAppURL(params)
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, orderResponse{URL: link, Reference: params.OrderReference, Message: order.BuildOrderMessage(params)})
		return
	}
	http.Redirect(w, r, link, http.StatusSeeOther)
}

// CartOrder handles POST /store/{slug}/order.
// The cart is reported as order_initiated and then cleared.
func (c *OrderController) CartOrder(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 CartOrder: Received %s request to %s", r.Method, r.URL.Path)

	store, ok := loadStore(w, r, c.storefront)
	if !ok {
		return
	}
	if order.FormatPhoneNumber(store.WhatsAppNumber) == "" {
		log.Printf("❌ CartOrder: store %s has no WhatsApp number", store.Slug)
		http.Error(w, "Store does not accept WhatsApp orders", http.StatusConflict)
		return
	}

	customerCart := openCart(w, r, store)
	if customerCart.IsEmpty() {
		http.Error(w, "Cart is empty", http.StatusBadRequest)
		return
	}

	if err := c.storefront.RepriceCart(r.Context(), store.ID, customerCart); err != nil {
		log.Printf("❌ CartOrder: %v", err)
		http.Error(w, "Failed to price cart", http.StatusInternalServerError)
		return
	}
	if customerCart.IsEmpty() {
		http.Error(w, "Cart items are no longer available", http.StatusConflict)
		return
	}

	params := order.FromCart(store.WhatsAppNumber, store.Name, customerCart)
	params.OrderReference = order.NewReference()

	dispatchCartEvent(r.Context(), c.analytics, analytics.EventOrderInitiated, customerCart,
		map[string]any{"order_reference": params.OrderReference})
	customerCart.ClearCart()

	log.Printf("✅ CartOrder: order %s for store %s (%d lines)", params.OrderReference, store.Slug, len(params.Items))
	sendOrder(w, r, params)
}

// ProductOrder handles POST /store/{slug}/products/{productId}/order.
// It links a single product choice without touching the cart.
func (c *OrderController) ProductOrder(w http.ResponseWriter, r *http.Request) {
	store, ok := loadStore(w, r, c.storefront)
	if !ok {
		return
	}
	if order.FormatPhoneNumber(store.WhatsAppNumber) == "" {
		http.Error(w, "Store does not accept WhatsApp orders", http.StatusConflict)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form body", http.StatusBadRequest)
		return
	}
	quantity, err := parseQuantity(r, 1)
	if err != nil || quantity < 1 {
		http.Error(w, "quantity must be a positive integer", http.StatusBadRequest)
		return
	}

	product, err := c.storefront.Product(r.Context(), store.ID, r.PathValue("productId"))
	if err != nil {
		writeLookupError(w, "Product", err)
		return
	}
	selection, fieldErrs, err := c.storefront.ResolveSelection(r.Context(), *product, r.PostForm)
	if err != nil {
		http.Error(w, "Failed to read product options", http.StatusInternalServerError)
		return
	}
	if len(fieldErrs) > 0 {
		if wantsJSON(r) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fieldErrs})
			return
		}
		renderStorefront(w, r, c.storefront, store, openCart(w, r, store), http.StatusUnprocessableEntity, "",
			map[string]schema.FieldErrors{product.ID: fieldErrs})
		return
	}

	line := cart.Item{Product: product.CartProduct(), Quantity: quantity, SelectedAttributes: selection}
	price := line.LineTotal()
	sendOrder(w, r, order.Params{
		PhoneNumber: store.WhatsAppNumber,
		StoreName:   store.Name,
		Items: []order.Line{{
			Name:       product.Name,
			Quantity:   quantity,
			Attributes: selection,
			Price:      &price,
		}},
	})
}
