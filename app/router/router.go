package router

import (
	"net/http"

	"dijital-vitrin/app/controller"
	"dijital-vitrin/app/middleware"
)

type Controllers struct {
	Storefront *controller.StorefrontController
	Cart       *controller.CartController
	Order      *controller.OrderController
	Analytics  *controller.AnalyticsController
	Category   *controller.CategoryController
	Product    *controller.ProductController
	Catalog    *controller.CatalogController
}

// Options carries the shared middleware and static paths
type Options struct {
	Auth          *middleware.TokenAuth
	BeaconLimiter *middleware.RateLimiter
	MediaDir      string
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// SetupRoutes registers every route on a new mux and wraps it with the
// request logging and security header middleware
func SetupRoutes(controllers *Controllers, opts Options) http.Handler {
	mux := http.NewServeMux()

	// Ping endpoint
	mux.HandleFunc("GET /ping", pingHandler)

	// Optimized product images
	if opts.MediaDir != "" {
		mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(opts.MediaDir))))
	}

	// Storefront
	mux.HandleFunc("GET /store/{slug}", controllers.Storefront.Page)
	mux.HandleFunc("GET /store/{slug}/catalog", controllers.Storefront.Catalog)

	// Cart
	mux.HandleFunc("GET /store/{slug}/cart", controllers.Cart.Get)
	mux.HandleFunc("POST /store/{slug}/cart/items", controllers.Cart.AddItem)
	mux.HandleFunc("POST /store/{slug}/cart/items/{productId}", controllers.Cart.SetQuantity)
	mux.HandleFunc("DELETE /store/{slug}/cart/items/{productId}", controllers.Cart.RemoveItem)
	mux.HandleFunc("POST /store/{slug}/cart/clear", controllers.Cart.Clear)

	// WhatsApp orders
	mux.HandleFunc("POST /store/{slug}/order", controllers.Order.CartOrder)
	mux.HandleFunc("POST /store/{slug}/products/{productId}/order", controllers.Order.ProductOrder)

	// Analytics beacon
	track := controllers.Analytics.Track
	if opts.BeaconLimiter != nil {
		track = opts.BeaconLimiter.Limit(track)
	}
	mux.HandleFunc("POST /api/analytics", track)

	// Dashboard routes require a tenant-bound token
	admin := opts.Auth.RequireTenant

	// Category attribute schemas
	mux.HandleFunc("GET /admin/categories/{id}/attribute-schema", admin(controllers.Category.GetSchema))
	mux.HandleFunc("PUT /admin/categories/{id}/attribute-schema", admin(controllers.Category.PutSchema))
	mux.HandleFunc("GET /admin/categories/{id}/attribute-schema/defaults", admin(controllers.Category.Defaults))
	mux.HandleFunc("POST /admin/categories/{id}/attribute-schema/validate", admin(controllers.Category.Validate))
	mux.HandleFunc("POST /admin/categories/{id}/attribute-schema/fields", admin(controllers.Category.AddField))
	mux.HandleFunc("GET /admin/categories/{id}/form", admin(controllers.Category.Form))
	mux.HandleFunc("POST /admin/categories/{id}/form", admin(controllers.Category.Form))

	// Products
	mux.HandleFunc("GET /admin/products", admin(controllers.Product.List))
	mux.HandleFunc("POST /admin/products", admin(controllers.Product.Create))
	mux.HandleFunc("POST /admin/products/{id}/image", admin(controllers.Product.UploadImage))
	mux.HandleFunc("POST /admin/products/images/import", admin(controllers.Product.ImportImages))

	// Catalog export
	mux.HandleFunc("GET /admin/catalog/pdf", admin(controllers.Catalog.GeneratePDF))

	// Analytics summary
	mux.HandleFunc("GET /admin/analytics/summary", admin(controllers.Analytics.Summary))

	return middleware.LogRequests(middleware.SecureHeaders(mux))
}
