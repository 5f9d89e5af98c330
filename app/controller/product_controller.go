package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"dijital-vitrin/app/middleware"
	"dijital-vitrin/models"
	"dijital-vitrin/service"
)

const maxImageBytes = 10 << 20

// ProductController handles product management for the dashboard
type ProductController struct {
	products *service.ProductService
	imports  service.ImageImportServiceInterface
}

// NewProductController creates a new ProductController. imports may be nil
// when Drive credentials are not configured.
func NewProductController(products *service.ProductService, imports service.ImageImportServiceInterface) *ProductController {
	return &ProductController{products: products, imports: imports}
}

// List handles GET /admin/products
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFromContext(r.Context())
	log.Printf("🔍 ListProducts: tenant=%s", tenantID)

	products, err := c.products.List(r.Context(), tenantID)
	if err != nil {
		log.Printf("❌ ListProducts: %v", err)
		http.Error(w, "Failed to list products", http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// Create handles POST /admin/products
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 CreateProduct: Received %s request to %s", r.Method, r.URL.Path)

	var req models.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ CreateProduct: Failed to decode request body: %v", err)
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	p, err := c.products.Create(r.Context(), middleware.TenantFromContext(r.Context()), req)
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": ve.Errors})
			return
		}
		log.Printf("❌ CreateProduct: %v", err)
		http.Error(w, "Failed to create product", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UploadImage handles POST /admin/products/{id}/image with a multipart "image" file
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read image", http.StatusBadRequest)
		return
	}

	productID := r.PathValue("id")
	imageURL, err := c.products.SetImage(r.Context(), middleware.TenantFromContext(r.Context()), productID, data)
	if err != nil {
		log.Printf("❌ UploadImage: product %s: %v", productID, err)
		if isLookupError(err) {
			writeLookupError(w, "Product", err)
			return
		}
		http.Error(w, "Failed to process image", http.StatusUnprocessableEntity)
		return
	}

	log.Printf("✅ UploadImage: product %s image stored at %s", productID, imageURL)
	writeJSON(w, http.StatusOK, map[string]string{"imageUrl": imageURL, "thumbUrl": service.ThumbURL(imageURL)})
}

// ImportImages handles POST /admin/products/images/import?folderId=
func (c *ProductController) ImportImages(w http.ResponseWriter, r *http.Request) {
	if c.imports == nil {
		http.Error(w, "Drive import is not configured", http.StatusServiceUnavailable)
		return
	}
	folderID := strings.TrimSpace(r.URL.Query().Get("folderId"))
	if folderID == "" {
		http.Error(w, "folderId query parameter is required", http.StatusBadRequest)
		return
	}

	result, err := c.imports.ImportFolder(r.Context(), middleware.TenantFromContext(r.Context()), folderID)
	if err != nil {
		log.Printf("❌ ImportImages: %v", err)
		http.Error(w, fmt.Sprintf("Failed to import images: %v", err), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
