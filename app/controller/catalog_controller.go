package controller

import (
	"fmt"
	"log"
	"net/http"

	"dijital-vitrin/app/middleware"
	"dijital-vitrin/service"
)

// CatalogController handles HTTP requests for catalog generation
type CatalogController struct {
	storefront     *service.StorefrontService
	catalogService *service.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(storefront *service.StorefrontService, catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{storefront: storefront, catalogService: catalogService}
}

// GeneratePDF handles GET /admin/catalog/pdf
func (c *CatalogController) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.TenantFromContext(r.Context())
	store, err := c.storefront.StoreByID(r.Context(), tenantID)
	if err != nil {
		log.Printf("❌ GeneratePDF: store %s: %v", tenantID, err)
		writeLookupError(w, "Store", err)
		return
	}

	pdfData, err := c.catalogService.GeneratePDF(r.Context(), *store)
	if err != nil {
		log.Printf("❌ GeneratePDF: Error generating PDF: %v", err)
		http.Error(w, fmt.Sprintf("Failed to generate PDF: %v", err), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("katalog_%s.pdf", store.Slug)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdfData); err != nil {
		log.Printf("❌ GeneratePDF: Error writing PDF response: %v", err)
		return
	}
	log.Printf("✅ GeneratePDF: PDF sent (%d bytes) for store %s", len(pdfData), store.Slug)
}
