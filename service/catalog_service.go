package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"time"

	"dijital-vitrin/models"
	"dijital-vitrin/templates"
	"dijital-vitrin/utils"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

const itemsPerCatalogPage = 9

// CatalogItem is one product cell of the printable catalog
type CatalogItem struct {
	ID             string
	Name           string
	ImageURL       string
	PriceLabel     string
	SalePriceLabel string
	Attributes     []string
}

// CatalogPage is the data behind the printable catalog
type CatalogPage struct {
	Store models.Store
	Pages [][]CatalogItem
}

// CatalogService renders a store's products as a printable catalog and PDF
type CatalogService struct {
	storefront *StorefrontService
	baseURL    string // Base URL the browser loads the catalog from (e.g. "http://localhost:8080")
	chromePath string
}

func NewCatalogService(storefront *StorefrontService, baseURL, chromePath string) *CatalogService {
	return &CatalogService{storefront: storefront, baseURL: baseURL, chromePath: chromePath}
}

// detectChromePath checks the configured path first, then common installation paths
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// BuildCatalog turns products into pages of nine cells
func BuildCatalog(store models.Store, products []models.Product) CatalogPage {
	items := make([]CatalogItem, 0, len(products))
	for _, p := range products {
		item := CatalogItem{
			ID:         p.ID,
			Name:       p.Name,
			ImageURL:   p.ImageURL,
			PriceLabel: utils.FormatTL(p.Price),
		}
		if p.HasDiscount() {
			item.SalePriceLabel = utils.FormatTL(*p.SalePrice)
		}
		for _, key := range p.Attributes.Keys() {
			if v := p.Attributes[key].String(); v != "" {
				item.Attributes = append(item.Attributes, key+": "+v)
			}
		}
		items = append(items, item)
	}

	var pages [][]CatalogItem
	for i := 0; i < len(items); i += itemsPerCatalogPage {
		end := i + itemsPerCatalogPage
		if end > len(items) {
			end = len(items)
		}
		pages = append(pages, items[i:end])
	}
	return CatalogPage{Store: store, Pages: pages}
}

// RenderCatalogHTML writes the printable catalog of store to w
func (s *CatalogService) RenderCatalogHTML(ctx context.Context, w io.Writer, store models.Store) error {
	products, err := s.storefront.Products(ctx, store.ID)
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	return templates.Render(w, templates.Catalog, BuildCatalog(store, products))
}

// GeneratePDF loads the store's catalog page in headless Chrome and prints it
func (s *CatalogService) GeneratePDF(ctx context.Context, store models.Store) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	renderURL := fmt.Sprintf("%s/store/%s/catalog", s.baseURL, url.PathEscape(store.Slug))
	log.Printf("📄 Generating catalog PDF for store %s from %s", store.ID, renderURL)

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 1123), // A4 at 96 DPI
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		// Wait for fonts and images to load
		chromedp.Evaluate(`
			Promise.all([
				document.fonts.ready,
				...Array.from(document.images).map(img => img.complete ? null : new Promise(r => { img.onload = img.onerror = r; }))
			]).then(() => true)
		`, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 8.27" x 11.69"
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	log.Printf("✅ Catalog PDF generated for store %s (%d bytes)", store.ID, len(pdfBuf))
	return pdfBuf, nil
}
