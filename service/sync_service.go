package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"

	"dijital-vitrin/repository"
)

// ImportResult reports what an import run did
type ImportResult struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Unknown  []string `json:"unknownFiles,omitempty"`
}

// ImageImportService matches Drive images to products by SKU. A file named
// "GML-001.jpg" becomes the image of the product with SKU GML-001.
type ImageImportService struct {
	drive    DriveServiceInterface
	products repository.ProductRepositoryInterface
	media    *MediaStore
	listings ListingCacheInterface
}

func NewImageImportService(
	drive DriveServiceInterface,
	products repository.ProductRepositoryInterface,
	media *MediaStore,
	listings ListingCacheInterface,
) *ImageImportService {
	if listings == nil {
		listings = NoopListingCache{}
	}
	return &ImageImportService{drive: drive, products: products, media: media, listings: listings}
}

var _ ImageImportServiceInterface = (*ImageImportService)(nil)

// SKUFromFileName strips the directory and extension
func SKUFromFileName(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	return strings.TrimSpace(strings.TrimSuffix(base, path.Ext(base)))
}

// ImportFolder imports every image of folderID into the store's products
func (s *ImageImportService) ImportFolder(ctx context.Context, storeID, folderID string) (*ImportResult, error) {
	log.Printf("🔄 Starting image import for store %s from folder %s", storeID, folderID)

	images, err := s.drive.ListImages(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images from Drive: %w", err)
	}

	result := &ImportResult{Total: len(images)}
	for _, img := range images {
		sku := SKUFromFileName(img.Name)
		product, err := s.products.GetBySKU(ctx, storeID, sku)
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("⏭️  No product with SKU %q for file %s", sku, img.Name)
			result.Skipped++
			result.Unknown = append(result.Unknown, img.Name)
			continue
		}
		if err != nil {
			log.Printf("❌ Error looking up SKU %q: %v", sku, err)
			result.Failed++
			continue
		}

		data, err := s.drive.DownloadImage(ctx, img.FileID)
		if err != nil {
			log.Printf("❌ Error downloading %s: %v", img.Name, err)
			result.Failed++
			continue
		}
		imageURL, err := s.media.SaveProductImage(product.ID, data)
		if err != nil {
			log.Printf("❌ Error optimizing %s: %v", img.Name, err)
			result.Failed++
			continue
		}
		if err := s.products.UpdateImageURL(ctx, storeID, product.ID, imageURL); err != nil {
			log.Printf("❌ Error updating product %s image: %v", product.ID, err)
			result.Failed++
			continue
		}

		log.Printf("✅ Imported %s as image of product %s", img.Name, product.ID)
		result.Imported++
	}

	if result.Imported > 0 {
		s.listings.Invalidate(ctx, storeID)
	}
	log.Printf("🎉 Image import finished: %d imported, %d skipped, %d failed, %d total",
		result.Imported, result.Skipped, result.Failed, result.Total)
	return result, nil
}
