package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"dijital-vitrin/models"
	"dijital-vitrin/repository"
	"dijital-vitrin/schema"
)

// ValidationError carries per-field problems back to the dashboard
type ValidationError struct {
	Errors schema.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Errors))
}

// ProductService handles dashboard product management
type ProductService struct {
	products   repository.ProductRepositoryInterface
	categories *CategoryService
	storefront *StorefrontService
	media      *MediaStore
}

func NewProductService(
	products repository.ProductRepositoryInterface,
	categories *CategoryService,
	storefront *StorefrontService,
	media *MediaStore,
) *ProductService {
	return &ProductService{products: products, categories: categories, storefront: storefront, media: media}
}

// List returns the active products of the store
func (s *ProductService) List(ctx context.Context, storeID string) ([]models.Product, error) {
	return s.storefront.Products(ctx, storeID)
}

// Create validates req against the category schema and stores the product
func (s *ProductService) Create(ctx context.Context, storeID string, req models.CreateProductRequest) (*models.Product, error) {
	problems := schema.FieldErrors{}
	if strings.TrimSpace(req.Name) == "" {
		problems["name"] = []string{"name is required"}
	}
	if req.Price < 0 {
		problems["price"] = []string{"price must not be negative"}
	}
	if req.SalePrice != nil && *req.SalePrice < 0 {
		problems["salePrice"] = []string{"sale price must not be negative"}
	}

	if req.CategoryID != nil && *req.CategoryID != "" {
		category, err := s.categories.Get(ctx, storeID, *req.CategoryID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				problems["categoryId"] = []string{"category does not exist"}
			} else {
				return nil, err
			}
		} else {
			attrErrs, err := s.categories.ValidateProductAttributes(category.AttributeSchema, req.Attributes)
			if err != nil {
				return nil, err
			}
			for k, v := range attrErrs {
				problems["attributes."+k] = v
			}
		}
	} else {
		req.CategoryID = nil
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Errors: problems}
	}

	p := &models.Product{
		StoreID:     storeID,
		CategoryID:  req.CategoryID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		SKU:         strings.TrimSpace(req.SKU),
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		Attributes:  req.Attributes,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	s.storefront.InvalidateListing(ctx, storeID)
	log.Printf("✅ Product created: %s (%s)", p.ID, p.Name)
	return p, nil
}

// SetImage optimizes data, stores both renditions and points the product at them
func (s *ProductService) SetImage(ctx context.Context, storeID, productID string, data []byte) (string, error) {
	if _, err := s.products.GetByID(ctx, storeID, productID); err != nil {
		return "", err
	}
	imageURL, err := s.media.SaveProductImage(productID, data)
	if err != nil {
		return "", err
	}
	if err := s.products.UpdateImageURL(ctx, storeID, productID, imageURL); err != nil {
		return "", err
	}
	s.storefront.InvalidateListing(ctx, storeID)
	return imageURL, nil
}
