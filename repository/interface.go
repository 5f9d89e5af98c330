package repository

import (
	"context"
	"time"

	"dijital-vitrin/models"
	"dijital-vitrin/schema"
)

// StoreRepositoryInterface defines the contract for tenant lookups
type StoreRepositoryInterface interface {
	GetBySlug(ctx context.Context, slug string) (*models.Store, error)
	GetByID(ctx context.Context, id string) (*models.Store, error)
}

// CategoryRepositoryInterface defines the contract for category operations
type CategoryRepositoryInterface interface {
	ListByStore(ctx context.Context, storeID string) ([]models.Category, error)
	GetByID(ctx context.Context, storeID, id string) (*models.Category, error)
	UpdateAttributeSchema(ctx context.Context, storeID, id string, s schema.Schema) error
}

// ProductRepositoryInterface defines the contract for product operations
type ProductRepositoryInterface interface {
	ListByStore(ctx context.Context, storeID string) ([]models.Product, error)
	GetByID(ctx context.Context, storeID, id string) (*models.Product, error)
	GetBySKU(ctx context.Context, storeID, sku string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	UpdateImageURL(ctx context.Context, storeID, id, imageURL string) error
}

// AnalyticsRepositoryInterface defines the contract for analytics storage
type AnalyticsRepositoryInterface interface {
	Insert(ctx context.Context, ev *models.AnalyticsEvent) error
	Summary(ctx context.Context, tenantID string, since time.Time) (*models.AnalyticsSummary, error)
}
