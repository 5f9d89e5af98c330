package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"dijital-vitrin/db"
	"dijital-vitrin/models"
)

// StoreRepository reads tenant storefronts
type StoreRepository struct{}

func NewStoreRepository() *StoreRepository {
	return &StoreRepository{}
}

var _ StoreRepositoryInterface = (*StoreRepository)(nil)

const storeColumns = `id, slug, name, whatsapp_number, COALESCE(logo_url, ''), is_active, created_at`

// GetBySlug returns the active store with the given slug
func (r *StoreRepository) GetBySlug(ctx context.Context, slug string) (*models.Store, error) {
	log.Printf("🔍 Looking up store by slug: %s", slug)
	query := `SELECT ` + storeColumns + ` FROM stores WHERE slug = $1 AND is_active = true`
	return scanStore(db.DB.QueryRowContext(ctx, query, slug))
}

// GetByID returns the store regardless of its active flag
func (r *StoreRepository) GetByID(ctx context.Context, id string) (*models.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE id = $1`
	return scanStore(db.DB.QueryRowContext(ctx, query, id))
}

func scanStore(row *sql.Row) (*models.Store, error) {
	var s models.Store
	err := row.Scan(&s.ID, &s.Slug, &s.Name, &s.WhatsAppNumber, &s.LogoURL, &s.IsActive, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan store: %w", err)
	}
	return &s, nil
}
