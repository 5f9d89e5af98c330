package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"dijital-vitrin/db"
	"dijital-vitrin/models"

	"github.com/google/uuid"
)

// ProductRepository handles store products
type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

var _ ProductRepositoryInterface = (*ProductRepository)(nil)

const productColumns = `id, store_id, category_id, name, COALESCE(description, ''), COALESCE(sku, ''),
	price, sale_price, COALESCE(image_url, ''), attributes, is_active, created_at`

// ListByStore returns every active product of the store, newest first
func (r *ProductRepository) ListByStore(ctx context.Context, storeID string) ([]models.Product, error) {
	log.Printf("🔍 Listing products for store %s", storeID)
	query := `SELECT ` + productColumns + ` FROM products WHERE store_id = $1 AND is_active = true ORDER BY created_at DESC`
	rows, err := db.DB.QueryContext(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

// GetByID returns one product owned by storeID
func (r *ProductRepository) GetByID(ctx context.Context, storeID, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE store_id = $1 AND id = $2`
	return scanProductRow(db.DB.QueryRowContext(ctx, query, storeID, id))
}

// GetBySKU matches a product by its SKU within the store
func (r *ProductRepository) GetBySKU(ctx context.Context, storeID, sku string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE store_id = $1 AND lower(sku) = lower($2)`
	return scanProductRow(db.DB.QueryRowContext(ctx, query, storeID, sku))
}

// Create inserts p, assigning its ID and creation time
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	p.IsActive = true
	if p.Attributes == nil {
		p.Attributes = models.Attributes{}
	}

	log.Printf("💾 Inserting product %s (%s) for store %s", p.ID, p.Name, p.StoreID)
	_, err := db.DB.ExecContext(ctx, `
		INSERT INTO products (
			id, store_id, category_id, name, description, sku, price, sale_price, image_url, attributes, is_active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.StoreID, p.CategoryID, p.Name, p.Description, nullString(p.SKU),
		p.Price, p.SalePrice, nullString(p.ImageURL), p.Attributes, p.IsActive, p.CreatedAt,
	)
	if err != nil {
		log.Printf("❌ Database INSERT error for product %s: %v", p.ID, err)
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// UpdateImageURL points the product at a new image
func (r *ProductRepository) UpdateImageURL(ctx context.Context, storeID, id, imageURL string) error {
	result, err := db.DB.ExecContext(ctx,
		`UPDATE products SET image_url = $1 WHERE store_id = $2 AND id = $3`,
		imageURL, storeID, id)
	if err != nil {
		return fmt.Errorf("failed to update product image: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("product %w", ErrNotFound)
	}
	return nil
}

func scanProductRow(row *sql.Row) (*models.Product, error) {
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %w", ErrNotFound)
	}
	return p, err
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var categoryID sql.NullString
	var salePrice sql.NullFloat64
	err := row.Scan(&p.ID, &p.StoreID, &categoryID, &p.Name, &p.Description, &p.SKU,
		&p.Price, &salePrice, &p.ImageURL, &p.Attributes, &p.IsActive, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	if categoryID.Valid {
		p.CategoryID = &categoryID.String
	}
	if salePrice.Valid {
		p.SalePrice = &salePrice.Float64
	}
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
