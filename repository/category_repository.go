package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"dijital-vitrin/db"
	"dijital-vitrin/models"
	"dijital-vitrin/schema"
)

// CategoryRepository handles categories and their JSONB attribute schema
type CategoryRepository struct{}

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{}
}

var _ CategoryRepositoryInterface = (*CategoryRepository)(nil)

const categoryColumns = `id, store_id, name, slug, attribute_schema, created_at`

// ListByStore returns the store's categories ordered by name
func (r *CategoryRepository) ListByStore(ctx context.Context, storeID string) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE store_id = $1 ORDER BY name`
	rows, err := db.DB.QueryContext(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// GetByID returns one category owned by storeID
func (r *CategoryRepository) GetByID(ctx context.Context, storeID, id string) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE store_id = $1 AND id = $2`
	c, err := scanCategory(db.DB.QueryRowContext(ctx, query, storeID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %w", ErrNotFound)
	}
	return c, err
}

// UpdateAttributeSchema replaces the category's attribute schema
func (r *CategoryRepository) UpdateAttributeSchema(ctx context.Context, storeID, id string, s schema.Schema) error {
	if s == nil {
		s = schema.Schema{}
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode attribute schema: %w", err)
	}

	log.Printf("💾 Updating attribute schema for category %s (%d fields)", id, len(s))
	result, err := db.DB.ExecContext(ctx,
		`UPDATE categories SET attribute_schema = $1 WHERE store_id = $2 AND id = $3`,
		raw, storeID, id)
	if err != nil {
		return fmt.Errorf("failed to update attribute schema: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("category %w", ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*models.Category, error) {
	var c models.Category
	var raw []byte
	if err := row.Scan(&c.ID, &c.StoreID, &c.Name, &c.Slug, &raw, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &c.AttributeSchema); err != nil {
			return nil, fmt.Errorf("failed to decode attribute schema of category %s: %w", c.ID, err)
		}
	}
	if c.AttributeSchema == nil {
		c.AttributeSchema = schema.Schema{}
	}
	return &c, nil
}
