package db

import (
	"context"
	_ "embed"
	"fmt"
	"log"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema creates the tables when they do not exist yet
func EnsureSchema(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("database is not initialized")
	}
	if _, err := DB.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	log.Printf("✓ Database schema is up to date")
	return nil
}
