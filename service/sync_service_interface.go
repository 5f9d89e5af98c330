package service

import "context"

// ImageImportServiceInterface defines the contract for importing product images from Drive
type ImageImportServiceInterface interface {
	ImportFolder(ctx context.Context, storeID, folderID string) (*ImportResult, error)
}
