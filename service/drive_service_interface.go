package service

import "context"

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	ListImages(ctx context.Context, folderID string) ([]DriveImage, error)
	DownloadImage(ctx context.Context, fileID string) ([]byte, error)
}
