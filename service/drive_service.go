package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveImage is an image file found in a Drive folder
type DriveImage struct {
	FileID   string
	Name     string
	MimeType string
}

// DriveService handles Google Drive API operations
type DriveService struct {
	client *drive.Service
}

var _ DriveServiceInterface = (*DriveService)(nil)

// NewDriveService creates a new DriveService instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveService(ctx context.Context, credentialsPath string) (*DriveService, error) {
	// option.WithCredentialsFile automatically handles Service Account authentication
	driveService, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{
		client: driveService,
	}, nil
}

var imageMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

// ListImages lists all image files in a Google Drive folder
func (ds *DriveService) ListImages(ctx context.Context, folderID string) ([]DriveImage, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", strings.ReplaceAll(folderID, "'", `\'`))

	var images []DriveImage
	pageToken := ""
	for {
		call := ds.client.Files.List().
			Context(ctx).
			Q(query).
			Fields("nextPageToken, files(id, name, mimeType)")

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		for _, file := range r.Files {
			if !imageMimeTypes[strings.ToLower(file.MimeType)] {
				continue
			}
			images = append(images, DriveImage{FileID: file.Id, Name: file.Name, MimeType: file.MimeType})
		}

		pageToken = r.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return images, nil
}

// DownloadImage fetches the raw bytes of a Drive file
func (ds *DriveService) DownloadImage(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := ds.client.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return data, nil
}
