package storage

import (
	"context"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
)

// StorageService defines the interface for durable recording storage.
type StorageService interface {
	// UploadRecording uploads a local video file under the given public ID
	// and returns the permanent storage key.
	UploadRecording(ctx context.Context, localFilePath, publicID string) (string, error)
	// DeleteRecording removes a stored recording.
	DeleteRecording(ctx context.Context, publicID string) error
	// SignedDownloadURL generates a short-lived signed URL for a stored
	// recording, suitable for handing to the transcription service.
	SignedDownloadURL(ctx context.Context, publicID string, expires time.Duration) (string, error)
}

// CloudinaryStorageService implements StorageService using Cloudinary.
type CloudinaryStorageService struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	apiSecret string
}

// NewCloudinaryStorageService creates a new CloudinaryStorageService.
func NewCloudinaryStorageService(cld *cloudinary.Cloudinary, cloudName, apiSecret string) *CloudinaryStorageService {
	return &CloudinaryStorageService{
		cld:       cld,
		cloudName: cloudName,
		apiSecret: apiSecret,
	}
}
