package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// UploadRecording uploads a session recording to Cloudinary as a video
// asset under the given public ID and returns the permanent identifier.
func (s *CloudinaryStorageService) UploadRecording(ctx context.Context, localFilePath, publicID string) (string, error) {
	uploadParams := uploader.UploadParams{
		PublicID:     publicID,
		ResourceType: "video",
	}
	result, err := s.cld.Upload.Upload(ctx, localFilePath, uploadParams)
	if err != nil {
		return "", fmt.Errorf("CloudinaryStorageService: failed to upload recording: %w", err)
	}
	if result.PublicID == "" {
		return "", fmt.Errorf("CloudinaryStorageService: no public ID returned")
	}
	return result.PublicID, nil
}

// DeleteRecording deletes a recording from Cloudinary given its public ID.
func (s *CloudinaryStorageService) DeleteRecording(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "video",
	})
	if err != nil {
		return fmt.Errorf("CloudinaryStorageService: failed to delete recording: %w", err)
	}
	return nil
}

// SignedDownloadURL generates a signed, short-lived URL for a stored
// recording. It computes a signature using SHA-1 over "expires_at" and
// "public_id" concatenated with the API secret.
func (s *CloudinaryStorageService) SignedDownloadURL(ctx context.Context, publicID string, expires time.Duration) (string, error) {
	expiresAt := time.Now().Add(expires).Unix()
	stringToSign := fmt.Sprintf("expires_at=%d&public_id=%s%s", expiresAt, publicID, s.apiSecret)
	signature := computeSHA1(stringToSign)
	secureURL := fmt.Sprintf("https://res.cloudinary.com/%s/video/authenticated/s--%s--/expires_%d/%s", s.cloudName, signature, expiresAt, publicID)
	return secureURL, nil
}

// computeSHA1 computes the SHA-1 hash of the input and returns its hex encoding.
func computeSHA1(input string) string {
	h := sha1.New()
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}
