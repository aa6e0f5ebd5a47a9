package gcs

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// NewClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// PhotoStore persists profile photos as bucket objects. The object path
// doubles as the public id handed back to the caller, so deletes can
// address the object again.
type PhotoStore struct {
	Client *storage.Client
	Bucket string
}

func NewPhotoStore(client *storage.Client, bucket string) *PhotoStore {
	return &PhotoStore{Client: client, Bucket: bucket}
}

// Upload stores the photo under photos/<userID>/<uuid><ext> and returns
// its public URL and object path.
func (s *PhotoStore) Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (url, publicID string, err error) {
	if s.Client == nil || s.Bucket == "" {
		return "", "", fmt.Errorf("gcs not configured")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("photos", userID, uuid.NewString()+ext))

	wc := s.Client.Bucket(s.Bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // disable chunking for small files
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", "", err
	}
	if err := wc.Close(); err != nil {
		return "", "", err
	}
	return PublicURL(s.Bucket, objectPath), objectPath, nil
}

// Delete removes the object identified by publicID.
func (s *PhotoStore) Delete(ctx context.Context, publicID string) error {
	if s.Client == nil || s.Bucket == "" {
		return fmt.Errorf("gcs not configured")
	}
	return s.Client.Bucket(s.Bucket).Object(publicID).Delete(ctx)
}

// PublicURL builds a public URL for an object (assuming public read access or signed URLs)
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}
