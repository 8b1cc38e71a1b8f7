// Package media stores candidate portrait images in an S3-compatible
// object store and hands back public URLs for the ballot UI.
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/justCallMeJeg/eboto/internal/config"
	"github.com/justCallMeJeg/eboto/internal/domain/common"
	"github.com/justCallMeJeg/eboto/internal/logger"
)

// Store uploads candidate portraits to a MinIO bucket.
type Store struct {
	client    *minio.Client
	bucket    string
	publicURL string
	log       *log.Logger
}

// allowedContentTypes are the portrait formats accepted for upload.
var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// NewStore connects to the configured object store. It does not create
// the bucket; call EnsureBucket once at startup.
func NewStore(cfg *config.Config) (*Store, error) {
	client, err := minio.New(cfg.Media.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Media.AccessKey, cfg.Media.SecretKey, ""),
		Secure: cfg.Media.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	publicURL := cfg.Media.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.Media.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Media.Endpoint
	}

	return &Store{
		client:    client,
		bucket:    cfg.Media.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       logger.Service("media"),
	}, nil
}

// EnsureBucket creates the portrait bucket if it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("%w: failed to check bucket: %v", common.ErrStorage, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("%w: failed to create bucket: %v", common.ErrStorage, err)
	}

	s.log.Info("created media bucket", "bucket", s.bucket)
	return nil
}

// UploadPortrait stores a candidate portrait and returns its public URL.
// The object key is derived from the election and candidate so repeated
// uploads for the same candidate replace the previous portrait.
func (s *Store) UploadPortrait(ctx context.Context, electionID, candidateID uuid.UUID, r io.Reader, size int64, contentType string) (string, error) {
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return "", common.NewValidationError("image", "Portrait must be a JPEG, PNG, or WebP image.")
	}

	key := path.Join("portraits", electionID.String(), candidateID.String()+ext)

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.log.Error("failed to upload portrait", "candidate_id", candidateID, "error", err)
		return "", fmt.Errorf("%w: failed to upload portrait: %v", common.ErrStorage, err)
	}

	url := s.publicURL + "/" + s.bucket + "/" + key
	s.log.Info("portrait uploaded", "candidate_id", candidateID, "key", key)
	return url, nil
}

// RemovePortrait deletes a candidate's portrait if one exists.
func (s *Store) RemovePortrait(ctx context.Context, electionID, candidateID uuid.UUID) error {
	for _, ext := range allowedContentTypes {
		key := path.Join("portraits", electionID.String(), candidateID.String()+ext)
		if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("%w: failed to remove portrait: %v", common.ErrStorage, err)
		}
	}
	return nil
}
