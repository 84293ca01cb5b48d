package minio

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"media-editor/internal/config"
	"media-editor/internal/repository/media"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

// OriginRepository looks up assets in the bucket the CDN pulls from.
type OriginRepository struct {
	client  *minio.Client
	bucket  string
	retries retry.Strategy
	logger  *zlog.Zerolog
}

func NewOriginRepository(cfg *config.Config, retries retry.Strategy, logger *zlog.Zerolog) (*OriginRepository, error) {
	client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: cfg.Minio.UseSSL,
		Region: cfg.Minio.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &OriginRepository{
		client:  client,
		bucket:  cfg.Minio.Bucket,
		retries: retries,
		logger:  logger,
	}, nil
}

// Exists reports whether the asset behind a CDN base path is present in
// the origin bucket. basePath is taken as it appears in the URL, so
// percent-escapes are decoded into the object key.
func (r *OriginRepository) Exists(ctx context.Context, basePath string) (bool, error) {
	key := objectKey(basePath)

	var found bool
	err := retry.DoContext(ctx, r.retries, func() error {
		_, err := r.client.StatObject(ctx, r.bucket, key, minio.StatObjectOptions{})
		if err == nil {
			found = true
			return nil
		}
		if isNotFound(err) {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		r.logger.Error().Err(err).Str("bucket", r.bucket).Str("key", key).Msg("Failed to stat origin object")
		return false, fmt.Errorf("%w: %v", media.ErrStorageError, err)
	}

	return found, nil
}

func objectKey(basePath string) string {
	key := strings.TrimPrefix(basePath, "/")
	if decoded, err := url.PathUnescape(key); err == nil {
		return decoded
	}
	return key
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.StatusCode == http.StatusNotFound || resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}
