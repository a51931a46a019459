// Package storage keeps exported files in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/fintrack/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultEndpoint = "http://localhost:9000"
	defaultRegion   = "us-east-1"
	defaultLinkTTL  = 15 * time.Minute
)

var errEmptyKey = errors.New("storage: object key is required")

// ExportBucket is one bucket on AWS S3, MinIO or any other S3-compatible
// service. Exports are written once and fetched through presigned links.
type ExportBucket struct {
	client  *s3.Client
	signer  *s3.PresignClient
	name    string
	linkTTL time.Duration
	logger  *zap.Logger
}

// Option configures an ExportBucket
type Option func(*ExportBucket)

// WithLogger sets the bucket's logger
func WithLogger(logger *zap.Logger) Option {
	return func(b *ExportBucket) { b.logger = logger }
}

// WithLinkTTL overrides how long download links stay valid
func WithLinkTTL(d time.Duration) Option {
	return func(b *ExportBucket) { b.linkTTL = d }
}

// NewExportBucket builds an S3 client for cfg. No request is made until the
// bucket is used.
func NewExportBucket(cfg *config.StorageConfig, opts ...Option) (*ExportBucket, error) {
	if err := checkStorageConfig(cfg); err != nil {
		return nil, err
	}
	endpoint, err := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cmpOr(cfg.Region, defaultRegion)),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = cfg.UsePathStyle
	})

	b := &ExportBucket{
		client:  client,
		signer:  s3.NewPresignClient(client),
		name:    cfg.Bucket,
		linkTTL: cfg.PresignExpiration,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.linkTTL <= 0 {
		b.linkTTL = defaultLinkTTL
	}
	return b, nil
}

func checkStorageConfig(cfg *config.StorageConfig) error {
	switch {
	case cfg == nil:
		return errors.New("storage: configuration is required")
	case cfg.Bucket == "":
		return errors.New("storage: bucket is required")
	case cfg.AccessKey == "":
		return errors.New("storage: access key is required")
	case cfg.SecretKey == "":
		return errors.New("storage: secret key is required")
	}
	return nil
}

// normalizeEndpoint adds a scheme to bare host:port endpoints
func normalizeEndpoint(endpoint string, useSSL bool) (string, error) {
	endpoint = cmpOr(endpoint, defaultEndpoint)
	if !strings.Contains(endpoint, "://") {
		scheme := "http://"
		if useSSL {
			scheme = "https://"
		}
		endpoint = scheme + endpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return "", fmt.Errorf("storage: invalid endpoint: %w", err)
	}
	return endpoint, nil
}

func cmpOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// Name returns the bucket name
func (b *ExportBucket) Name() string { return b.name }

// Ensure creates the bucket when it is missing. Losing a creation race to
// another instance counts as success.
func (b *ExportBucket) Ensure(ctx context.Context) error {
	_, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &b.name})
	if err == nil {
		return nil
	}
	var (
		notFound     *types.NotFound
		noSuchBucket *types.NoSuchBucket
		owned        *types.BucketAlreadyOwnedByYou
	)
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("storage: head bucket %s: %w", b.name, err)
	}

	b.logger.Info("Creating export bucket", zap.String("bucket", b.name))
	if _, err := b.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: &b.name}); err != nil && !errors.As(err, &owned) {
		return fmt.Errorf("storage: create bucket %s: %w", b.name, err)
	}
	return nil
}

// Upload writes data under key
func (b *ExportBucket) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errEmptyKey
	}
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &b.name,
		Key:           &key,
		Body:          bytes.NewReader(data),
		ContentType:   &contentType,
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("storage: put %s: %w", key, err)
	}
	b.logger.Debug("Export stored", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// PresignDownload returns a GET link for key and the moment it stops
// working. A non-positive ttl uses the bucket default.
func (b *ExportBucket) PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errEmptyKey
	}
	if ttl <= 0 {
		ttl = b.linkTTL
	}
	req, err := b.signer.PresignGetObject(ctx, &s3.GetObjectInput{Bucket: &b.name, Key: &key}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("storage: presign %s: %w", key, err)
	}
	return req.URL, time.Now().Add(ttl), nil
}

// Delete removes key
func (b *ExportBucket) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errEmptyKey
	}
	if _, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &b.name, Key: &key}); err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}
