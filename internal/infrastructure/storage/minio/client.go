// Package minio archives downloaded diagrams and structure files in an
// S3-compatible bucket and hands out presigned links to them.
package minio

import (
	"context"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"github.com/turtacn/ChemDraw-AI/internal/config"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
)

// MinIOAPI is the subset of *minio.Client used here.
type MinIOAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketLifecycle(ctx context.Context, bucketName string, config *lifecycle.Configuration) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

var (
	ErrMinIOClientClosed = errors.New(errors.ErrCodeStorageError, "minio client is closed")
	ErrBucketUnavailable = errors.New(errors.ErrCodeServiceUnavailable, "archive bucket unavailable")
)

const (
	connectTimeout = 10 * time.Second
	// Archived objects live this long before the bucket lifecycle removes them.
	archiveRetentionDays = 30
)

// MinIOClient owns the connection and the archive bucket.
type MinIOClient struct {
	client MinIOAPI
	config config.StorageConfig
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

// NewMinIOClient connects to cfg.Endpoint, creates the bucket when missing
// and installs the retention rule.
func NewMinIOClient(cfg config.StorageConfig, log logging.Logger) (*MinIOClient, error) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidConfig, "failed to create minio client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if _, err := client.ListBuckets(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to connect to minio")
	}

	c, err := NewMinIOClientFromAPI(ctx, client, cfg, log)
	if err != nil {
		return nil, err
	}
	c.logger.Info("MinIO client connected", logging.String("endpoint", cfg.Endpoint), logging.Bool("ssl", cfg.UseSSL))
	return c, nil
}

// NewMinIOClientFromAPI wires an existing API implementation and prepares the
// bucket.
func NewMinIOClientFromAPI(ctx context.Context, api MinIOAPI, cfg config.StorageConfig, log logging.Logger) (*MinIOClient, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if cfg.PresignExpiry == 0 {
		cfg.PresignExpiry = config.DefaultPresignExpiry
	}
	c := &MinIOClient{client: api, config: cfg, logger: log}
	if err := c.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	c.SetupLifecycleRules(ctx)
	return c, nil
}

// EnsureBucket creates the archive bucket when it does not exist.
func (c *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to check bucket existence")
	}
	if exists {
		return nil
	}
	if err := c.client.MakeBucket(ctx, c.config.Bucket, minio.MakeBucketOptions{Region: c.config.Region}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "failed to create bucket").WithDetail(c.config.Bucket)
	}
	c.logger.Info("Created bucket", logging.String("bucket", c.config.Bucket))
	return nil
}

// SetupLifecycleRules expires archived objects.  Failure is logged only; some
// S3 implementations reject lifecycle configuration.
func (c *MinIOClient) SetupLifecycleRules(ctx context.Context) {
	cfg := lifecycle.NewConfiguration()
	cfg.Rules = []lifecycle.Rule{
		{
			ID:         "archive-expiry",
			Status:     "Enabled",
			RuleFilter: lifecycle.Filter{Prefix: archivePrefix},
			Expiration: lifecycle.Expiration{Days: lifecycle.ExpirationDays(archiveRetentionDays)},
		},
	}
	if err := c.client.SetBucketLifecycle(ctx, c.config.Bucket, cfg); err != nil {
		c.logger.Warn("Failed to set lifecycle for archive bucket", logging.Err(err))
	}
}

// Bucket returns the archive bucket name.
func (c *MinIOClient) Bucket() string { return c.config.Bucket }

// PresignExpiry returns the configured link lifetime.
func (c *MinIOClient) PresignExpiry() time.Duration { return c.config.PresignExpiry }

func (c *MinIOClient) api() (MinIOAPI, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrMinIOClientClosed
	}
	return c.client, nil
}

// Close marks the client closed.  minio-go holds no resources that need
// releasing.
func (c *MinIOClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Name implements the health checker contract.
func (c *MinIOClient) Name() string { return "minio" }

// Check implements the health checker contract.
func (c *MinIOClient) Check(ctx context.Context) error {
	api, err := c.api()
	if err != nil {
		return err
	}
	exists, err := api.BucketExists(ctx, c.config.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "minio unreachable")
	}
	if !exists {
		return ErrBucketUnavailable.WithDetail(c.config.Bucket)
	}
	return nil
}

//Personal.AI order the ending
