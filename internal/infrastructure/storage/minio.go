package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hszk-dev/gotube/internal/domain/repository"
	"github.com/hszk-dev/gotube/internal/infrastructure/metrics"
)

// object is what GetObject hands back. *minio.Object satisfies it.
type object interface {
	io.ReadCloser
	Stat() (minio.ObjectInfo, error)
}

// bucketAPI is the slice of the MinIO SDK the media bucket uses.
type bucketAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PresignedPutObject(ctx context.Context, bucketName, objectName string, expiry time.Duration) (*url.URL, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (object, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// sdkBucket narrows GetObject's *minio.Object to object.
type sdkBucket struct {
	*minio.Client
}

func (b sdkBucket) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (object, error) {
	return b.Client.GetObject(ctx, bucketName, objectName, opts)
}

type ClientConfig struct {
	Endpoint string
	// PublicEndpoint is the host browsers reach. Upload URLs are signed for
	// it and stored media URLs point at it. Defaults to Endpoint.
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	UseSSL         bool
}

// Client stores video files and thumbnails in one bucket and implements
// repository.ObjectStorage.
type Client struct {
	api    bucketAPI
	signer bucketAPI
	bucket string
	// base is the public bucket URL, e.g. http://localhost:9000/media.
	base string
}

var _ repository.ObjectStorage = (*Client)(nil)

// NewClient builds the SDK clients and checks that the bucket exists.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	api, err := newSDKBucket(cfg.Endpoint, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	signer := api
	if cfg.PublicEndpoint != "" && cfg.PublicEndpoint != cfg.Endpoint {
		// Presigned URLs embed the host in the signature, so they must be
		// produced by a client configured with the public host.
		if signer, err = newSDKBucket(cfg.PublicEndpoint, cfg); err != nil {
			return nil, fmt.Errorf("failed to create presigning minio client: %w", err)
		}
	}

	return newClient(ctx, api, signer, cfg.Bucket, publicBaseURL(cfg))
}

func newSDKBucket(endpoint string, cfg ClientConfig) (bucketAPI, error) {
	c, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return sdkBucket{c}, nil
}

// publicBaseURL is the URL prefix stored in video and thumbnail URLs.
func publicBaseURL(cfg ClientConfig) string {
	host := cfg.PublicEndpoint
	if host == "" {
		host = cfg.Endpoint
	}
	u := url.URL{Scheme: "http", Host: host, Path: "/" + cfg.Bucket}
	if cfg.UseSSL {
		u.Scheme = "https"
	}
	return u.String()
}

func newClient(ctx context.Context, api, signer bucketAPI, bucket, base string) (*Client, error) {
	exists, err := api.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", repository.ErrBucketNotFound, bucket)
	}

	return &Client{
		api:    api,
		signer: signer,
		bucket: bucket,
		base:   strings.TrimRight(base, "/"),
	}, nil
}

// GeneratePresignedUploadURL signs a PUT for key against the public host.
func (c *Client) GeneratePresignedUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := c.signer.PresignedPutObject(ctx, c.bucket, key, expiry)
	if err = observe(metrics.StorageOpPresign, err); err != nil {
		return "", fmt.Errorf("failed to generate presigned upload URL for %s: %w", key, err)
	}
	return u.String(), nil
}

// ObjectURL escapes each segment of key under the public bucket URL.
func (c *Client) ObjectURL(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.base + "/" + strings.Join(segments, "/")
}

// KeyFromURL reverses ObjectURL. URLs outside the bucket are rejected.
func (c *Client) KeyFromURL(rawURL string) (string, bool) {
	escaped, ok := strings.CutPrefix(rawURL, c.base+"/")
	if !ok || escaped == "" {
		return "", false
	}
	key, err := url.PathUnescape(escaped)
	if err != nil {
		return "", false
	}
	return key, true
}

// Download opens key for reading. The caller closes the reader.
func (c *Client) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := c.api.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		_ = observe(metrics.StorageOpDownload, err)
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	// GetObject is lazy; Stat surfaces a missing key before the caller reads.
	_, err = obj.Stat()
	if err = observe(metrics.StorageOpDownload, err); err != nil {
		_ = obj.Close()
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}
	return obj, nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	err := c.api.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
	if err = observe(metrics.StorageOpDelete, err); err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Exists reports whether an upload has landed at key.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.api.StatObject(ctx, c.bucket, key, minio.StatObjectOptions{})
	switch err = observe(metrics.StorageOpStat, err); {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrObjectNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
}

// Ping lets the readiness probe check bucket access.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.BucketExists(ctx, c.bucket); err != nil {
		return fmt.Errorf("failed to ping minio: %w", err)
	}
	return nil
}

func (c *Client) Bucket() string {
	return c.bucket
}

// observe counts one storage call and maps NoSuchKey to ErrObjectNotFound.
func observe(op string, err error) error {
	switch {
	case err == nil:
		metrics.StorageOperationsTotal.WithLabelValues(op, metrics.StatusSuccess).Inc()
		return nil
	case minio.ToErrorResponse(err).Code == "NoSuchKey":
		metrics.StorageOperationsTotal.WithLabelValues(op, metrics.StatusNotFound).Inc()
		return repository.ErrObjectNotFound
	default:
		metrics.StorageOperationsTotal.WithLabelValues(op, metrics.StatusError).Inc()
		return err
	}
}
