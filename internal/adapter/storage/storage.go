// Package storage implements the object storage capability on Amazon S3.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/heartmarshall/meetings-backend/internal/config"
	"github.com/heartmarshall/meetings-backend/internal/domain"
)

// objectAPI is the subset of the S3 client used by Storage.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// presignAPI is the subset of the S3 presign client used by Storage.
type presignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Storage reads and writes artifact objects in a single bucket.
type Storage struct {
	api     objectAPI
	presign presignAPI
	bucket  string
	log     *slog.Logger
}

// NewS3Client builds an S3 client for cfg. A configured endpoint switches
// to path-style addressing for local emulators.
func NewS3Client(awsCfg aws.Config, cfg config.StorageConfig) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Region != "" {
			o.Region = cfg.Region
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
}

// New creates a Storage bound to bucket.
func New(client *s3.Client, bucket string, logger *slog.Logger) *Storage {
	return newStorage(client, s3.NewPresignClient(client), bucket, logger)
}

func newStorage(api objectAPI, presign presignAPI, bucket string, logger *slog.Logger) *Storage {
	return &Storage{
		api:     api,
		presign: presign,
		bucket:  bucket,
		log:     logger.With("adapter", "s3", "bucket", bucket),
	}
}

// Bucket returns the bucket this Storage is bound to.
func (s *Storage) Bucket() string { return s.bucket }

// Ping checks that the bucket exists and is reachable with the current
// credentials.
func (s *Storage) Ping(ctx context.Context) error {
	if _, err := s.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return mapError("head bucket", s.bucket, err)
	}
	return nil
}

// Put writes body under key.
func (s *Storage) Put(ctx context.Context, key string, body []byte, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := s.api.PutObject(ctx, in); err != nil {
		return mapError("put", key, err)
	}

	s.log.DebugContext(ctx, "object stored", slog.String("key", key), slog.Int("bytes", len(body)))
	return nil
}

// Get reads the object under key.
// Returns domain.ErrNotFound if it does not exist.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapError("get", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3: read %s: %w", key, err)
	}
	return body, nil
}

// PresignGet returns a time-limited download URL for key.
func (s *Storage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", mapError("presign get", key, err)
	}
	return req.URL, nil
}

// PresignPut returns a time-limited upload URL for key. A non-empty
// contentType becomes part of the signature and must be sent by the uploader.
func (s *Storage) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	req, err := s.presign.PresignPutObject(ctx, in, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", mapError("presign put", key, err)
	}
	return req.URL, nil
}

// mapError converts S3 errors to domain errors.
// Context errors pass through unchanged in the chain.
func mapError(op, key string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("s3: %s %s: %w", op, key, err)
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return fmt.Errorf("s3: %s %s: %w", op, key, domain.ErrNotFound)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("s3: %s %s: %w", op, key, domain.ErrNotFound)
		}
	}

	return fmt.Errorf("s3: %s %s: %w: %w", op, key, domain.ErrExternalService, err)
}
