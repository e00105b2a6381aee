package receipt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used for reads and deletes
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Uploader writes objects, splitting large bodies into multipart uploads
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Storage implements the Storage interface on an S3 bucket
type S3Storage struct {
	client   S3API
	uploader Uploader
	bucket   string
	prefix   string
	timeout  time.Duration
}

// NewS3Storage creates an S3Storage from an AWS configuration. A custom
// BaseEndpoint switches the client to path-style addressing for
// S3-compatible stores.
func NewS3Storage(cfg aws.Config, bucket, prefix string, timeout time.Duration) *S3Storage {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != nil {
			o.UsePathStyle = true
		}
	})
	return NewS3StorageWithClient(client, manager.NewUploader(client), bucket, prefix, timeout)
}

// NewS3StorageWithClient creates an S3Storage with custom clients for testing
func NewS3StorageWithClient(client S3API, uploader Uploader, bucket, prefix string, timeout time.Duration) *S3Storage {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &S3Storage{
		client:   client,
		uploader: uploader,
		bucket:   bucket,
		prefix:   prefix,
		timeout:  timeout,
	}
}

func (s *S3Storage) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Save uploads a file to the bucket
func (s *S3Storage) Save(filename string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(filename)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload: %w", err)
	}
	return filename, nil
}

// Get downloads a file from the bucket
func (s *S3Storage) Get(name string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 download: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 download read: %w", err)
	}
	return data, nil
}

// Delete removes a file from the bucket
func (s *S3Storage) Delete(name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return fmt.Errorf("s3 delete: %w", err)
	}
	return nil
}
