// Package storage moves source images and filter results between the local
// filesystem and an S3-compatible bucket such as MinIO.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config locates the bucket and holds the credentials used to reach it.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
}

// Enabled reports whether a bucket is configured.
func (c Config) Enabled() bool { return c.Bucket != "" }

// API is the subset of *s3.Client used here.
type API interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewClient builds an S3 client. A custom Endpoint pins every request to that
// host, as MinIO requires; static keys are used when AccessKey is set and the
// default credential chain otherwise.
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	if cfg.Endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...any) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.Endpoint,
				SigningRegion:     cfg.Region,
				HostnameImmutable: true,
			}, nil
		})
		opts = append(opts, config.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}

// ObjectKey returns the key a local file is stored under: its base name
// below prefix.
func ObjectKey(prefix, localPath string) string {
	return path.Join(prefix, filepath.Base(localPath))
}

// ContentType guesses the MIME type of a file from its extension.
func ContentType(localPath string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(localPath))); t != "" {
		return t
	}
	return "application/octet-stream"
}

// EnsureBucket creates bucket when it cannot be found.
func EnsureBucket(ctx context.Context, api API, bucket string) error {
	if _, err := api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err == nil {
		return nil
	}
	if _, err := api.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	slog.Info("created bucket", "bucket", bucket)
	return nil
}

// Upload stores the file at localPath in cfg.Bucket and returns its key.
func Upload(ctx context.Context, api API, cfg Config, localPath string) (string, error) {
	if err := EnsureBucket(ctx, api, cfg.Bucket); err != nil {
		return "", err
	}

	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("could not open file %s: %w", localPath, err)
	}
	defer file.Close()

	key := ObjectKey(cfg.Prefix, localPath)
	_, err = api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(cfg.Bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(ContentType(localPath)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", localPath, err)
	}
	slog.Info("uploaded", "bucket", cfg.Bucket, "key", key)
	return key, nil
}

// Download writes the object key of cfg.Bucket to dst.
func Download(ctx context.Context, api API, cfg Config, key, dst string) error {
	out, err := api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	defer out.Body.Close()

	file, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", dst, err)
	}
	if _, err := io.Copy(file, out.Body); err != nil {
		file.Close()
		return fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("could not write %s: %w", dst, err)
	}
	slog.Info("downloaded", "bucket", cfg.Bucket, "key", key, "path", dst)
	return nil
}

var _ API = (*s3.Client)(nil)
