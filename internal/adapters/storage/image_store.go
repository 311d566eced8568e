package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"deveventshub/internal/domain"
)

// S3Config holds configuration for the S3 image store.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL overrides the default bucket URL, e.g. a CDN in front of
	// the bucket. Optional.
	PublicBaseURL string
}

// Config holds configuration for creating an image store.
type Config struct {
	Provider string
	S3       S3Config
}

// NewImageStore creates an image store from config. Provider "s3" uploads to
// AWS S3; "noop" or unknown returns placeholder URLs and only logs.
func NewImageStore(config Config) (domain.ImageStore, error) {
	switch config.Provider {
	case "s3":
		awsCfg := aws.Config{
			Region: config.S3.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					config.S3.AccessKeyID,
					config.S3.SecretAccessKey,
					"",
				),
			),
		}
		return &s3ImageStore{
			client: s3.NewFromConfig(awsCfg),
			bucket: config.S3.Bucket,
			region: config.S3.Region,
			base:   strings.TrimSuffix(config.S3.PublicBaseURL, "/"),
		}, nil
	case "noop":
		return &noopImageStore{}, nil
	default:
		log.Printf("[IMAGES] Unknown image store provider %q, using noop", config.Provider)
		return &noopImageStore{}, nil
	}
}

type s3ImageStore struct {
	client *s3.Client
	bucket string
	region string
	base   string
}

// Upload stores the payload under a collision-free key and returns its public URL.
func (s *s3ImageStore) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := "events/" + uuid.NewString() + strings.ToLower(path.Ext(filename))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to S3: %w", err)
	}
	if s.base != "" {
		return s.base + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

type noopImageStore struct{}

func (n *noopImageStore) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	// Drain the payload so multipart readers behave as in production.
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	url := "https://images.invalid/" + uuid.NewString() + strings.ToLower(path.Ext(filename))
	log.Println("[IMAGES] Image would be uploaded (noop)", "filename", filename, "url", url)
	return url, nil
}
