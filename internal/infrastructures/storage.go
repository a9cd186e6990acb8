package infrastructures

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// ObjectStore persists generated media and returns a URL callers can render.
type ObjectStore interface {
	PutObject(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// NewObjectStore returns R2 storage when configured, inline data URLs otherwise.
func NewObjectStore(cfg *AppConfig) ObjectStore {
	if !cfg.Storage.Enabled() {
		logrus.Warn("R2 storage not configured, generated images will be stored inline")
		return InlineStore{}
	}

	store, err := NewR2Store(context.Background(), cfg.Storage)
	if err != nil {
		logrus.Fatalf("failed to configure R2 storage: %v", err)
	}
	return store
}

// R2Store writes to Cloudflare R2 through the S3 API.
type R2Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func NewR2Store(ctx context.Context, cfg StorageConfig) (*R2Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"), // Required by SDK, R2 ignores this
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	publicBaseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if publicBaseURL == "" {
		publicBaseURL = endpoint + "/" + cfg.Bucket
	}

	return &R2Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: publicBaseURL,
	}, nil
}

func (s *R2Store) PutObject(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("R2 upload failed: %w", err)
	}

	return s.publicBaseURL + "/" + key, nil
}

// InlineStore keeps the image in the URL itself.
type InlineStore struct{}

func (InlineStore) PutObject(_ context.Context, _ string, contentType string, data []byte) (string, error) {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
