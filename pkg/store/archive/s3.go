package archive

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader archives finished newsletters to an S3 bucket. Keys reuse the
// deterministic filename, so a re-export replaces the stored copy.
type Uploader interface {
	Put(ctx context.Context, filename string, data []byte) (string, error)
}

type s3Uploader struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

func NewS3Uploader(ctx context.Context, bucket, prefix string) (Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("archive bucket is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &s3Uploader{
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   prefix,
	}, nil
}

func (u *s3Uploader) Put(ctx context.Context, filename string, data []byte) (string, error) {
	key := filename
	if u.prefix != "" {
		key = u.prefix + "/" + filename
	}

	_, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive newsletter: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", u.bucket, key), nil
}
