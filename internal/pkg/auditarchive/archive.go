package auditarchive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/LinkFox/internal/pkg/config"
)

const keyPrefix = "reconciler"

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Client uploads reconciler transcripts to an S3-compatible bucket.
type Client struct {
	s3     putObjectAPI
	bucket string
	now    func() time.Time
}

// NewClient builds an S3 client from the archive settings. Custom endpoints
// (Backblaze B2, MinIO) use path-style addressing.
func NewClient(ctx context.Context, cfg config.ArchiveConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, errors.New("audit archive is disabled")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		}
	})

	log.Infof("[AuditArchive] Using bucket %s", cfg.BucketName)
	return &Client{s3: s3Client, bucket: cfg.BucketName, now: time.Now}, nil
}

// Archive uploads one transcript and returns its object key.
func (c *Client) Archive(ctx context.Context, data []byte) (string, error) {
	key := ObjectKey(c.now())
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s to bucket %s: %w", key, c.bucket, err)
	}
	log.Infof("[AuditArchive] Uploaded %d bytes to %s", len(data), key)
	return key, nil
}

// ObjectKey returns reconciler/YYYY/MM/<timestamp>.log for the given time in UTC.
func ObjectKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s/%04d/%02d/%s.log", keyPrefix, t.Year(), int(t.Month()), t.Format("20060102T150405Z"))
}
