// internal/repository/s3.go
package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/javajoker/solar-catalog/internal/catalog"
	"github.com/javajoker/solar-catalog/internal/config"
)

// NewS3Client builds an S3 client from static credentials, or from the
// default credential chain when no key is configured.
func NewS3Client(cfg config.AWSConfig) (*s3.S3, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return s3.New(sess), nil
}

// S3Source reads the catalog from a JSON feed object and can publish one.
type S3Source struct {
	client s3iface.S3API
	bucket string
	key    string
}

func NewS3Source(client s3iface.S3API, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

func (s *S3Source) LoadProducts(ctx context.Context) ([]catalog.Product, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}

	feed, err := DecodeFeed(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}
	return feed.Products, nil
}

// PublishFeed writes the products as the feed object and returns its URL.
func (s *S3Source) PublishFeed(ctx context.Context, products []catalog.Product) (string, error) {
	data, err := EncodeFeed(products, time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to encode feed: %w", err)
	}

	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("max-age=60"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload feed: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key), nil
}
