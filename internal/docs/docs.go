// Package docs wraps the S3 client used for KYC document storage. Uploads and
// downloads go straight from the browser to the bucket via presigned URLs;
// the API never proxies document bytes.
package docs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PresignTTL bounds how long a presigned URL stays usable.
const PresignTTL = 15 * time.Minute

// Config carries the object storage settings.
type Config struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Region     string
	Bucket     string
	DisableTLS bool
}

// Store presigns uploads and downloads against the document bucket.
type Store struct {
	presign *s3.PresignClient
	bucket  string
}

// New initialises a Store from explicit configuration. Path-style addressing
// is always used so self-hosted S3-compatible endpoints work.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("docs: endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("docs: access and secret keys are required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("docs: bucket is required")
	}
	if cfg.Region == "" {
		cfg.Region = "ap-south-1"
	}

	endpoint := cfg.Endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		scheme := "https"
		if cfg.DisableTLS {
			scheme = "http"
		}
		endpoint = fmt.Sprintf("%s://%s", scheme, endpoint)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &Store{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// PresignUpload returns a presigned PUT URL for the given object key.
func (s *Store) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	if s == nil {
		return "", errors.New("docs: nil store")
	}

	input := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}
	if contentType != "" {
		input.ContentType = &contentType
	}

	req, err := s.presign.PresignPutObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = PresignTTL
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// PresignDownload returns a presigned GET URL for the given object key.
func (s *Store) PresignDownload(ctx context.Context, key string) (string, error) {
	if s == nil {
		return "", errors.New("docs: nil store")
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}, func(opts *s3.PresignOptions) {
		opts.Expires = PresignTTL
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
