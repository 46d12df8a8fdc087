package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// ErrBucketNotFound is returned by CheckBucket when the bucket does not exist.
var ErrBucketNotFound = errors.New("bucket not found")

// Client wraps the S3 client used for bucket probes.
type Client struct {
	s3 *s3.Client
}

// NewClient creates an S3 client authenticated with creds. An empty endpoint
// uses AWS itself.
func NewClient(ctx context.Context, creds Credentials, region, endpoint string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken)),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &Client{s3: client}, nil
}

// CheckBucket verifies the bucket exists and is readable with the client's
// credentials.
func (c *Client) CheckBucket(ctx context.Context, bucket string) error {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err == nil {
		return nil
	}
	if isNotFoundError(err) {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("failed to access bucket %s (%s): %w", bucket, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("failed to access bucket %s: %w", bucket, err)
}

// CheckBucket is a convenience wrapper creating a client for a single probe.
func CheckBucket(ctx context.Context, creds Credentials, bucket, region string) error {
	c, err := NewClient(ctx, creds, region, "")
	if err != nil {
		return err
	}
	return c.CheckBucket(ctx, bucket)
}

// isNotFoundError checks if the error is a not found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	// S3-compatible endpoints do not always return the typed errors
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchBucket" || code == "404"
	}

	return false
}
