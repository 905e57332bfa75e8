package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/cds-snc/notification-document-download-api/internal/cryptox"
	sc "github.com/cds-snc/notification-document-download-api/internal/server/config"
)

const sseCustomerAlgorithm = "AES256"

// NewS3Client builds the shared S3 client. Static credentials and a base
// endpoint override are only applied when configured, so the default AWS
// credential chain still works in deployed environments while local setups
// can point at minio.
func NewS3Client(ctx context.Context, cfg *sc.Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3RootUser != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3RootUser, cfg.S3RootPassword, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return client, nil
}

// S3ObjectStore implements ObjectStore on a single S3 bucket.
type S3ObjectStore struct {
	client *s3.Client
	bucket string
}

func NewS3ObjectStore(client *s3.Client, bucket string) *S3ObjectStore {
	return &S3ObjectStore{client: client, bucket: bucket}
}

func (s *S3ObjectStore) Put(ctx context.Context, key string, body io.Reader, contentType string, tags map[string]string, sseKey []byte) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}

	if len(tags) > 0 {
		input.Tagging = aws.String(encodeTagging(tags))
	}
	if sseKey != nil {
		encodedKey, encodedMD5 := cryptox.SSECustomerKeyHeaders(sseKey)
		input.SSECustomerAlgorithm = aws.String(sseCustomerAlgorithm)
		input.SSECustomerKey = aws.String(encodedKey)
		input.SSECustomerKeyMD5 = aws.String(encodedMD5)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("%w: putting %s: %v", ErrStore, key, err)
	}
	return nil
}

func (s *S3ObjectStore) Get(ctx context.Context, key string, sseKey []byte) (*Object, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if sseKey != nil {
		encodedKey, encodedMD5 := cryptox.SSECustomerKeyHeaders(sseKey)
		input.SSECustomerAlgorithm = aws.String(sseCustomerAlgorithm)
		input.SSECustomerKey = aws.String(encodedKey)
		input.SSECustomerKeyMD5 = aws.String(encodedMD5)
	}

	out, err := s.client.GetObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("%w: getting %s: %v", ErrStore, key, err)
	}

	return &Object{
		Body:        out.Body,
		ContentType: aws.ToString(out.ContentType),
		Size:        aws.ToInt64(out.ContentLength),
	}, nil
}

func (s *S3ObjectStore) GetTags(ctx context.Context, key string) (map[string]string, error) {
	out, err := s.client.GetObjectTagging(ctx, &s3.GetObjectTaggingInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: getting tags for %s: %v", ErrStore, key, err)
	}

	tags := make(map[string]string, len(out.TagSet))
	for _, t := range out.TagSet {
		tags[aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return tags, nil
}

func (s *S3ObjectStore) PutTags(ctx context.Context, key string, tags map[string]string) error {
	tagSet := make([]types.Tag, 0, len(tags))
	for k, v := range tags {
		tagSet = append(tagSet, types.Tag{Key: aws.String(k), Value: aws.String(v)})
	}

	_, err := s.client.PutObjectTagging(ctx, &s3.PutObjectTaggingInput{
		Bucket:  aws.String(s.bucket),
		Key:     aws.String(key),
		Tagging: &types.Tagging{TagSet: tagSet},
	})
	if err != nil {
		return fmt.Errorf("%w: tagging %s: %v", ErrStore, key, err)
	}
	return nil
}

func (s *S3ObjectStore) Age(ctx context.Context, key string, now time.Time) (time.Duration, error) {
	out, err := s.client.GetObjectAttributes(ctx, &s3.GetObjectAttributesInput{
		Bucket:           aws.String(s.bucket),
		Key:              aws.String(key),
		ObjectAttributes: []types.ObjectAttributes{types.ObjectAttributesObjectSize},
	})
	if err != nil {
		return 0, fmt.Errorf("%w: getting attributes for %s: %v", ErrStore, key, err)
	}
	if out.LastModified == nil {
		return 0, fmt.Errorf("%w: no last-modified for %s", ErrStore, key)
	}

	age := now.Sub(*out.LastModified)
	if age < 0 {
		age = 0
	}
	return age, nil
}

// encodeTagging renders tags in the URL-query form PutObject expects.
func encodeTagging(tags map[string]string) string {
	values := url.Values{}
	for k, v := range tags {
		values.Set(k, v)
	}
	return values.Encode()
}
