// Package s3archive archives approved arbitrages as JSON objects in an S3 compatible bucket.
package s3archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"

	"huckster/config"
	"huckster/internal/arbitrage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the subset of the S3 client the archive needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Archive struct {
	client ObjectPutter
	bucket string
	prefix string
}

// New builds an S3 client from the config. Static credentials are used when
// an access key is set, otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg config.S3Config) (*Archive, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket name is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("s3: region is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := normaliseEndpoint(cfg.Endpoint)
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}
	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return NewWithClient(s3.NewFromConfig(awsCfg, s3Opts...), cfg.Bucket, cfg.Prefix), nil
}

func NewWithClient(client ObjectPutter, bucket, prefix string) *Archive {
	return &Archive{client: client, bucket: bucket, prefix: prefix}
}

// Key returns the object key for an arbitrage: <prefix>/YYYY/MM/DD/<id>.json.
func (a *Archive) Key(arb arbitrage.Arbitrage) string {
	ts := arb.Timestamp.UTC()
	return path.Join(a.prefix, ts.Format("2006/01/02"), arb.ID.String()+".json")
}

func (a *Archive) Save(ctx context.Context, arb arbitrage.Arbitrage) error {
	body, err := json.Marshal(arb)
	if err != nil {
		return fmt.Errorf("s3: marshal arbitrage: %w", err)
	}

	key := a.Key(arb)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3: put object %s: %w", key, err)
	}
	return nil
}

func normaliseEndpoint(endpoint string) string {
	parsed, err := url.Parse(endpoint)
	if err == nil && parsed.Scheme != "" {
		return endpoint
	}
	return "https://" + endpoint
}
