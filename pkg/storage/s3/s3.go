// Package s3 implements the S3 object-storage backend. It works against
// AWS S3 as well as S3-compatible services such as MinIO when a custom
// endpoint is configured.
package s3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds S3 backend configuration. Region may be left empty, in
// which case it is auto-detected from the bucket location.
type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	Profile   string
	AccessKey string
	SecretKey string
	PathStyle bool // path-style URLs, required for MinIO
}

// Backend implements the storage.Backend interface on the AWS SDK.
type Backend struct {
	client *s3.Client
	bucket string
	region string
}

// New creates an S3 backend. Credentials come from an explicit access
// key pair when configured, otherwise from the named shared-config
// profile, otherwise from the ambient default chain.
func New(ctx context.Context, cfg Config) (*Backend, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	var optFns []func(*config.LoadOptions) error
	if cfg.Profile != "" {
		optFns = append(optFns, config.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		optFns = append(optFns, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	if cfg.Region != "" {
		optFns = append(optFns, config.WithRegion(cfg.Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if awsCfg.Region == "" {
		// GetBucketLocation answers from any region.
		awsCfg.Region = "us-east-1"
	}

	var s3OptFns []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3OptFns = append(s3OptFns, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.PathStyle {
		s3OptFns = append(s3OptFns, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3OptFns...)

	region := cfg.Region
	if region == "" {
		region, err = detectBucketRegion(ctx, client, cfg.Bucket)
		if err != nil {
			return nil, err
		}
		regionOpt := func(o *s3.Options) { o.Region = region }
		client = s3.NewFromConfig(awsCfg, append(s3OptFns, regionOpt)...)
	}

	return &Backend{
		client: client,
		bucket: cfg.Bucket,
		region: region,
	}, nil
}

// ListObjects returns every key under prefix, following pagination.
func (b *Backend) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(b.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects under %q: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}
	return keys, nil
}

// CopyObject performs a server-side copy within the bucket.
func (b *Backend) CopyObject(ctx context.Context, sourceKey, destinationKey string) error {
	_, err := b.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(b.bucket),
		CopySource: aws.String(b.bucket + "/" + sourceKey),
		Key:        aws.String(destinationKey),
	})
	if err != nil {
		return fmt.Errorf("copy object %s -> %s: %w", sourceKey, destinationKey, err)
	}
	return nil
}

// Region returns the resolved bucket region.
func (b *Backend) Region() string { return b.region }

// Type returns "s3" as the backend identifier.
func (b *Backend) Type() string { return "s3" }

// detectBucketRegion resolves the bucket's region via GetBucketLocation.
// Buckets in us-east-1 report an empty location constraint.
func detectBucketRegion(ctx context.Context, client *s3.Client, bucket string) (string, error) {
	out, err := client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return "", fmt.Errorf("detect region for bucket %s: %w", bucket, err)
	}
	region := string(out.LocationConstraint)
	if region == "" {
		region = "us-east-1"
	}
	return region, nil
}
