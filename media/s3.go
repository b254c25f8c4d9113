package media

import (
	"context"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"socialite/config"
)

var loadAWSConfig = awsconfig.LoadDefaultConfig

// NewS3Host builds a host on the bucket described by cfg, using static credentials
// and path style addressing so that MinIO works as well as AWS.
func NewS3Host(ctx context.Context, cfg *config.Config) (*Host, error) {
	awsCfg, err := loadAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, errors.Wrap(err, "loading aws config failed")
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = true
	})
	return NewHost(client, cfg.S3Bucket, cfg.PublicURL()), nil
}
