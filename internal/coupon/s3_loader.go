package coupon

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Loader reads gzipped codebooks from an S3 bucket.
type s3Loader struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates an S3-backed codebook loader using the default AWS
// credential chain.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "coupon-s3-loader").Logger()

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 codebook loader initialised")

	return &s3Loader{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		logger: logger,
	}, nil
}

// Load reads the gzipped codebook stored under the given S3 key.
func (l *s3Loader) Load(ctx context.Context, key string) (Codebook, error) {
	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Msg("loading codebook from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object (bucket=%s, key=%s): %w", l.bucket, key, err)
	}
	defer result.Body.Close()

	book, err := readCodebook(ctx, result.Body)
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to read codebook from S3")
		return nil, fmt.Errorf("failed to read codebook %s: %w", key, err)
	}

	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Int("codes_loaded", book.Size()).
		Msg("codebook loaded from S3")

	return book, nil
}

// fallbackLoader tries S3 first and falls back to the local filesystem when
// S3 is disabled, unconfigured, or fails.
type fallbackLoader struct {
	s3Loader   Loader
	fileLoader Loader
	s3Prefix   string
	s3Enabled  bool
	logger     zerolog.Logger
}

// NewFallbackLoader chains an optional S3 loader in front of a filesystem
// loader. S3 names have s3Prefix prepended; filesystem names are used as-is.
func NewFallbackLoader(s3, file Loader, s3Prefix string, s3Enabled bool, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		s3Loader:   s3,
		fileLoader: file,
		s3Prefix:   s3Prefix,
		s3Enabled:  s3Enabled,
		logger:     logger.With().Str("component", "coupon-fallback-loader").Logger(),
	}
}

func (l *fallbackLoader) Load(ctx context.Context, name string) (Codebook, error) {
	if l.s3Enabled && l.s3Loader != nil {
		key := l.s3Prefix + name

		book, err := l.s3Loader.Load(ctx, key)
		if err == nil {
			return book, nil
		}

		l.logger.Warn().
			Err(err).
			Str("s3_key", key).
			Msg("S3 load failed, falling back to local filesystem")
	}

	return l.fileLoader.Load(ctx, name)
}
