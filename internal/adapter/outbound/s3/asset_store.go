package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/smartplatform/gateway/internal/infra/config"
	"github.com/smartplatform/gateway/internal/port/outbound"
)

// presignExpiry is the longest lifetime SigV4 allows.
const presignExpiry = 7 * 24 * time.Hour

// assetStore implements outbound.AssetStorePort on any S3-compatible
// store (AWS S3, Cloudflare R2, MinIO).
type assetStore struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	publicURL string
}

// NewAssetStore creates an asset store. With a public URL configured the
// returned links are plain object URLs; otherwise they are presigned GETs.
func NewAssetStore(ctx context.Context, cfg *config.StorageConfig, httpClient *http.Client) (outbound.AssetStorePort, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is not configured")
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	if httpClient != nil {
		opts = append(opts, awsconfig.WithHTTPClient(buildableClient(httpClient)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &assetStore{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// buildableClient carries the shared pool settings over to the SDK's own
// client type. LoadDefaultConfig can only apply AWS_CA_BUNDLE to a
// BuildableClient; a plain *http.Client makes it fail.
func buildableClient(shared *http.Client) *awshttp.BuildableClient {
	client := awshttp.NewBuildableClient().WithTimeout(shared.Timeout)
	t, ok := shared.Transport.(*http.Transport)
	if !ok {
		return client
	}
	return client.WithTransportOptions(func(tr *http.Transport) {
		tr.Proxy = t.Proxy
		if t.DialContext != nil {
			tr.DialContext = t.DialContext
		}
		tr.MaxIdleConns = t.MaxIdleConns
		tr.MaxIdleConnsPerHost = t.MaxIdleConnsPerHost
		tr.MaxConnsPerHost = t.MaxConnsPerHost
		tr.IdleConnTimeout = t.IdleConnTimeout
		tr.TLSHandshakeTimeout = t.TLSHandshakeTimeout
		if t.TLSClientConfig != nil && tr.TLSClientConfig == nil {
			tr.TLSClientConfig = t.TLSClientConfig.Clone()
		}
	})
}

func (s *assetStore) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	if s.publicURL != "" {
		return s.publicURL + "/" + key, nil
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = presignExpiry
	})
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}

// Compile-time check
var _ outbound.AssetStorePort = (*assetStore)(nil)
