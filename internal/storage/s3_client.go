package storage

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Config struct {
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	Endpoint     string
	PublicBase   string
	UsePathStyle bool
	PresignTTL   time.Duration
}

type Client struct {
	cfg     S3Config
	s3      *s3.Client
	presign *s3.PresignClient
}

func NewClient(ctx context.Context, cfg S3Config) (*Client, error) {
	if cfg.Region == "" || cfg.Bucket == "" {
		return nil, errors.New("s3 region and bucket are required")
	}

	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		if parsed, err := url.Parse(endpoint); err == nil {
			endpoint = parsed.String()
		}
		opts = append(opts, config.WithEndpointResolverWithOptions(
			aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				if service == s3.ServiceID {
					return aws.Endpoint{URL: endpoint, SigningRegion: cfg.Region}, nil
				}
				return aws.Endpoint{}, &aws.EndpointNotFoundError{}
			}),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" || cfg.UsePathStyle {
			o.UsePathStyle = true
		}
	})

	return &Client{
		cfg:     cfg,
		s3:      s3Client,
		presign: s3.NewPresignClient(s3Client),
	}, nil
}

func (c *Client) presignTTL(po *s3.PresignOptions) {
	if c.cfg.PresignTTL > 0 {
		po.Expires = c.cfg.PresignTTL
	}
}

// PresignPut grants a single upload of key. The returned headers must be sent
// with the PUT for the signature to match.
func (c *Client) PresignPut(ctx context.Context, key, contentType string, sizeBytes int64) (string, map[string]string, error) {
	if c == nil {
		return "", nil, errors.New("s3 client not initialized")
	}
	if key == "" {
		return "", nil, errors.New("object key is required")
	}
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if sizeBytes > 0 {
		input.ContentLength = aws.Int64(sizeBytes)
	}

	presigned, err := c.presign.PresignPutObject(ctx, input, c.presignTTL)
	if err != nil {
		return "", nil, err
	}

	headers := map[string]string{}
	if contentType != "" {
		headers["Content-Type"] = contentType
	}
	if sizeBytes > 0 {
		headers["Content-Length"] = strconv.FormatInt(sizeBytes, 10)
	}

	return presigned.URL, headers, nil
}

func (c *Client) PresignGet(ctx context.Context, key string) (string, error) {
	if c == nil {
		return "", errors.New("s3 client not initialized")
	}
	if key == "" {
		return "", errors.New("object key is required")
	}
	presigned, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(key),
	}, c.presignTTL)
	if err != nil {
		return "", err
	}
	return presigned.URL, nil
}

func (c *Client) FileURL(key string) string {
	if c == nil || key == "" {
		return ""
	}
	if c.cfg.PublicBase != "" {
		return strings.TrimRight(c.cfg.PublicBase, "/") + "/" + key
	}
	return ""
}

// ResolveURL returns the public URL when a public base is configured and a
// presigned GET otherwise.
func (c *Client) ResolveURL(ctx context.Context, key string) (string, error) {
	if u := c.FileURL(key); u != "" {
		return u, nil
	}
	return c.PresignGet(ctx, key)
}

// URLTTL is how long a resolved URL stays valid.
func (c *Client) URLTTL() time.Duration {
	if c.cfg.PresignTTL > 0 {
		return c.cfg.PresignTTL
	}
	return 15 * time.Minute
}
