package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appconfig "github.com/xxxsen/filedrop/internal/config"
)

type s3Client struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Client builds a storage client backed by AWS S3 (or compatible) based on config.
func NewS3Client(ctx context.Context, cfg appconfig.S3Config) (Client, error) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := normalizeEndpoint(cfg.Host)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return &s3Client{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (c *s3Client) Save(ctx context.Context, name string, r io.Reader) error {
	key := objectKey(c.prefix, name)
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentTypeOf(name)),
	})
	if err != nil {
		return fmt.Errorf("put object %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

func (c *s3Client) List(ctx context.Context) ([]ObjectInfo, error) {
	var (
		out          []ObjectInfo
		continuation *string
		prefix       *string
	)
	if c.prefix != "" {
		prefix = aws.String(strings.TrimSuffix(c.prefix, "/") + "/")
	}

	for {
		resp, err := c.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(c.bucket),
			Prefix:            prefix,
			ContinuationToken: continuation,
		})
		if err != nil {
			return nil, fmt.Errorf("list objects in %s: %w", c.bucket, err)
		}

		for _, obj := range resp.Contents {
			if obj.Key == nil {
				continue
			}
			name, ok := keyName(c.prefix, *obj.Key)
			if !ok {
				continue
			}
			info := ObjectInfo{Name: name, ContentType: contentTypeOf(name)}
			if obj.Size != nil {
				info.Size = *obj.Size
			}
			if obj.LastModified != nil {
				info.ModTime = *obj.LastModified
			}
			out = append(out, info)
		}

		if resp.IsTruncated == nil || !*resp.IsTruncated {
			break
		}
		continuation = resp.NextContinuationToken
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *s3Client) Open(ctx context.Context, name string) (io.ReadCloser, *ObjectInfo, error) {
	key := objectKey(c.prefix, name)
	res, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, nil, fmt.Errorf("get object %s/%s: %w", c.bucket, key, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("get object %s/%s: %w", c.bucket, key, err)
	}

	info := &ObjectInfo{Name: name, ContentType: aws.ToString(res.ContentType)}
	if res.ContentLength != nil {
		info.Size = *res.ContentLength
	}
	if res.LastModified != nil {
		info.ModTime = *res.LastModified
	}
	if info.ContentType == "" {
		info.ContentType = contentTypeOf(name)
	}
	return res.Body, info, nil
}

func normalizeEndpoint(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return ""
	}

	if strings.Contains(host, "://") {
		return host
	}

	u := url.URL{
		Scheme: "https",
		Host:   host,
	}
	return u.String()
}
