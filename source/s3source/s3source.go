// Package s3source pages the objects under a prefix of an S3 compatible
// bucket (AWS S3, Cloudflare R2, MinIO).
//
// S3 lists keys in lexicographic order and has no offset, so a page is found
// by walking ListObjectsV2 pages from the start. That is fine for buckets with
// thousands of keys, not millions.
package s3source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/DukeRupert/pagedlist"
)

var (
	// ErrBucketNotFound is returned when the bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrAccessDenied is returned when the credentials cannot list the bucket.
	ErrAccessDenied = errors.New("access denied")
)

// Object is one listed key.
type Object struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	ETag         string    `json:"etag,omitempty"`
}

// Config holds connection settings for NewClient.
type Config struct {
	// Endpoint overrides the AWS endpoint, e.g.
	// https://<account>.r2.cloudflarestorage.com or http://localhost:9000.
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// NewClient builds an S3 client. With an Endpoint set it uses path-style
// addressing, which R2 and MinIO expect.
func NewClient(cfg Config) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg := aws.Config{
		Region: region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
}

// Source implements pagedlist.Source over a bucket listing.
type Source struct {
	client   s3.ListObjectsV2APIClient
	bucket   string
	prefix   string
	pageKeys int32
}

// New returns a Source listing bucket under prefix.
func New(client s3.ListObjectsV2APIClient, bucket, prefix string) *Source {
	return &Source{client: client, bucket: bucket, prefix: prefix, pageKeys: 1000}
}

// WithListPageSize sets how many keys each ListObjectsV2 call asks for.
func (s *Source) WithListPageSize(n int32) *Source {
	if n > 0 {
		s.pageKeys = n
	}
	return s
}

func (s *Source) paginator() *s3.ListObjectsV2Paginator {
	params := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	}
	if s.prefix != "" {
		params.Prefix = aws.String(s.prefix)
	}
	return s3.NewListObjectsV2Paginator(s.client, params, func(o *s3.ListObjectsV2PaginatorOptions) {
		o.Limit = s.pageKeys
	})
}

// Count returns the number of keys under the prefix.
func (s *Source) Count(ctx context.Context) (int, error) {
	p := s.paginator()
	total := 0
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return 0, &Error{Op: "Count", Bucket: s.bucket, Err: mapError(err)}
		}
		total += len(page.Contents)
	}
	return total, nil
}

// Fetch returns up to limit objects after skipping offset keys.
func (s *Source) Fetch(ctx context.Context, offset, limit int) ([]Object, error) {
	p := s.paginator()
	out := make([]Object, 0, pagedlist.FetchCapacity(limit))
	seen := 0

	for p.HasMorePages() && len(out) < limit {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, &Error{Op: "Fetch", Bucket: s.bucket, Err: mapError(err)}
		}
		for _, obj := range page.Contents {
			if seen < offset {
				seen++
				continue
			}
			if len(out) == limit {
				break
			}
			out = append(out, Object{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
				ETag:         aws.ToString(obj.ETag),
			})
		}
	}
	return out, nil
}

// Error records the listing operation that failed.
type Error struct {
	Op     string
	Bucket string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("s3 %s %q: %v", e.Op, e.Bucket, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// mapError converts S3 errors into the package's sentinel errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchBucket":
			return fmt.Errorf("%w: %w", ErrBucketNotFound, err)
		case "AccessDenied", "Forbidden":
			return fmt.Errorf("%w: %w", ErrAccessDenied, err)
		}
	}

	var httpErr interface{ HTTPStatusCode() int }
	if errors.As(err, &httpErr) {
		switch httpErr.HTTPStatusCode() {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", ErrBucketNotFound, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %w", ErrAccessDenied, err)
		}
	}
	return err
}

var _ pagedlist.Source[Object] = (*Source)(nil)
