package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Client abstracts the S3 API operations used by S3Store.
// The s3.Client type satisfies this interface.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Presigner abstracts presigned-URL generation. An s3.PresignClient
// satisfies this interface.
type S3Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Store implements Backend on Amazon S3 or any S3-compatible object store
// (MinIO, R2, etc.). All keys are mapped to S3 object keys under an optional
// prefix. The caller configures the s3.Client with credentials, region, and
// endpoint.
//
// S3 PutObject is atomic per key, so no temp-and-rename dance is needed:
// readers see either the old object or the new one, never a partial write.
type S3Store struct {
	client    S3Client
	presigner S3Presigner
	bucket    string
	prefix    string
	urlTTL    time.Duration
}

// NewS3 creates an S3-backed store. presigner is typically
// s3.NewPresignClient(client); urlTTL bounds the lifetime of playback URLs.
func NewS3(client S3Client, presigner S3Presigner, bucket, prefix string, urlTTL time.Duration) *S3Store {
	return &S3Store{client: client, presigner: presigner, bucket: bucket, prefix: prefix, urlTTL: urlTTL}
}

// key builds the full S3 object key for the given storage key.
func (s *S3Store) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + "/" + k
}

func (s *S3Store) Put(ctx context.Context, key string, r io.Reader) error {
	defer observe("put", time.Now())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(key)),
		Body:   r,
	})
	return err
}

func (s *S3Store) Open(ctx context.Context, key string, rng *ByteRange) (io.ReadCloser, int64, error) {
	defer observe("open", time.Now())

	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(key)),
	}
	if rng != nil {
		if rng.End < 0 {
			input.Range = aws.String(fmt.Sprintf("bytes=%d-", rng.Start))
		} else {
			input.Range = aws.String(fmt.Sprintf("bytes=%d-%d", rng.Start, rng.End))
		}
	}

	out, err := s.client.GetObject(ctx, input)
	if err != nil {
		if isS3NotFound(err) {
			return nil, 0, fmt.Errorf("storage: open %s: %w", key, os.ErrNotExist)
		}
		return nil, 0, err
	}

	size := aws.ToInt64(out.ContentLength)
	if rng != nil {
		total, err := totalFromContentRange(aws.ToString(out.ContentRange))
		if err != nil {
			out.Body.Close()
			return nil, 0, err
		}
		size = total
	}
	return out.Body, size, nil
}

func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(key)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes the object. S3 DeleteObject is already idempotent
// (returns success for missing keys).
func (s *S3Store) Delete(ctx context.Context, key string) error {
	defer observe("delete", time.Now())

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(key)),
	})
	return err
}

func (s *S3Store) Size(ctx context.Context, key string) (int64, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(key)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return 0, fmt.Errorf("storage: size %s: %w", key, os.ErrNotExist)
		}
		return 0, err
	}
	return aws.ToInt64(out.ContentLength), nil
}

// PublicURL returns a time-bounded presigned GET URL for the object.
func (s *S3Store) PublicURL(ctx context.Context, key string) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(key)),
	}, func(o *s3.PresignOptions) {
		o.Expires = s.urlTTL
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// totalFromContentRange extracts the total size from a Content-Range header
// of the form "bytes start-end/total".
func totalFromContentRange(cr string) (int64, error) {
	idx := strings.LastIndexByte(cr, '/')
	if idx < 0 {
		return 0, fmt.Errorf("storage: malformed Content-Range %q", cr)
	}
	total, err := strconv.ParseInt(cr[idx+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("storage: malformed Content-Range %q: %w", cr, err)
	}
	return total, nil
}

// isS3NotFound reports whether err indicates the S3 object does not exist.
func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

// Compile-time interface check.
var _ Backend = (*S3Store)(nil)
