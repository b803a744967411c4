// Package objectstore moves world-state bundles between S3 and the
// node's local filesystem.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API is the slice of the S3 client the store uses.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Location addresses one object in S3.
type Location struct {
	Bucket string
	Key    string
}

// String renders the location as an s3:// URI.
func (l Location) String() string {
	return fmt.Sprintf("s3://%s/%s", l.Bucket, l.Key)
}

// ParsePrefix splits a world-state prefix of the form
// "s3://bucket/some/prefix" or "bucket/some/prefix" into bucket and key
// prefix. The prefix part may be empty (bundle at bucket root).
func ParsePrefix(prefix string) (bucket, keyPrefix string, err error) {
	trimmed := strings.TrimPrefix(prefix, "s3://")
	trimmed = strings.Trim(trimmed, "/")
	if trimmed == "" {
		return "", "", fmt.Errorf("empty object-storage prefix %q", prefix)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	bucket = parts[0]
	if len(parts) == 2 {
		keyPrefix = parts[1]
	}
	return bucket, keyPrefix, nil
}

// ObjectLocation resolves the location of object under prefix.
func ObjectLocation(prefix, object string) (Location, error) {
	bucket, keyPrefix, err := ParsePrefix(prefix)
	if err != nil {
		return Location{}, err
	}
	key := object
	if keyPrefix != "" {
		key = keyPrefix + "/" + object
	}
	return Location{Bucket: bucket, Key: key}, nil
}

// S3Store downloads objects from S3.
type S3Store struct {
	client s3API
}

// NewS3Store creates an S3Store for the given region using the default
// AWS credential chain (instance profile on the node).
func NewS3Store(ctx context.Context, region string) (*S3Store, error) {
	cfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &S3Store{client: s3.NewFromConfig(cfg)}, nil
}

// Download streams the object at loc into dest and returns the number
// of bytes written. The destination is written via a temp file in the
// same directory so a failed download never leaves a truncated dest.
func (s *S3Store) Download(ctx context.Context, loc Location, dest string) (int64, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", loc, err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, out.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", loc, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return 0, err
	}
	return n, nil
}
