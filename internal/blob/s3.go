package blob

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dharsanguruparan/SchoolHub/internal/config"
)

// objectClient is the slice of *minio.Client S3Store needs, kept narrow so
// tests can substitute a fake.
type objectClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	EndpointURL() *url.URL
}

// S3Store uploads images to an S3-compatible object store and references them
// by their public URL.
type S3Store struct {
	client    objectClient
	bucket    string
	region    string
	publicURL string
}

// NewS3Store creates a MinIO client from the Config.
func NewS3Store(cfg *config.Config) (*S3Store, error) {
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
		Region: cfg.S3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return newS3Store(client, cfg.S3Bucket, cfg.S3Region, cfg.S3PublicURL), nil
}

func newS3Store(client objectClient, bucket, region, publicURL string) *S3Store {
	return &S3Store{
		client:    client,
		bucket:    bucket,
		region:    region,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// EnsureBucket makes sure the image bucket exists before use.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("make bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Save uploads the image under schoolImages/ and returns its canonical URL.
func (s *S3Store) Save(ctx context.Context, f *File) (*string, error) {
	if f == nil || f.Reader == nil {
		return nil, nil
	}
	reader := bufio.NewReaderSize(f.Reader, 512)
	contentType := f.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		sniff, _ := reader.Peek(512)
		contentType = http.DetectContentType(sniff)
	}
	key := fmt.Sprintf("%s/%s%s", Folder, uuid.NewString(), extension(f.Filename))
	size := f.Size
	if size <= 0 {
		size = -1
	}
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucket, key, reader, size, opts); err != nil {
		return nil, &StorageWriteError{Err: fmt.Errorf("upload object: %w", err)}
	}
	ref := s.objectURL(key)
	return &ref, nil
}

// Delete is a no-op: remote images outlive their rows.
func (s *S3Store) Delete(context.Context, string) error {
	return nil
}

func (s *S3Store) objectURL(key string) string {
	base := s.publicURL
	if base == "" {
		base = strings.TrimRight(s.client.EndpointURL().String(), "/")
	}
	return fmt.Sprintf("%s/%s/%s", base, s.bucket, key)
}
