package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/foodgram-project/backend/config"
	"github.com/foodgram-project/backend/errs"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ImageStore persists a decoded image payload and returns a retrievable
// reference. The rest of the system only stores and forwards the reference.
type ImageStore interface {
	Save(ctx context.Context, dataURI string) (string, error)
}

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// DecodeImageDataURI parses a "data:image/<type>;base64,<payload>" string and
// returns the file extension and raw bytes.
func DecodeImageDataURI(dataURI string) (string, []byte, error) {
	header, payload, found := strings.Cut(dataURI, ",")
	if !found || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return "", nil, errs.NewValidationError("image", "image must be a base64 data URI")
	}

	mediaType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	ext, ok := imageExtensions[mediaType]
	if !ok {
		return "", nil, errs.NewValidationError("image", fmt.Sprintf("unsupported image type %q", mediaType))
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errs.NewValidationError("image", "image payload is not valid base64")
	}
	if len(raw) == 0 {
		return "", nil, errs.NewValidationError("image", "image payload is empty")
	}

	return ext, raw, nil
}

func storageKey(ext string) string {
	d := time.Now()
	return fmt.Sprintf("recipes/%d/%02d/%v.%s", d.Year(), d.Month(), uuid.New(), ext)
}

// S3ImageStore uploads images to an S3-compatible bucket (AWS or MinIO).
type S3ImageStore struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3ImageStore(ctx context.Context, c map[string]string) (*S3ImageStore, error) {
	region := config.GetString(c, "S3_REGION", "us-east-1")
	accessKey := config.GetString(c, "S3_ACCESS_KEY", "")
	secretKey := config.GetString(c, "S3_SECRET_KEY", "")
	endpoint := config.GetString(c, "S3_ENDPOINT", "")
	bucket := config.GetString(c, "S3_BUCKET", "")

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := config.GetString(c, "S3_PUBLIC_URL", "")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	return &S3ImageStore{client: client, bucket: bucket, baseURL: baseURL}, nil
}

func (s *S3ImageStore) Save(ctx context.Context, dataURI string) (string, error) {
	ext, raw, err := DecodeImageDataURI(dataURI)
	if err != nil {
		return "", err
	}

	key := storageKey(ext)
	contentType := "image/" + ext
	if ext == "jpg" {
		contentType = "image/jpeg"
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errs.NewInternalErrorWithCause("failed to store image", err)
	}

	return fmt.Sprintf("%s/%s", strings.TrimSuffix(s.baseURL, "/"), key), nil
}

// LocalImageStore writes images under a media directory. Used when no S3
// bucket is configured, typically in development.
type LocalImageStore struct {
	dir     string
	baseURL string
}

func NewLocalImageStore(dir, baseURL string) *LocalImageStore {
	return &LocalImageStore{dir: dir, baseURL: baseURL}
}

func (s *LocalImageStore) Save(_ context.Context, dataURI string) (string, error) {
	ext, raw, err := DecodeImageDataURI(dataURI)
	if err != nil {
		return "", err
	}

	key := storageKey(ext)
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errs.NewInternalErrorWithCause("failed to create media directory", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", errs.NewInternalErrorWithCause("failed to store image", err)
	}

	return fmt.Sprintf("%s/%s", strings.TrimSuffix(s.baseURL, "/"), key), nil
}

// NewImageStoreFromConfig picks the S3 store when a bucket is configured and
// falls back to the local media directory otherwise.
func NewImageStoreFromConfig(ctx context.Context, c map[string]string) (ImageStore, error) {
	if config.GetString(c, "S3_BUCKET", "") != "" {
		return NewS3ImageStore(ctx, c)
	}

	dir := config.GetString(c, "MEDIA_DIR", "./media")
	baseURL := config.GetString(c, "MEDIA_URL", "/media")
	log.Info().Str("dir", dir).Msg("no S3 bucket configured, storing images locally")
	return NewLocalImageStore(dir, baseURL), nil
}
