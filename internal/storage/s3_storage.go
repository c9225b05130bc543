package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/carlosgl93/gumucio-propiedades/internal/config"
)

// IObjectStorage is the object-store collaborator: path-addressed binary
// blobs with upload, durable URL issuance, per-object deletion and prefix
// listing. Property images live under
// properties/{propertyId}/images/{imageId}.{ext} and thumbnails under
// properties/{propertyId}/thumbnails/{imageId}_thumb.jpg.
type IObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Download(ctx context.Context, key string) ([]byte, string, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
	ObjectURL(key string) string
}

// s3Storage implements IObjectStorage on AWS S3.
type s3Storage struct {
	cfg      *config.Config
	s3Client *s3.Client
}

// NewS3Storage creates the S3-backed object storage service.
func NewS3Storage(cfg *config.Config) (IObjectStorage, error) {
	awsCfg, err := aws_config.LoadDefaultConfig(context.TODO(),
		aws_config.WithRegion(cfg.AwsRegion),
		// Static credentials from config; prefer IAM roles in production.
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"", // session token
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &s3Storage{
		cfg:      cfg,
		s3Client: s3.NewFromConfig(awsCfg),
	}, nil
}

// Upload writes the object and returns its durable fetch URL. The URL is
// immutable once issued; callers store it in the property document.
func (s *s3Storage) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.AwsS3Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	return s.ObjectURL(key), nil
}

// Download fetches an object's bytes and content type.
func (s *s3Storage) Download(ctx context.Context, key string) ([]byte, string, error) {
	out, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.AwsS3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read object %s: %w", key, err)
	}

	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return data, contentType, nil
}

// List returns the keys of all objects under the given prefix.
func (s *s3Storage) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(s.s3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.AwsS3Bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects under %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}

	return keys, nil
}

// Delete removes a single object.
func (s *s3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.AwsS3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// ObjectURL builds the durable public URL for a key. ImageBaseURL takes
// precedence (CDN or bucket website endpoint); otherwise the virtual-host
// S3 URL is derived from bucket and region.
func (s *s3Storage) ObjectURL(key string) string {
	if s.cfg.ImageBaseURL != "" {
		return strings.TrimSuffix(s.cfg.ImageBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.AwsS3Bucket, s.cfg.AwsRegion, key)
}

// ImageKeyPrefix is the storage folder holding a property's gallery.
func ImageKeyPrefix(propertyID string) string {
	return fmt.Sprintf("properties/%s/images/", propertyID)
}

// ThumbnailKeyPrefix is the storage folder holding a property's thumbnails.
func ThumbnailKeyPrefix(propertyID string) string {
	return fmt.Sprintf("properties/%s/thumbnails/", propertyID)
}

// ImageKey builds the object key for an uploaded gallery image.
func ImageKey(propertyID, imageID, ext string) string {
	return fmt.Sprintf("properties/%s/images/%s.%s", propertyID, imageID, ext)
}

// ThumbnailKey builds the object key for a generated thumbnail.
func ThumbnailKey(propertyID, imageID string) string {
	return fmt.Sprintf("properties/%s/thumbnails/%s_thumb.jpg", propertyID, imageID)
}
