package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appConfig "github.com/Xyleee/api-devguidance/internal/config"
	"github.com/Xyleee/api-devguidance/pkg/utils"
)

// Upload folders.
const (
	FolderMessages = "uploads/messages"
	FolderResumes  = "uploads/resumes"
	FolderProfiles = "uploads/profiles"
)

// ObjectUploader stores an uploaded file and returns its public URL.
type ObjectUploader interface {
	Upload(ctx context.Context, folder, filename string, body io.Reader, contentType string) (string, error)
}

// R2Uploader writes objects to a Cloudflare R2 bucket through the S3 API.
type R2Uploader struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewR2Uploader(ctx context.Context, cfg *appConfig.Config) (*R2Uploader, error) {
	if !cfg.StorageConfigured() {
		return nil, fmt.Errorf("object storage is not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID))
	})

	publicURL := strings.TrimRight(cfg.R2PublicURL, "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.r2.dev", cfg.R2BucketName)
	}

	return &R2Uploader{client: client, bucket: cfg.R2BucketName, publicURL: publicURL}, nil
}

func (u *R2Uploader) Upload(ctx context.Context, folder, filename string, body io.Reader, contentType string) (string, error) {
	key := ObjectKey(folder, filename)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return u.publicURL + "/" + key, nil
}

// ObjectKey builds a collision-free key that keeps the original extension.
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), utils.GenerateID(), ext)
}
