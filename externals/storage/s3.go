package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"hiringdesk/core/config"
	"hiringdesk/core/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscredentials "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gosimple/slug"
)

// UploaderInterface stores generated documents.
type UploaderInterface interface {
	UploadFeedbackPDF(ctx context.Context, candidateName string, interviewID string, content []byte) (string, error)
}

// Uploader writes files to the configured S3 bucket.
type Uploader struct {
	client *s3.Client
	bucket string
}

func NewUploader(cfg config.AWSConfig) *Uploader {
	client := s3.New(s3.Options{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			awscredentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	})
	return &Uploader{client: client, bucket: cfg.Bucket}
}

// UploadFeedbackPDF stores a feedback report and returns its object key.
func (u *Uploader) UploadFeedbackPDF(ctx context.Context, candidateName, interviewID string, content []byte) (string, error) {
	key := fmt.Sprintf("feedback/%s/%s-%s.pdf",
		time.Now().Format("2006/01"), slug.Make(candidateName), interviewID)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("upload feedback pdf: %w", err)
	}

	logger.Info("Storage:UploadFeedbackPDF:Uploaded", "bucket", u.bucket, "key", key)
	return key, nil
}
