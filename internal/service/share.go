package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/platewise/backend/config"
)

// ShareService stores rendered share cards (the image the client renders
// when a plan is shared) in S3 and hands back URLs. Rendering happens on the
// client; this service only owns storage.
type ShareService struct {
	s3Config *config.S3Config
}

func NewShareService(s3Config *config.S3Config) *ShareService {
	return &ShareService{s3Config: s3Config}
}

// UploadShareCard stores the card bytes for a plan and returns a presigned
// URL valid for a week.
func (s *ShareService) UploadShareCard(ctx context.Context, planID uuid.UUID, data []byte, contentType string) (string, error) {
	if s.s3Config == nil {
		return "", fmt.Errorf("share card storage is not configured")
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty share card payload")
	}
	if contentType == "" {
		contentType = "image/png"
	}

	key := fmt.Sprintf("share-cards/%s/%s.png", planID, uuid.New())
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload share card: %w", err)
	}

	url, err := s.s3Config.GeneratePresignedURL(ctx, key, 7*24*time.Hour)
	if err != nil {
		return "", fmt.Errorf("failed to presign share card URL: %w", err)
	}

	log.Printf("[ShareService] uploaded share card %s for plan %s", key, planID)
	return url, nil
}
