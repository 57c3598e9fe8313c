package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MediaStore is the audio-blob collaborator: uploads produce an opaque key,
// reads go through short-lived presigned URLs.
type MediaStore interface {
	UploadAudio(ctx context.Context, body io.Reader, contentType, originalName string) (string, error)
	ReadURL(ctx context.Context, key string) (string, error)
}

// MediaService stores uploaded audio in S3 under generated keys
type MediaService struct {
	Client *s3.Client
	Bucket string
}

var _ MediaStore = (*MediaService)(nil)

// InitializeS3Client initializes the S3 client
func InitializeS3Client() *s3.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return s3.NewFromConfig(cfg)
}

// UploadAudio writes the audio body to a generated object key and returns it
func (ms *MediaService) UploadAudio(ctx context.Context, body io.Reader, contentType, originalName string) (string, error) {
	key := fmt.Sprintf("uploads/audio/audio-%s-%s%s",
		time.Now().Format("20060102150405"), uuid.New().String(), path.Ext(originalName))

	_, err := ms.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(ms.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload audio: %w", err)
	}

	log.Printf("✅ Audio uploaded: %s", key)
	return key, nil
}

// ReadURL generates a presigned URL for reading an audio object
func (ms *MediaService) ReadURL(ctx context.Context, key string) (string, error) {
	params := &s3.GetObjectInput{
		Bucket: aws.String(ms.Bucket),
		Key:    aws.String(key),
	}
	presigner := s3.NewPresignClient(ms.Client)
	presignedURL, err := presigner.PresignGetObject(ctx, params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", fmt.Errorf("failed to presign read: %w", err)
	}
	return presignedURL.URL, nil
}
