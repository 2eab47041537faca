package storage

import (
	"context"
	"fmt"
	"strings"

	"doctor-intro-service/config"
	"doctor-intro-service/internal/service"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

func NewMinioClient(cfg config.StorageConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	logrus.Info("Object storage client initialized")

	return client, nil
}

type minioVideoStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
	log       *logrus.Logger
}

func NewMinioVideoStorage(client *minio.Client, cfg config.StorageConfig, log *logrus.Logger) service.VideoStorage {
	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &minioVideoStorage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       log,
	}
}

func objectKey(videoID string) string {
	return fmt.Sprintf("videos/%s/final_video.webm", videoID)
}

func (s *minioVideoStorage) Upload(ctx context.Context, videoID, localPath, caption string) (string, error) {
	key := objectKey(videoID)

	_, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType:  "video/webm",
		UserMetadata: map[string]string{"caption": caption},
	})
	if err != nil {
		return "", fmt.Errorf("upload final video: %w", err)
	}

	return s.publicURL + "/" + key, nil
}

func (s *minioVideoStorage) Remove(ctx context.Context, videoID string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectKey(videoID), minio.RemoveObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("remove remote video: %w", err)
	}
	return nil
}
