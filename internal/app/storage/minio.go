package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"

	"staffdesk/internal/app/config"
)

// ErrUnsupportedFile - резюме принимаются только в pdf, doc, docx, odt, txt
var ErrUnsupportedFile = errors.New("unsupported resume file type")

var resumeContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".odt":  "application/vnd.oasis.opendocument.text",
	".txt":  "text/plain",
}

type MinIOClient struct {
	client     *minio.Client
	bucketName string
	urlTTL     time.Duration
}

// NewMinIOClient создает клиент для MinIO и bucket для резюме, если его нет
func NewMinIOClient(ctx context.Context, cfg config.MinIOConfig) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logrus.Infof("Bucket %s created successfully", cfg.Bucket)
	}

	ttl := cfg.URLTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &MinIOClient{
		client:     client,
		bucketName: cfg.Bucket,
		urlTTL:     ttl,
	}, nil
}

// ResumeObjectName генерирует имя объекта на латинице: resume_1a2b3c4d_1700000000.pdf
func ResumeObjectName(originalFilename string, now time.Time) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	contentType, ok := resumeContentTypes[ext]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
	name := fmt.Sprintf("resume_%s_%d%s", uuid.New().String()[:8], now.Unix(), ext)
	return name, contentType, nil
}

// UploadResume загружает файл резюме и возвращает ключ объекта
func (m *MinIOClient) UploadResume(ctx context.Context, fileData []byte, originalFilename string) (string, error) {
	name, contentType, err := ResumeObjectName(originalFilename, time.Now())
	if err != nil {
		return "", err
	}

	reader := bytes.NewReader(fileData)
	_, err = m.client.PutObject(ctx, m.bucketName, name, reader, int64(len(fileData)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	logrus.Infof("File %s uploaded successfully", name)
	return name, nil
}

// ResumeURL возвращает временную ссылку на резюме
func (m *MinIOClient) ResumeURL(ctx context.Context, key string) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, m.bucketName, key, m.urlTTL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url.String(), nil
}
