package storage

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Bab4nI/Jaba/internal/config"
)

// Ensure MinioStore implements Store interface.
var _ Store = (*MinioStore)(nil)

// Minio (S3) backed attachment store
type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(cfg *config.S3Config) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.SSLEnabled,
	})
	if err != nil {
		return nil, err
	}

	return &MinioStore{
		client: client,
		bucket: cfg.BucketName,
	}, nil
}

func NewMinioStoreFromClient(client *minio.Client, bucket string) *MinioStore {
	return &MinioStore{
		client: client,
		bucket: bucket,
	}
}

func (s *MinioStore) Put(
	ctx context.Context,
	reader io.ReadSeeker,
	length int64,
	key string,
) error {
	ctx, span := tracer.Start(ctx, "MinioStore.Put", trace.WithAttributes(
		attribute.String("key", key),
		attribute.Int64("length", length),
	))
	defer span.End()

	_, err := s.client.PutObject(ctx, s.bucket, key, reader, length, minio.PutObjectOptions{})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to put object")
		return err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "put object")
	return nil
}

func (s *MinioStore) Exists(ctx context.Context, key string) (bool, error) {
	ctx, span := tracer.Start(ctx, "MinioStore.Exists", trace.WithAttributes(
		attribute.String("key", key),
	))
	defer span.End()

	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		errResponse := minio.ToErrorResponse(err)
		if errResponse.Code == "NoSuchKey" {
			span.RecordError(nil)
			span.SetStatus(codes.Ok, "did not find object")
			return false, nil
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to stat object")
		return false, err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "statted object")
	return true, nil
}

func (s *MinioStore) Location(_ context.Context) (string, error) {
	return s.bucket, nil
}

func (s *MinioStore) DownloadURL(
	ctx context.Context,
	key string,
	ttl time.Duration,
) (string, error) {
	ctx, span := tracer.Start(ctx, "MinioStore.DownloadURL", trace.WithAttributes(
		attribute.String("key", key),
		attribute.String("ttl", ttl.String()),
	))
	defer span.End()

	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get presigned url")
		return "", err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "got presigned url")
	return presigned.String(), nil
}
