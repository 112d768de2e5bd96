package storage

import (
	"context"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/Bab4nI/Jaba/internal/hash"
)

var tracer = otel.Tracer("github.com/Bab4nI/Jaba/internal/storage")

//go:generate mockgen -destination ./mock/mock.go -package mock . Store

// Store persists lesson attachments (images, archives, notebook files).
type Store interface {
	// Put creates or overwrites the object at key.
	Put(ctx context.Context, reader io.ReadSeeker, length int64, key string) error
	// Exists reports whether key already holds an object. Used to skip
	// re-uploading identical content, not as authoritative existence.
	Exists(ctx context.Context, key string) (bool, error)
	// Location identifies where objects land, for logging.
	Location(ctx context.Context) (string, error)
	// DownloadURL returns an anonymous, read-only URL for key valid for ttl.
	DownloadURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// PutHashed stores reader under the hash of its contents, skipping the write
// when an object with that hash is already present. Returns the key.
//
// Seeks reader to the start before hashing and again before writing, so only
// pass a buffer meant to be stored whole.
func PutHashed(
	ctx context.Context,
	s Store,
	reader io.ReadSeeker,
	length int64,
) (string, error) {
	ctx, span := tracer.Start(ctx, "PutHashed")
	defer span.End()

	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to seek to start")
		return "", err
	}

	key, err := hash.Reader(ctx, reader)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to hash reader")
		return "", err
	}

	exists, err := s.Exists(ctx, key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check if object exists")
		return "", err
	}

	if exists {
		span.RecordError(nil)
		span.SetStatus(codes.Ok, "found existing object")
		return key, nil
	}

	if _, err = reader.Seek(0, io.SeekStart); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to seek to start")
		return "", err
	}

	if err = s.Put(ctx, reader, length, key); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to store object")
		return "", err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "stored object by hash")
	return key, nil
}
