package storage

import (
	"context"
	"io"
	"time"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/codes"
)

// Ensure RetryStore implements Store interface.
var _ Store = (*RetryStore)(nil)

// Meta store that wraps store operations in backoff loops
type RetryStore struct {
	store   Store
	backoff func() retry.Backoff
}

func NewRetryStoreBackoff(store Store, backoff func() retry.Backoff) *RetryStore {
	return &RetryStore{
		store:   store,
		backoff: backoff,
	}
}

// For non latency sensitive attachment uploads
func NewRetryStore(store Store) *RetryStore {
	return &RetryStore{
		store: store,
		backoff: func() retry.Backoff {
			b := retry.NewExponential(time.Second)
			b = retry.WithMaxDuration(time.Second*120, b)
			return b
		},
	}
}

func (r *RetryStore) Put(
	ctx context.Context,
	reader io.ReadSeeker,
	length int64,
	key string,
) error {
	ctx, span := tracer.Start(ctx, "RetryStore.Put")
	defer span.End()

	err := retry.Do(ctx, r.backoff(), func(ctx context.Context) error {
		//nolint:govet // shadow: intentionally shadow ctx and span to avoid using the incorrect one.
		ctx, span := tracer.Start(ctx, "RetryStore.Put.Retry")
		defer span.End()

		if _, err := reader.Seek(0, io.SeekStart); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to seek to start")
			return err
		}

		if err := r.store.Put(ctx, reader, length, key); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to put object")
			return retry.RetryableError(err)
		}

		span.RecordError(nil)
		span.SetStatus(codes.Ok, "successfully retried")
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to put object")
		return err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "put object")
	return nil
}

func (r *RetryStore) Exists(ctx context.Context, key string) (bool, error) {
	ctx, span := tracer.Start(ctx, "RetryStore.Exists")
	defer span.End()

	var exists bool
	err := retry.Do(ctx, r.backoff(), func(rctx context.Context) error {
		//nolint:govet // shadow: intentionally shadow ctx and span to avoid using the incorrect one.
		ctx, span := tracer.Start(rctx, "RetryStore.Exists.Retry")
		defer span.End()

		var err error
		exists, err = r.store.Exists(ctx, key)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to get exists")
			return retry.RetryableError(err)
		}

		span.RecordError(nil)
		span.SetStatus(codes.Ok, "successfully retried")
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get exists")
		return false, err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "got exists")
	return exists, nil
}

func (r *RetryStore) Location(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "RetryStore.Location")
	defer span.End()

	var location string
	err := retry.Do(ctx, r.backoff(), func(ctx context.Context) error {
		//nolint:govet // shadow: intentionally shadow ctx and span to avoid using the incorrect one.
		ctx, span := tracer.Start(ctx, "RetryStore.Location.Retry")
		defer span.End()

		var err error
		location, err = r.store.Location(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to get location")
			return retry.RetryableError(err)
		}

		span.RecordError(nil)
		span.SetStatus(codes.Ok, "successfully retried")
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get location")
		return "", err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "got location")
	return location, nil
}

func (r *RetryStore) DownloadURL(
	ctx context.Context,
	key string,
	ttl time.Duration,
) (string, error) {
	ctx, span := tracer.Start(ctx, "RetryStore.DownloadURL")
	defer span.End()

	var presigned string
	err := retry.Do(ctx, r.backoff(), func(ctx context.Context) error {
		//nolint:govet // shadow: intentionally shadow ctx and span to avoid using the incorrect one.
		ctx, span := tracer.Start(ctx, "RetryStore.DownloadURL.Retry")
		defer span.End()

		var err error
		presigned, err = r.store.DownloadURL(ctx, key, ttl)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to get download url")
			return retry.RetryableError(err)
		}

		span.RecordError(nil)
		span.SetStatus(codes.Ok, "successfully retried")
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get download url")
		return "", err
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "got download url")
	return presigned, nil
}
