package storage_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Bab4nI/Jaba/internal/storage"
	mockstore "github.com/Bab4nI/Jaba/internal/storage/mock"
)

func fastBackoff() retry.Backoff {
	b := retry.NewConstant(time.Millisecond * 10)
	b = retry.WithMaxRetries(3, b)
	return b
}

func TestRetryStorePut(t *testing.T) {
	t.Run("NoError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := mockstore.NewMockStore(ctrl)

		reader := strings.NewReader("attachment bytes")
		key := "key"

		s.EXPECT().
			Put(gomock.Any(), gomock.Any(), gomock.Eq(int64(reader.Len())), gomock.Eq(key)).
			Return(nil).
			Times(1)

		r := storage.NewRetryStore(s)
		err := r.Put(context.Background(), reader, int64(reader.Len()), key)

		require.NoError(t, err, "failed to put")
	})

	t.Run("ErrorAfter1Try", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := mockstore.NewMockStore(ctrl)

		reader := strings.NewReader("attachment bytes")
		key := "key"

		counter := new(int)
		s.EXPECT().
			Put(gomock.Any(), gomock.Any(), gomock.Eq(int64(reader.Len())), gomock.Eq(key)).
			DoAndReturn(func(_ context.Context, _ io.Reader, _ int64, _ string) error {
				*counter++
				if *counter == 2 {
					return nil
				}

				return errors.New("expected error")
			}).
			Times(2)

		r := storage.NewRetryStore(s)
		err := r.Put(context.Background(), reader, int64(reader.Len()), key)

		require.NoError(t, err, "failed to put")
	})

	t.Run("Error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := mockstore.NewMockStore(ctrl)

		reader := strings.NewReader("attachment bytes")
		key := "key"

		s.EXPECT().
			Put(gomock.Any(), gomock.Any(), gomock.Eq(int64(reader.Len())), gomock.Eq(key)).
			Return(errors.New("expected error")).
			Times(4)

		r := storage.NewRetryStoreBackoff(s, fastBackoff)
		err := r.Put(context.Background(), reader, int64(reader.Len()), key)

		require.Error(t, err, "somehow put")
	})
}

func TestRetryStoreExists(t *testing.T) {
	t.Run("NoError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := mockstore.NewMockStore(ctrl)

		s.EXPECT().Exists(gomock.Any(), gomock.Eq("key")).Return(true, nil).Times(1)

		r := storage.NewRetryStore(s)
		exists, err := r.Exists(context.Background(), "key")

		require.NoError(t, err, "failed to get exists")
		assert.True(t, exists)
	})

	t.Run("ErrorAfter1Try", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := mockstore.NewMockStore(ctrl)

		counter := new(int)
		s.EXPECT().
			Exists(gomock.Any(), gomock.Eq("key")).
			DoAndReturn(func(_ context.Context, _ string) (bool, error) {
				*counter++
				if *counter == 2 {
					return true, nil
				}

				return false, errors.New("expected error")
			}).
			Times(2)

		r := storage.NewRetryStore(s)
		exists, err := r.Exists(context.Background(), "key")

		require.NoError(t, err, "failed to get exists")
		assert.True(t, exists)
	})

	t.Run("Error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		s := mockstore.NewMockStore(ctrl)

		s.EXPECT().
			Exists(gomock.Any(), gomock.Eq("key")).
			Return(false, errors.New("expected error")).
			Times(4)

		r := storage.NewRetryStoreBackoff(s, fastBackoff)
		_, err := r.Exists(context.Background(), "key")

		require.Error(t, err, "somehow exists")
	})
}

func TestPutHashedSkipsExisting(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mockstore.NewMockStore(ctrl)

	reader := strings.NewReader("attachment bytes")

	s.EXPECT().Exists(gomock.Any(), gomock.Any()).Return(true, nil).Times(1)
	// no Put expectation: a stored object must not be written again

	key, err := storage.PutHashed(context.Background(), s, reader, int64(reader.Len()))
	require.NoError(t, err, "failed to put hashed")
	assert.NotEmpty(t, key)
}

func TestPutHashedStoresNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mockstore.NewMockStore(ctrl)

	reader := strings.NewReader("attachment bytes")

	var key string
	s.EXPECT().
		Exists(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, k string) (bool, error) {
			key = k
			return false, nil
		}).
		Times(1)
	s.EXPECT().
		Put(gomock.Any(), gomock.Any(), gomock.Eq(int64(reader.Len())), gomock.Any()).
		Return(nil).
		Times(1)

	got, err := storage.PutHashed(context.Background(), s, reader, int64(reader.Len()))
	require.NoError(t, err, "failed to put hashed")
	assert.Equal(t, key, got)
}
