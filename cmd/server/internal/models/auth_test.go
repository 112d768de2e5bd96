package models

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Bab4nI/Jaba/internal/config"
)

func TestLoadAPIKeysFromConfig(t *testing.T) {
	db := testDB(t)

	tru := true
	fal := false
	keys := []config.APIKey{
		{
			ID:     uuid.New().String(),
			Note:   "Key 0",
			Token:  "abcdefg",
			Active: &tru,
		},
		{
			ID:     uuid.New().String(),
			Note:   "Key 1",
			Token:  "abcdefg",
			Active: &tru,
		},
		{
			ID:     uuid.New().String(),
			Note:   "Key 2",
			Token:  "abcdefg",
			Active: &tru,
			Admin:  true,
		},
	}

	t.Run("LoadMany", func(t *testing.T) {
		err := LoadAPIKeysFromConfig(context.Background(), db, keys)
		require.NoError(t, err, "failed to upsert keys")

		checkKeys(t, db, keys, true)

		admin, err := ByID[Auth](context.Background(), db, uuid.MustParse(keys[2].ID))
		require.NoError(t, err, "failed to get admin key from db")
		assert.True(t, admin.Admin, "admin flag did not persist")
	})

	t.Run("LoadManyLessOne", func(t *testing.T) {
		modified := make([]config.APIKey, len(keys))
		copy(modified, keys)

		err := LoadAPIKeysFromConfig(context.Background(), db, modified[1:])
		require.NoError(t, err, "failed to upsert keys")

		checkKeys(t, db, modified[1:], true)
		checkKeys(t, db, modified[0:1], false)
	})

	t.Run("LoadManyMarkOneInactive", func(t *testing.T) {
		modified := make([]config.APIKey, len(keys))
		copy(modified, keys)

		modified[0].Active = &fal

		err := LoadAPIKeysFromConfig(context.Background(), db, modified)
		require.NoError(t, err, "failed to upsert keys")

		checkKeys(t, db, modified[1:], true)
		checkKeys(t, db, modified[0:1], false)
	})

	t.Run("LoadManyPromoteToAdmin", func(t *testing.T) {
		modified := make([]config.APIKey, len(keys))
		copy(modified, keys)

		modified[0].Active = &tru
		modified[0].Admin = true

		err := LoadAPIKeysFromConfig(context.Background(), db, modified)
		require.NoError(t, err, "failed to upsert keys")

		promoted, err := ByID[Auth](context.Background(), db, uuid.MustParse(modified[0].ID))
		require.NoError(t, err, "failed to get key from db")
		assert.True(t, promoted.Admin, "admin flag did not update")
	})
}

func checkKeys(t *testing.T, db *gorm.DB, keys []config.APIKey, active bool) {
	for _, key := range keys {
		m, err := ByID[Auth](context.Background(), db, uuid.MustParse(key.ID))
		require.NoError(t, err, "failed to get key from db")

		assert.True(t, m.Active.Valid, "active is not valid")
		assert.Equalf(t, active, m.Active.V, "active not expected state: %s", key.Note)
	}
}
