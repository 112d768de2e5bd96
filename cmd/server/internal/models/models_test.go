package models

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Bab4nI/Jaba/internal/migrations"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16.4-alpine",
		postgres.WithDatabase("jaba"),
		postgres.WithUsername("jaba"),
		postgres.WithPassword("jaba"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	t.Cleanup(func() {
		err = testcontainers.TerminateContainer(postgresContainer)
		assert.NoError(t, err, "failed to terminate container")
	})
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := postgresContainer.ConnectionString(ctx)
	require.NoError(t, err, "failed to get connection string to container")

	db, err := gorm.Open(gormpostgres.Open(dsn))
	require.NoError(t, err, "failed to connect to the database")

	require.NoError(t, migrations.Up(ctx, db), "failed to migrate db")

	return db
}

func TestUtilities(t *testing.T) {
	db := testDB(t)

	auth := &Auth{
		Token:  "foobar",
		Note:   "foobar",
		Active: NewNullFromData(true),
	}
	result := db.Create(auth)
	require.NoError(t, result.Error, "failed to write element to db")

	t.Run("ExistsByID", func(t *testing.T) {
		exists, err := Exists[Auth](context.Background(), db, "id = ?", auth.ID)
		require.NoError(t, err, "failed to check db for existence")

		assert.True(t, exists, "did not find the object")
	})

	t.Run("ExistsByNote", func(t *testing.T) {
		exists, err := Exists[Auth](context.Background(), db, "note = ?", auth.Note)
		require.NoError(t, err, "failed to check db for existence")

		assert.True(t, exists, "did not find the object")
	})

	t.Run("ExistsByMultipleConditions", func(t *testing.T) {
		exists, err := Exists[Auth](
			context.Background(),
			db,
			"id = ? AND note = ?",
			auth.ID,
			auth.Note,
		)
		require.NoError(t, err, "failed to check db for existence")

		assert.True(t, exists, "did not find the object")

		exists, err = Exists[Auth](
			context.Background(),
			db,
			"id = ? AND note = ?",
			auth.ID,
			"some other note",
		)
		require.NoError(t, err, "failed to check db for existence")

		assert.False(t, exists, "should not find object")
	})

	t.Run("DoesNotExistByID", func(t *testing.T) {
		exists, err := Exists[Auth](context.Background(), db, "id = ?", uuid.New())
		require.NoError(t, err, "failed to check db for existence")

		assert.False(t, exists, "should not find object")
	})

	t.Run("ByID", func(t *testing.T) {
		got, err := ByID[Auth](context.Background(), db, auth.ID)
		require.NoError(t, err, "failed to get object by id")

		assert.Equal(t, auth.Note, got.Note)
	})

	t.Run("ListOrdered", func(t *testing.T) {
		course := &Course{Title: "Go Basics", AuthorID: auth.ID, Published: true}
		require.NoError(t, db.Create(course).Error, "failed to create course")

		for i, title := range []string{"Setup", "Syntax", "Testing"} {
			module := &CourseModule{Title: title, CourseID: course.ID, Position: 2 - i}
			require.NoError(t, db.Create(module).Error, "failed to create module")
		}

		modules, err := ListOrdered[CourseModule](
			context.Background(),
			db,
			"position ASC",
			"course_id = ?",
			course.ID,
		)
		require.NoError(t, err, "failed to list modules")

		require.Len(t, modules, 3)
		assert.Equal(t, "Testing", modules[0].Title)
		assert.Equal(t, "Syntax", modules[1].Title)
		assert.Equal(t, "Setup", modules[2].Title)
	})
}
