package models

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func seedContent(t *testing.T, db *gorm.DB, maxScore int) (*Auth, *Content) {
	t.Helper()

	auth := &Auth{Token: "hash", Note: "student", Active: NewNullFromData(true)}
	require.NoError(t, db.Create(auth).Error, "failed to create auth")

	course := &Course{Title: "Go Basics", AuthorID: auth.ID, Published: true}
	require.NoError(t, db.Create(course).Error, "failed to create course")

	module := &CourseModule{Title: "Syntax", CourseID: course.ID}
	require.NoError(t, db.Create(module).Error, "failed to create module")

	lesson := &Lesson{Title: "Loops", ModuleID: module.ID}
	require.NoError(t, db.Create(lesson).Error, "failed to create lesson")

	content := &Content{
		Kind:     ContentKindCodeTask,
		LessonID: lesson.ID,
		Body:     datatypes.JSON(`{"statement":"sum two numbers"}`),
		MaxScore: maxScore,
	}
	require.NoError(t, db.Create(content).Error, "failed to create content")

	return auth, content
}

func TestProgressRecorder(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	auth, content := seedContent(t, db, 10)
	recorder := NewProgressRecorder(db)

	t.Run("FailedAttemptGrantsNothing", func(t *testing.T) {
		summary, err := recorder.Record(ctx, auth.ID, content.ID, false)
		require.NoError(t, err, "failed to record progress")

		assert.Equal(t, 0, summary.Score)
		assert.Equal(t, 10, summary.MaxScore)
		assert.False(t, summary.Completed)
	})

	t.Run("AcceptedGrantsFullScore", func(t *testing.T) {
		summary, err := recorder.Record(ctx, auth.ID, content.ID, true)
		require.NoError(t, err, "failed to record progress")

		assert.Equal(t, 10, summary.Score)
		assert.True(t, summary.Completed)
	})

	t.Run("ScoreAndCompletionDoNotRegress", func(t *testing.T) {
		summary, err := recorder.Record(ctx, auth.ID, content.ID, false)
		require.NoError(t, err, "failed to record progress")

		assert.Equal(t, 10, summary.Score, "score must not drop after a failed retry")
		assert.True(t, summary.Completed, "completion must not revert")
	})

	t.Run("AttemptsCountEveryRun", func(t *testing.T) {
		var row ContentProgress
		err := db.Where("auth_id = ? AND content_id = ?", auth.ID, content.ID).
			First(&row).Error
		require.NoError(t, err, "failed to read progress row")

		assert.Equal(t, 3, row.Attempts)
	})

	t.Run("UnknownContentFails", func(t *testing.T) {
		otherAuth, otherContent := seedContent(t, db, 5)
		require.NoError(t, db.Delete(otherContent).Error, "failed to delete content")

		_, err := recorder.Record(ctx, otherAuth.ID, otherContent.ID, true)
		assert.Error(t, err, "recording against deleted content must fail")
	})
}
