package models

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestCourseLookups(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	auth := &Auth{Token: "hash", Note: "author", Active: NewNullFromData(true)}
	require.NoError(t, db.Create(auth).Error, "failed to create auth")

	course := &Course{Title: "Draft Course", AuthorID: auth.ID, Published: false}
	require.NoError(t, db.Create(course).Error, "failed to create course")

	module := &CourseModule{Title: "Intro", CourseID: course.ID}
	require.NoError(t, db.Create(module).Error, "failed to create module")

	lesson := &Lesson{Title: "First", ModuleID: module.ID}
	require.NoError(t, db.Create(lesson).Error, "failed to create lesson")

	content := &Content{
		Kind:     ContentKindText,
		LessonID: lesson.ID,
		Body:     datatypes.JSON(`{"markdown":"hello"}`),
	}
	require.NoError(t, db.Create(content).Error, "failed to create content")

	t.Run("CourseForModule", func(t *testing.T) {
		got, err := CourseForModule(ctx, db, module.ID)
		require.NoError(t, err, "failed to get course for module")

		assert.Equal(t, course.ID, got.ID)
		assert.False(t, got.Published)
	})

	t.Run("CourseForLesson", func(t *testing.T) {
		got, err := CourseForLesson(ctx, db, lesson.ID)
		require.NoError(t, err, "failed to get course for lesson")

		assert.Equal(t, course.ID, got.ID)
	})

	t.Run("CourseForContent", func(t *testing.T) {
		got, err := CourseForContent(ctx, db, content.ID)
		require.NoError(t, err, "failed to get course for content")

		assert.Equal(t, course.ID, got.ID)
	})

	t.Run("UnknownModule", func(t *testing.T) {
		_, err := CourseForModule(ctx, db, uuid.New())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("UnknownLesson", func(t *testing.T) {
		_, err := CourseForLesson(ctx, db, uuid.New())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("UnknownContent", func(t *testing.T) {
		_, err := CourseForContent(ctx, db, uuid.New())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("PublishedFlagFlowsThrough", func(t *testing.T) {
		course.Published = true
		require.NoError(t, db.Save(course).Error, "failed to publish course")

		got, err := CourseForContent(ctx, db, content.ID)
		require.NoError(t, err, "failed to get course for content")

		assert.True(t, got.Published)
	})
}
