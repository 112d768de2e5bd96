package models

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Model
	AuthorID uuid.UUID `json:"author_id"`
	// content hash of the cover image in the attachment store, empty if unset
	CoverKey  string `json:"cover_key"`
	Published bool   `json:"published"`
}

func (Course) TableName() string {
	return "courses"
}

func (c Course) GetID() uuid.UUID {
	return c.ID
}

// CourseForModule returns the course owning the module.
func CourseForModule(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) (*Course, error) {
	var course Course

	err := db.WithContext(ctx).
		Joins("JOIN course_modules ON course_modules.course_id = courses.id").
		Where("course_modules.id = ?", moduleID).
		First(&course).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get course for module: %w", err)
	}

	return &course, nil
}

// CourseForLesson returns the course owning the lesson, through its module.
func CourseForLesson(ctx context.Context, db *gorm.DB, lessonID uuid.UUID) (*Course, error) {
	var course Course

	err := db.WithContext(ctx).
		Joins("JOIN course_modules ON course_modules.course_id = courses.id").
		Joins("JOIN lessons ON lessons.module_id = course_modules.id").
		Where("lessons.id = ?", lessonID).
		First(&course).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get course for lesson: %w", err)
	}

	return &course, nil
}

// CourseForContent returns the course owning the content block, through its
// lesson and module.
func CourseForContent(ctx context.Context, db *gorm.DB, contentID uuid.UUID) (*Course, error) {
	var course Course

	err := db.WithContext(ctx).
		Joins("JOIN course_modules ON course_modules.course_id = courses.id").
		Joins("JOIN lessons ON lessons.module_id = course_modules.id").
		Joins("JOIN contents ON contents.lesson_id = lessons.id").
		Where("contents.id = ?", contentID).
		First(&course).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get course for content: %w", err)
	}

	return &course, nil
}
