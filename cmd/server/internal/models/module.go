package models

import (
	"github.com/google/uuid"
)

type CourseModule struct {
	Title string `json:"title"`
	Model
	CourseID uuid.UUID `json:"course_id"`
	Position int       `json:"position"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

func (m CourseModule) GetID() uuid.UUID {
	return m.ID
}
