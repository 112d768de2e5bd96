package models

import (
	"github.com/google/uuid"
)

type Lesson struct {
	Title string `json:"title"`
	Model
	ModuleID uuid.UUID `json:"module_id"`
	Position int       `json:"position"`
}

func (Lesson) TableName() string {
	return "lessons"
}

func (l Lesson) GetID() uuid.UUID {
	return l.ID
}
