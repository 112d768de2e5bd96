package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Comment is a threaded discussion entry under a lesson. Replies point at
// their parent; top level comments have a null parent.
type Comment struct {
	Body string `json:"body"`
	Model
	LessonID uuid.UUID                 `json:"lesson_id"`
	AuthorID uuid.UUID                 `json:"author_id"`
	ParentID datatypes.Null[uuid.UUID] `json:"parent_id" gorm:"type:uuid"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c Comment) GetID() uuid.UUID {
	return c.ID
}
