package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ContentKind string

const (
	ContentKindText     ContentKind = "text"
	ContentKindVideo    ContentKind = "video"
	ContentKindFile     ContentKind = "file"
	ContentKindCodeTask ContentKind = "code_task"
)

// Content is one block inside a lesson. Body is a kind-specific document:
// markdown for text blocks, an embed URL for video, task statement plus
// expected stdin for code tasks.
type Content struct {
	Kind ContentKind `json:"kind" gorm:"type:text"`
	Model
	LessonID uuid.UUID      `json:"lesson_id"`
	Position int            `json:"position"`
	Body     datatypes.JSON `json:"body"     gorm:"type:jsonb"`
	// content hash of an uploaded file in the attachment store, empty if none
	AttachmentKey string `json:"attachment_key"`
	// points granted for an accepted code task submission, 0 for passive blocks
	MaxScore int `json:"max_score"`
}

func (Content) TableName() string {
	return "contents"
}

func (c Content) GetID() uuid.UUID {
	return c.ID
}
