package models

import (
	"github.com/google/uuid"

	"github.com/Bab4nI/Jaba/internal/assistant"
)

// ChatState is a user's running assistant conversation. One row per user;
// history accumulates until the user resets it.
type ChatState struct {
	Model
	AuthID   uuid.UUID           `json:"auth_id"  gorm:"uniqueIndex"`
	Messages []assistant.Message `json:"messages" gorm:"type:jsonb;serializer:json"`
}

func (ChatState) TableName() string {
	return "chat_states"
}

func (s ChatState) GetID() uuid.UUID {
	return s.ID
}
