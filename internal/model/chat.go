package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sent_at"`
}

// Chat archives a student's tutoring conversation as a JSON array, one chat
// per student.
type Chat struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	StudentID    uint   `json:"student_id" gorm:"not null;uniqueIndex"`
	Conversation string `json:"-" gorm:"type:text;not null;default:'[]'"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Chat) Messages() ([]ChatMessage, error) {
	if c.Conversation == "" {
		return nil, nil
	}
	var msgs []ChatMessage
	if err := json.Unmarshal([]byte(c.Conversation), &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *Chat) AppendMessage(role, content string, at time.Time) error {
	msgs, err := c.Messages()
	if err != nil {
		return err
	}
	msgs = append(msgs, ChatMessage{Role: role, Content: content, SentAt: at})
	raw, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	c.Conversation = string(raw)
	return nil
}
