package dto

import "time"

type ChatMessageSendDTO struct {
	Content string `json:"content" binding:"required"`
}

type ChatMessageDTO struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sent_at"`
}

type ChatResponseDTO struct {
	ID       uint             `json:"id"`
	Messages []ChatMessageDTO `json:"messages"`
}
