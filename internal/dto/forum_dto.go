package dto

import "time"

type ForumCreateDTO struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type ForumCommentCreateDTO struct {
	Content string `json:"content" binding:"required"`
}

type ForumCommentDTO struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ForumSummaryDTO struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedByID uint      `json:"created_by_id"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type ForumDetailDTO struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	CreatedByID uint              `json:"created_by_id"`
	CreatedBy   string            `json:"created_by"`
	CreatedAt   time.Time         `json:"created_at"`
	Comments    []ForumCommentDTO `json:"comments"`
}
