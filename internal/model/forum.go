package model

import (
	"time"

	"gorm.io/gorm"
)

type Forum struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description" gorm:"type:text"`
	CreatedByID uint           `json:"created_by_id" gorm:"not null;index"`
	CreatedBy   User           `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`
	Comments    []ForumComment `json:"comments,omitempty" gorm:"foreignKey:ForumID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type ForumComment struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	ForumID uint   `json:"forum_id" gorm:"not null;index"`
	UserID  uint   `json:"user_id" gorm:"not null;index"`
	User    User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Content string `json:"content" gorm:"type:text;not null"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
