package repository

import (
	"github.com/aulago/campus/internal/model"
	"gorm.io/gorm"
)

type ChatRepository interface {
	FindByStudent(studentID uint) (*model.Chat, error)
	Create(chat *model.Chat) error
	Update(chat *model.Chat) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) FindByStudent(studentID uint) (*model.Chat, error) {
	var chat model.Chat
	if err := r.db.Where("student_id = ?", studentID).First(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) Create(chat *model.Chat) error {
	return r.db.Create(chat).Error
}

func (r *chatRepository) Update(chat *model.Chat) error {
	return r.db.Save(chat).Error
}
