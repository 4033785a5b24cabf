package repository

import (
	"github.com/aulago/campus/internal/model"
	"gorm.io/gorm"
)

type ForumRepository interface {
	Create(forum *model.Forum) error
	FindAll() ([]model.Forum, error)
	FindByIDWithComments(id uint) (*model.Forum, error)
	Delete(id uint) error
	CreateComment(comment *model.ForumComment) error
}

type forumRepository struct {
	db *gorm.DB
}

func NewForumRepository(db *gorm.DB) ForumRepository {
	return &forumRepository{db: db}
}

func (r *forumRepository) Create(forum *model.Forum) error {
	return r.db.Create(forum).Error
}

func (r *forumRepository) FindAll() ([]model.Forum, error) {
	var forums []model.Forum
	err := r.db.Preload("CreatedBy").Order("created_at desc").Find(&forums).Error
	return forums, err
}

func (r *forumRepository) FindByIDWithComments(id uint) (*model.Forum, error) {
	var forum model.Forum
	err := r.db.
		Preload("CreatedBy").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("forum_comments.created_at ASC")
		}).
		Preload("Comments.User").
		First(&forum, id).Error
	if err != nil {
		return nil, err
	}
	return &forum, nil
}

func (r *forumRepository) Delete(id uint) error {
	return r.db.Select("Comments").Delete(&model.Forum{ID: id}).Error
}

func (r *forumRepository) CreateComment(comment *model.ForumComment) error {
	return r.db.Create(comment).Error
}
