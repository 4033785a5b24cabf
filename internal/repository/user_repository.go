package repository

import (
	"time"

	"github.com/aulago/campus/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindByActivationToken(token string) (*model.User, error)
	FindPendingTeachers() ([]model.User, error)
	Update(user *model.User) error
	DeleteInactiveCreatedBefore(cutoff time.Time) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByActivationToken(token string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("activation_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindPendingTeachers() ([]model.User, error) {
	var users []model.User
	err := r.db.
		Where("role = ? AND verification_status = ?", model.RoleTeacher, model.VerificationPending).
		Order("created_at asc").
		Find(&users).Error
	return users, err
}

func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

// DeleteInactiveCreatedBefore removes accounts that never activated.
// Unactivated accounts cannot log in, so they own no other records.
func (r *userRepository) DeleteInactiveCreatedBefore(cutoff time.Time) (int64, error) {
	res := r.db.Where("is_active = ? AND created_at < ?", false, cutoff).Delete(&model.User{})
	return res.RowsAffected, res.Error
}
